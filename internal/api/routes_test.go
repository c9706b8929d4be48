package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/fishchain/marketplace/internal/api/metrics"
	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
	"github.com/fishchain/marketplace/internal/core/service"
)

var errReached = errors.New("service reached")

// calls records every service method a handler reached.
type calls struct {
	mu    sync.Mutex
	names []string
}

func (c *calls) hit(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
	return errReached
}

func (c *calls) reset() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.names
	c.names = nil
	return out
}

type spyAuth struct{ *calls }

func (s spyAuth) Register(context.Context, ports.RegisterInput) (*domain.User, error) {
	return nil, s.hit("auth.Register")
}
func (s spyAuth) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, s.hit("auth.Login")
}

type spyUsers struct{ *calls }

func (s spyUsers) List(context.Context, domain.Identity, ports.ListUsersFilter) (*ports.ListResult[*domain.User], error) {
	return nil, s.hit("users.List")
}
func (s spyUsers) Get(context.Context, domain.Identity, string) (*domain.User, error) {
	return nil, s.hit("users.Get")
}
func (s spyUsers) Update(context.Context, domain.Identity, string, ports.UpdateUserInput) (*domain.User, error) {
	return nil, s.hit("users.Update")
}
func (s spyUsers) Delete(context.Context, domain.Identity, string) error {
	return s.hit("users.Delete")
}

type spyProducts struct{ *calls }

func (s spyProducts) List(context.Context, ports.ListProductsFilter) (*ports.ListResult[*domain.Product], error) {
	return nil, s.hit("products.List")
}
func (s spyProducts) Get(context.Context, string) (*domain.Product, error) {
	return nil, s.hit("products.Get")
}
func (s spyProducts) Create(context.Context, domain.Identity, ports.ProductInput) (*domain.Product, error) {
	return nil, s.hit("products.Create")
}
func (s spyProducts) Update(context.Context, domain.Identity, string, ports.ProductInput) (*domain.Product, error) {
	return nil, s.hit("products.Update")
}
func (s spyProducts) Delete(context.Context, domain.Identity, string) error {
	return s.hit("products.Delete")
}

type spyCategories struct{ *calls }

func (s spyCategories) List(context.Context) ([]*domain.Category, error) {
	return nil, s.hit("categories.List")
}
func (s spyCategories) Get(context.Context, string) (*domain.Category, error) {
	return nil, s.hit("categories.Get")
}
func (s spyCategories) Create(context.Context, ports.CategoryInput) (*domain.Category, error) {
	return nil, s.hit("categories.Create")
}
func (s spyCategories) Update(context.Context, string, ports.CategoryInput) (*domain.Category, error) {
	return nil, s.hit("categories.Update")
}
func (s spyCategories) Delete(context.Context, string) error {
	return s.hit("categories.Delete")
}

type spyCertificates struct{ *calls }

func (s spyCertificates) List(context.Context, ports.ListCertificatesFilter) ([]*domain.Certificate, error) {
	return nil, s.hit("certificates.List")
}
func (s spyCertificates) Get(context.Context, string) (*domain.Certificate, error) {
	return nil, s.hit("certificates.Get")
}
func (s spyCertificates) Create(context.Context, domain.Identity, ports.CertificateInput) (*domain.Certificate, error) {
	return nil, s.hit("certificates.Create")
}
func (s spyCertificates) Update(context.Context, domain.Identity, string, ports.CertificateInput) (*domain.Certificate, error) {
	return nil, s.hit("certificates.Update")
}
func (s spyCertificates) Delete(context.Context, string) error {
	return s.hit("certificates.Delete")
}

type spyReservations struct{ *calls }

func (s spyReservations) Create(context.Context, domain.Identity, ports.CreateReservationInput) (*domain.Reservation, error) {
	return nil, s.hit("reservations.Create")
}
func (s spyReservations) List(context.Context, domain.Identity, ports.ListReservationsFilter) (*ports.ListResult[*domain.Reservation], error) {
	return nil, s.hit("reservations.List")
}
func (s spyReservations) Get(context.Context, domain.Identity, string) (*domain.Reservation, error) {
	return nil, s.hit("reservations.Get")
}
func (s spyReservations) UpdateStatus(context.Context, domain.Identity, string, string) (*domain.Reservation, error) {
	return nil, s.hit("reservations.UpdateStatus")
}
func (s spyReservations) Cancel(context.Context, domain.Identity, string) (*domain.Reservation, error) {
	return nil, s.hit("reservations.Cancel")
}

type spyNotifications struct{ *calls }

func (s spyNotifications) Notify(context.Context, string, domain.NotificationType, string) (*domain.Notification, error) {
	return nil, s.hit("notifications.Notify")
}
func (s spyNotifications) List(context.Context, domain.Identity, bool, int) ([]*domain.Notification, error) {
	return nil, s.hit("notifications.List")
}
func (s spyNotifications) UnreadCount(context.Context, domain.Identity) (int64, error) {
	return 0, s.hit("notifications.UnreadCount")
}
func (s spyNotifications) MarkRead(context.Context, domain.Identity, string) error {
	return s.hit("notifications.MarkRead")
}
func (s spyNotifications) MarkAllRead(context.Context, domain.Identity) (int64, error) {
	return 0, s.hit("notifications.MarkAllRead")
}

type spyAI struct{ *calls }

func (s spyAI) GenerateCategoryDescription(context.Context, string) (string, error) {
	return "", s.hit("ai.GenerateCategoryDescription")
}
func (s spyAI) AskFAQ(context.Context, string) (string, error) {
	return "", s.hit("ai.AskFAQ")
}

// publicRoutes are reachable without a token.
var publicRoutes = map[string]bool{
	"GET /health":             true,
	"GET /health/ready":       true,
	"POST /api/auth/register": true,
	"POST /api/auth/login":    true,
	"GET /api/products":       true,
	"GET /api/products/:id":   true,
	"GET /api/categories":     true,
	"GET /api/categories/:id": true,
	"POST /api/ai/ask-faq":    true,
}

func newSpyRouter(t *testing.T) (*echo.Echo, *service.TokenIssuer, *calls) {
	t.Helper()
	tokens, err := service.NewTokenIssuer("routes-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	c := &calls{}
	e := NewRouter(Deps{
		Logger:        zerolog.Nop(),
		Verifier:      tokens,
		Auth:          spyAuth{c},
		Users:         spyUsers{c},
		Products:      spyProducts{c},
		Categories:    spyCategories{c},
		Certificates:  spyCertificates{c},
		Reservations:  spyReservations{c},
		Notifications: spyNotifications{c},
		AI:            spyAI{c},
	})
	return e, tokens, c
}

func protectedRoutes(e *echo.Echo) []*echo.Route {
	var out []*echo.Route
	for _, r := range e.Routes() {
		if strings.Contains(r.Path, "*") || publicRoutes[r.Method+" "+r.Path] {
			continue
		}
		switch r.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			out = append(out, r)
		}
	}
	return out
}

func serve(e *echo.Echo, method, path, token string) int {
	req := httptest.NewRequest(method, strings.ReplaceAll(path, ":id", "x1"), strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRoutes_ProtectedRejectAnonymousAtGuard(t *testing.T) {
	e, _, c := newSpyRouter(t)
	missing := metrics.AuthFailuresTotal.WithLabelValues("missing_token")

	routes := protectedRoutes(e)
	if len(routes) == 0 {
		t.Fatal("no protected routes registered")
	}
	for _, r := range routes {
		before := testutil.ToFloat64(missing)
		if code := serve(e, r.Method, r.Path, ""); code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without a token, got %d", r.Method, r.Path, code)
		}
		if got := testutil.ToFloat64(missing) - before; got != 1 {
			t.Errorf("%s %s: request was not rejected by the auth guard", r.Method, r.Path)
		}
		if reached := c.reset(); len(reached) > 0 {
			t.Errorf("%s %s: handler ran for an anonymous caller: %v", r.Method, r.Path, reached)
		}
	}
}

func TestRoutes_AdminNeverForbidden(t *testing.T) {
	e, tokens, c := newSpyRouter(t)
	token, err := tokens.Issue(domain.Identity{ID: "u-admin", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	for _, r := range protectedRoutes(e) {
		if code := serve(e, r.Method, r.Path, token); code == http.StatusForbidden || code == http.StatusUnauthorized {
			t.Errorf("%s %s: admin refused with %d", r.Method, r.Path, code)
		}
	}
	c.reset()
}
