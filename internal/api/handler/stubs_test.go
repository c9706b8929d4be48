package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/fishchain/marketplace/internal/api/middleware"
	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

// newContext builds an Echo context with the validator installed and, when
// id is non-nil, the identity the Auth middleware would have set.
func newContext(method, target string, body io.Reader, id *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != nil {
		middleware.SetIdentity(c, *id)
	}
	return c, rec
}

var (
	adminID  = domain.Identity{ID: "u-admin", Role: domain.RoleAdmin}
	sellerID = domain.Identity{ID: "u-seller", Role: domain.RoleSeller}
	buyerID  = domain.Identity{ID: "u-buyer", Role: domain.RoleBuyer}
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubUserService struct {
	getFn func(ctx context.Context, actor domain.Identity, id string) (*domain.User, error)
}

func (s *stubUserService) List(context.Context, domain.Identity, ports.ListUsersFilter) (*ports.ListResult[*domain.User], error) {
	return ports.NewListResult[*domain.User](nil, 0, ports.PageRequest{}.Normalize()), nil
}

func (s *stubUserService) Get(ctx context.Context, actor domain.Identity, id string) (*domain.User, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubUserService) Update(context.Context, domain.Identity, string, ports.UpdateUserInput) (*domain.User, error) {
	return nil, nil
}

func (s *stubUserService) Delete(context.Context, domain.Identity, string) error { return nil }

type stubProductService struct {
	listFn   func(ctx context.Context, f ports.ListProductsFilter) (*ports.ListResult[*domain.Product], error)
	createFn func(ctx context.Context, actor domain.Identity, in ports.ProductInput) (*domain.Product, error)
	deleteFn func(ctx context.Context, actor domain.Identity, id string) error
}

func (s *stubProductService) List(ctx context.Context, f ports.ListProductsFilter) (*ports.ListResult[*domain.Product], error) {
	return s.listFn(ctx, f)
}

func (s *stubProductService) Get(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (s *stubProductService) Create(ctx context.Context, actor domain.Identity, in ports.ProductInput) (*domain.Product, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubProductService) Update(context.Context, domain.Identity, string, ports.ProductInput) (*domain.Product, error) {
	return nil, nil
}

func (s *stubProductService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	return s.deleteFn(ctx, actor, id)
}

type stubNotificationService struct {
	markReadFn func(ctx context.Context, actor domain.Identity, id string) error
	listFn     func(ctx context.Context, actor domain.Identity, unreadOnly bool, limit int) ([]*domain.Notification, error)
}

func (s *stubNotificationService) Notify(context.Context, string, domain.NotificationType, string) (*domain.Notification, error) {
	return nil, nil
}

func (s *stubNotificationService) List(ctx context.Context, actor domain.Identity, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	return s.listFn(ctx, actor, unreadOnly, limit)
}

func (s *stubNotificationService) UnreadCount(context.Context, domain.Identity) (int64, error) {
	return 3, nil
}

func (s *stubNotificationService) MarkRead(ctx context.Context, actor domain.Identity, id string) error {
	return s.markReadFn(ctx, actor, id)
}

func (s *stubNotificationService) MarkAllRead(context.Context, domain.Identity) (int64, error) {
	return 0, nil
}

type stubAIService struct {
	answer string
	err    error
}

func (s *stubAIService) GenerateCategoryDescription(context.Context, string) (string, error) {
	return s.answer, s.err
}

func (s *stubAIService) AskFAQ(context.Context, string) (string, error) {
	return s.answer, s.err
}
