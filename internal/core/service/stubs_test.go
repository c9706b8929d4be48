package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := *u
	if clone.ID == "" {
		clone.ID = fmt.Sprintf("u%d", r.seq)
	}
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubCategoryRepo struct {
	items map[string]*domain.Category
	seq   int
}

func newStubCategoryRepo(ids ...string) *stubCategoryRepo {
	r := &stubCategoryRepo{items: make(map[string]*domain.Category)}
	for _, id := range ids {
		r.items[id] = &domain.Category{ID: id, Name: id}
	}
	return r
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	for _, existing := range r.items {
		if existing.Name == c.Name {
			return nil, domain.ErrCategoryExists
		}
	}
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("c%d", r.seq)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range r.items {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	if _, ok := r.items[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.items, id)
	return nil
}

type stubProductRepo struct {
	items     map[string]*domain.Product
	seq       int
	deleted   []string
	createErr error
}

func newStubProductRepo(products ...*domain.Product) *stubProductRepo {
	r := &stubProductRepo{items: make(map[string]*domain.Product)}
	for _, p := range products {
		clone := *p
		r.items[p.ID] = &clone
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *p
	clone.ID = fmt.Sprintf("p%d", r.seq)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) List(_ context.Context, f ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	var out []*domain.Product
	for _, p := range r.items {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.SellerID != "" && p.SellerID != f.SellerID {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := r.items[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	clone := *p
	r.items[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubProductRepo) AdjustQuantity(_ context.Context, id string, delta int) error {
	p, ok := r.items[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Quantity+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Quantity += delta
	return nil
}

type stubCertificateRepo struct {
	items map[string]*domain.Certificate
	seq   int
}

func newStubCertificateRepo() *stubCertificateRepo {
	return &stubCertificateRepo{items: make(map[string]*domain.Certificate)}
}

func (r *stubCertificateRepo) Create(_ context.Context, c *domain.Certificate) (*domain.Certificate, error) {
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("cert%d", r.seq)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCertificateRepo) FindByID(_ context.Context, id string) (*domain.Certificate, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrCertificateNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCertificateRepo) List(_ context.Context, f ports.ListCertificatesFilter) ([]*domain.Certificate, error) {
	var out []*domain.Certificate
	for _, c := range r.items {
		if f.ProductID != "" && c.ProductID != f.ProductID {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCertificateRepo) Update(_ context.Context, c *domain.Certificate) error {
	if _, ok := r.items[c.ID]; !ok {
		return domain.ErrCertificateNotFound
	}
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *stubCertificateRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrCertificateNotFound
	}
	delete(r.items, id)
	return nil
}

type stubReservationRepo struct {
	items     map[string]*domain.Reservation
	seq       int
	createErr error
	lastList  ports.ListReservationsFilter
}

func newStubReservationRepo() *stubReservationRepo {
	return &stubReservationRepo{items: make(map[string]*domain.Reservation)}
}

func (r *stubReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *res
	clone.ID = fmt.Sprintf("r%d", r.seq)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubReservationRepo) FindByID(_ context.Context, id string) (*domain.Reservation, error) {
	res, ok := r.items[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	clone := *res
	return &clone, nil
}

func (r *stubReservationRepo) List(_ context.Context, f ports.ListReservationsFilter) ([]*domain.Reservation, int64, error) {
	r.lastList = f
	var out []*domain.Reservation
	for _, res := range r.items {
		if f.BuyerID != "" && res.BuyerID != f.BuyerID {
			continue
		}
		if f.SellerID != "" && res.SellerID != f.SellerID {
			continue
		}
		clone := *res
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubReservationRepo) UpdateStatus(_ context.Context, id string, from, to domain.ReservationStatus) error {
	res, ok := r.items[id]
	if !ok {
		return domain.ErrReservationNotFound
	}
	if res.Status != from {
		return domain.ErrInvalidTransition
	}
	res.Status = to
	return nil
}

// staleReservationRepo answers FindByID from a fixed snapshot, as a reader
// racing a concurrent write would see it.
type staleReservationRepo struct {
	*stubReservationRepo
	snapshot domain.Reservation
}

func (r *staleReservationRepo) FindByID(_ context.Context, _ string) (*domain.Reservation, error) {
	clone := r.snapshot
	return &clone, nil
}

// stubNotificationRepo mirrors the Mongo semantics: MarkRead matches on
// (id, recipient) and succeeds when the flag is already true.
type stubNotificationRepo struct {
	mu        sync.Mutex
	items     map[string]*domain.Notification
	order     []string
	seq       int
	createErr error
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{items: make(map[string]*domain.Notification)}
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *n
	clone.ID = fmt.Sprintf("n%d", r.seq)
	r.items[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	out := clone
	return &out, nil
}

func (r *stubNotificationRepo) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		n := r.items[r.order[i]]
		if n.RecipientID != recipientID || (unreadOnly && n.Read) {
			continue
		}
		clone := *n
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.RecipientID == recipientID && !item.Read {
			n++
		}
	}
	return n, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.RecipientID != recipientID {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			changed++
		}
	}
	return changed, nil
}

// recordingDelivery captures every notification handed to live delivery.
type recordingDelivery struct {
	mu        sync.Mutex
	delivered []*domain.Notification
}

func (d *recordingDelivery) Deliver(n *domain.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, n)
}

func (d *recordingDelivery) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.delivered)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	asAdmin       = domain.Identity{ID: "admin", Role: domain.RoleAdmin}
	asSeller      = domain.Identity{ID: "seller1", Role: domain.RoleSeller}
	asOtherSeller = domain.Identity{ID: "seller2", Role: domain.RoleSeller}
	asBuyer       = domain.Identity{ID: "buyer1", Role: domain.RoleBuyer}
	asVet         = domain.Identity{ID: "vet1", Role: domain.RoleVet}
)

func sampleProduct(id, owner string, qty int) *domain.Product {
	return &domain.Product{
		ID:         id,
		Name:       "Tilapia " + id,
		Price:      4.5,
		Quantity:   qty,
		Unit:       "kg",
		CategoryID: "tilapia",
		SellerID:   owner,
		CreatedAt:  time.Now().UTC(),
	}
}

func newNotifier() (*NotificationService, *stubNotificationRepo, *recordingDelivery) {
	repo := newStubNotificationRepo()
	delivery := &recordingDelivery{}
	return NewNotificationService(repo, delivery, discardLogger), repo, delivery
}
