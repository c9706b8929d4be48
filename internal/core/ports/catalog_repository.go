package ports

import (
	"context"

	"github.com/fishchain/marketplace/internal/core/domain"
)

// ListProductsFilter carries the query parameters of the public catalogue.
type ListProductsFilter struct {
	CategoryID string // optional
	SellerID   string // optional
	Search     string // optional: partial match on name or description
	PageRequest
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	// AdjustQuantity adds delta to the stock. A negative delta only succeeds
	// when enough stock remains, otherwise ErrInsufficientStock.
	AdjustQuantity(ctx context.Context, id string, delta int) error
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
}
