package ports

import (
	"context"

	"github.com/fishchain/marketplace/internal/core/domain"
)

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
	Unit        string
	ImageURL    string
	CategoryID  string
}

type ProductService interface {
	List(ctx context.Context, filter ListProductsFilter) (*ListResult[*domain.Product], error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, actor domain.Identity, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, actor domain.Identity, id string, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, actor domain.Identity, id string) error
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string
	Description string
}

type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, in CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id string, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}
