package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

type ProductService struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	logger     zerolog.Logger
}

func NewProductService(products ports.ProductRepository, categories ports.CategoryRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{products: products, categories: categories, logger: logger}
}

func (s *ProductService) List(ctx context.Context, filter ports.ListProductsFilter) (*ports.ListResult[*domain.Product], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	filter.Search = strings.TrimSpace(filter.Search)

	items, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ports.NewListResult(items, total, filter.PageRequest), nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Create lists a new product owned by the calling seller.
func (s *ProductService) Create(ctx context.Context, actor domain.Identity, in ports.ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Product{SellerID: actor.ID, CreatedAt: now, UpdatedAt: now}
	applyProductInput(p, in)

	created, err := s.products.Create(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID).Str("seller_id", actor.ID).Msg("product created")
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, actor domain.Identity, id string, in ports.ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(actor) {
		return nil, domain.ErrPermissionDenied
	}
	if in.CategoryID != p.CategoryID {
		if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}

	applyProductInput(p, in)
	p.UpdatedAt = time.Now().UTC()
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product. Sellers may only delete their own listings.
func (s *ProductService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.OwnedBy(actor) {
		return domain.ErrPermissionDenied
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("product_id", id).Str("by", actor.ID).Msg("product deleted")
	return nil
}

func (s *ProductService) ensureCategory(ctx context.Context, id string) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.Invalid("category_id does not reference an existing category")
		}
		return err
	}
	return nil
}

func validateProduct(in ports.ProductInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return domain.Invalid("name is required")
	case in.Price <= 0:
		return domain.Invalid("price must be greater than 0")
	case in.Quantity < 0:
		return domain.Invalid("quantity cannot be negative")
	case in.CategoryID == "":
		return domain.Invalid("category_id is required")
	}
	return nil
}

func applyProductInput(p *domain.Product, in ports.ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Quantity = in.Quantity
	p.Unit = in.Unit
	if p.Unit == "" {
		p.Unit = "kg"
	}
	p.ImageURL = in.ImageURL
	p.CategoryID = in.CategoryID
}
