package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

type CategoryService struct {
	repo     ports.CategoryRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, products ports.ProductRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, products: products, logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Category{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("category_id", created.ID).Str("name", name).Msg("category created")
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in ports.CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.Description = strings.TrimSpace(in.Description)
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete refuses while any product is still filed under the category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	_, inUse, err := s.products.List(ctx, ports.ListProductsFilter{
		CategoryID:  id,
		PageRequest: ports.PageRequest{Page: 1, Limit: 1},
	})
	if err != nil {
		return err
	}
	if inUse > 0 {
		return fmt.Errorf("%w (%d products)", domain.ErrCategoryInUse, inUse)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("category_id", id).Msg("category deleted")
	return nil
}
