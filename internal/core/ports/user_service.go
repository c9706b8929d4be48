package ports

import (
	"context"

	"github.com/fishchain/marketplace/internal/core/domain"
)

// UpdateUserInput holds optional profile changes; nil fields are untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

type UserService interface {
	List(ctx context.Context, actor domain.Identity, filter ListUsersFilter) (*ListResult[*domain.User], error)
	Get(ctx context.Context, actor domain.Identity, id string) (*domain.User, error)
	Update(ctx context.Context, actor domain.Identity, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Identity, id string) error
}
