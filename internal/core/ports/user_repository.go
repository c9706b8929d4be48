package ports

import (
	"context"

	"github.com/fishchain/marketplace/internal/core/domain"
)

// ListUsersFilter narrows the admin user listing.
type ListUsersFilter struct {
	Role   domain.Role // optional
	Search string      // optional: partial match on name or email
	PageRequest
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
