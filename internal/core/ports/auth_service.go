package ports

import (
	"context"

	"github.com/fishchain/marketplace/internal/core/domain"
)

// RegisterInput carries the self-service sign-up fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// TokenVerifier resolves a session token into an identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}
