package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

// UserService manages accounts after registration.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) List(ctx context.Context, actor domain.Identity, filter ports.ListUsersFilter) (*ports.ListResult[*domain.User], error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	filter.PageRequest = filter.PageRequest.Normalize()

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ports.NewListResult(users, total, filter.PageRequest), nil
}

// Get returns the account when the actor is its owner or an ADMIN.
func (s *UserService) Get(ctx context.Context, actor domain.Identity, id string) (*domain.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, domain.ErrPermissionDenied
	}
	return s.repo.FindByID(ctx, id)
}

// Update applies profile changes. Only an ADMIN may change a role, and an
// ADMIN may not demote themselves.
func (s *UserService) Update(ctx context.Context, actor domain.Identity, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, domain.ErrPermissionDenied
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, domain.Invalid("email must be a valid email")
		}
		user.Email = email
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return nil, domain.Invalid("password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.Role != nil {
		if !actor.IsAdmin() {
			return nil, domain.ErrPermissionDenied
		}
		role, ok := domain.ParseRole(*in.Role)
		if !ok {
			return nil, domain.Invalid("role must be one of: ADMIN SELLER BUYER VET")
		}
		if actor.ID == id && role != domain.RoleAdmin {
			return nil, domain.Invalid("admins cannot demote themselves")
		}
		if role != user.Role {
			s.logger.Info().Str("user_id", id).Str("from", string(user.Role)).Str("to", string(role)).Str("by", actor.ID).Msg("role changed")
		}
		user.Role = role
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if actor.ID == id {
		return domain.Invalid("admins cannot delete their own account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Str("by", actor.ID).Msg("user deleted")
	return nil
}
