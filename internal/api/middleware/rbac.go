package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/fishchain/marketplace/internal/api/metrics"
	"github.com/fishchain/marketplace/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth; ADMIN
// passes every gate.
func RBAC(allowed domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var current *domain.Identity
			if id, ok := IdentityFrom(c); ok {
				current = &id
			}
			if err := allowed.Admit(current); err != nil {
				if errors.Is(err, domain.ErrPermissionDenied) {
					metrics.AuthFailuresTotal.WithLabelValues("permission_denied").Inc()
				}
				return err
			}
			return next(c)
		}
	}
}
