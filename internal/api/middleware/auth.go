package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fishchain/marketplace/internal/api/metrics"
	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

const identityKey = "identity"

var errMissingToken = errors.New("missing bearer token")

// Authenticate resolves the identity carried by an Authorization header
// value. Any failure wraps domain.ErrAuthenticationRequired.
func Authenticate(verifier ports.TokenVerifier, header string) (domain.Identity, error) {
	token, ok := bearerToken(header)
	if !ok {
		return domain.Identity{}, errors.Join(domain.ErrAuthenticationRequired, errMissingToken)
	}
	return verifier.Verify(token)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Auth validates the bearer token and stores the identity on the context.
// Requests without a valid token never reach next.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := Authenticate(verifier, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, errMissingToken) {
					reason = "missing_token"
				}
				metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
				return err
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

// SetIdentity attaches id to the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	if !ok || id.ID == "" {
		return domain.Identity{}, false
	}
	return id, true
}
