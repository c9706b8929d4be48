package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fishchain/marketplace/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<text>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

// statusFor pairs a sentinel with the status and client-facing text.
type statusFor struct {
	target error
	code   int
	msg    string
}

var knownErrors = []statusFor{
	{domain.ErrAuthenticationRequired, http.StatusUnauthorized, "Authentication required"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{domain.ErrPermissionDenied, http.StatusForbidden, "Permission denied"},

	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{domain.ErrCategoryNotFound, http.StatusNotFound, "Category not found"},
	{domain.ErrCertificateNotFound, http.StatusNotFound, "Certificate not found"},
	{domain.ErrReservationNotFound, http.StatusNotFound, "Reservation not found"},
	{domain.ErrNotificationNotFound, http.StatusNotFound, "Notification not found"},

	{domain.ErrUserExists, http.StatusConflict, "User already exists"},
	{domain.ErrCategoryExists, http.StatusConflict, "Category already exists"},
	{domain.ErrCategoryInUse, http.StatusConflict, "Category is still used by products"},
	{domain.ErrConflict, http.StatusConflict, "Resource conflict"},
	{domain.ErrInsufficientStock, http.StatusConflict, "Insufficient stock"},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity, "Invalid status transition"},

	{domain.ErrAIUnavailable, http.StatusServiceUnavailable, "AI service not configured"},
	{domain.ErrUpstream, http.StatusBadGateway, "AI service unavailable"},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, ve.Reason
	}

	for _, k := range knownErrors {
		if errors.Is(err, k.target) {
			if k.code >= http.StatusInternalServerError {
				log.Warn().Err(err).Str("path", c.Path()).Msg("upstream failure")
			}
			return k.code, k.msg
		}
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError, "Internal server error"
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
}
