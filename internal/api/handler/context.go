package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fishchain/marketplace/internal/api/middleware"
	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

// actor returns the identity injected by the Auth middleware. Routes are
// mounted behind Auth, so a missing identity means the gate was skipped and
// the request is rejected.
func actor(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrAuthenticationRequired
	}
	return id, nil
}

// bind decodes the request body and runs struct validation.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}
	return c.Validate(req)
}

// pageRequest reads ?page and ?limit. Malformed values fall back to defaults.
func pageRequest(c echo.Context) ports.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return ports.PageRequest{Page: page, Limit: limit}.Normalize()
}

type messageResponse struct {
	Message string `json:"message"`
}

// pageResponse is the JSON shape of every paginated listing.
type pageResponse[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func toPageResponse[T any](r *ports.ListResult[T]) pageResponse[T] {
	return pageResponse[T]{
		Data:       r.Items,
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}
