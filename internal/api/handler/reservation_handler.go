package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fishchain/marketplace/internal/api/metrics"
	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

// ReservationHandler handles buyer holds on product stock.
type ReservationHandler struct {
	service ports.ReservationService
}

func NewReservationHandler(service ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

type createReservationRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
	Note      string `json:"note" validate:"max=500"`
}

type updateReservationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// @Summary      Reserve product stock
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReservationRequest  true  "Reservation"
// @Success      201   {object}  domain.Reservation
// @Failure      404   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /api/reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req createReservationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), id, ports.CreateReservationInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Note:      req.Note,
	})
	if err != nil {
		return err
	}

	metrics.ReservationsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, res)
}

// List returns the caller's reservations: buyers see their own, sellers those
// on their products, ADMIN everything.
//
// @Summary      List reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "PENDING, CONFIRMED, CANCELLED or COMPLETED"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  pageResponse[domain.Reservation]
// @Router       /api/reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	status := domain.ReservationStatus(strings.ToUpper(c.QueryParam("status")))
	result, err := h.service.List(c.Request().Context(), id, ports.ListReservationsFilter{
		Status:      status,
		PageRequest: pageRequest(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(result))
}

// @Summary      Get reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  domain.Reservation
// @Failure      404  {object}  messageResponse
// @Router       /api/reservations/{id} [get]
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	res, err := h.service.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// @Summary      Change reservation status
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                          true  "Reservation ID"
// @Param        body  body      updateReservationStatusRequest  true  "New status"
// @Success      200   {object}  domain.Reservation
// @Failure      403   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/reservations/{id}/status [patch]
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req updateReservationStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.service.UpdateStatus(c.Request().Context(), id, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// @Summary      Cancel reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  domain.Reservation
// @Failure      404  {object}  messageResponse
// @Failure      422  {object}  messageResponse
// @Router       /api/reservations/{id} [delete]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	res, err := h.service.Cancel(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
