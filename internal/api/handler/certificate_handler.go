package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fishchain/marketplace/internal/core/ports"
)

// CertificateHandler serves veterinary health certificates.
type CertificateHandler struct {
	service ports.CertificateService
}

func NewCertificateHandler(service ports.CertificateService) *CertificateHandler {
	return &CertificateHandler{service: service}
}

type certificateRequest struct {
	ProductID string     `json:"product_id" validate:"required"`
	Status    string     `json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Notes     string     `json:"notes" validate:"max=2000"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (r certificateRequest) toInput() ports.CertificateInput {
	return ports.CertificateInput{
		ProductID: r.ProductID,
		Status:    r.Status,
		Notes:     r.Notes,
		ExpiresAt: r.ExpiresAt,
	}
}

// @Summary      List certificates
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  query  string  false  "Filter by product"
// @Param        vet_id      query  string  false  "Filter by issuing vet"
// @Success      200  {array}   domain.Certificate
// @Router       /api/certificates [get]
func (h *CertificateHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), ports.ListCertificatesFilter{
		ProductID: c.QueryParam("product_id"),
		VetID:     c.QueryParam("vet_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// @Summary      Get certificate
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Certificate ID"
// @Success      200  {object}  domain.Certificate
// @Failure      404  {object}  messageResponse
// @Router       /api/certificates/{id} [get]
func (h *CertificateHandler) Get(c echo.Context) error {
	cert, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cert)
}

// @Summary      Issue certificate
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      certificateRequest  true  "Certificate"
// @Success      201   {object}  domain.Certificate
// @Failure      403   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/certificates [post]
func (h *CertificateHandler) Create(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req certificateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cert, err := h.service.Create(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cert)
}

// @Summary      Update certificate
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Certificate ID"
// @Param        body  body      certificateRequest  true  "Certificate"
// @Success      200   {object}  domain.Certificate
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/certificates/{id} [put]
func (h *CertificateHandler) Update(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req certificateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cert, err := h.service.Update(c.Request().Context(), id, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cert)
}

// @Summary      Delete certificate
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Certificate ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/certificates/{id} [delete]
func (h *CertificateHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Certificate deleted successfully"})
}
