package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fishchain/marketplace/internal/core/ports"
)

// AIHandler exposes the hosted-model helpers.
type AIHandler struct {
	service ports.AIService
}

func NewAIHandler(service ports.AIService) *AIHandler {
	return &AIHandler{service: service}
}

type categoryDescriptionRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type categoryDescriptionResponse struct {
	Description string `json:"description"`
}

type faqRequest struct {
	Question string `json:"question" validate:"required,max=1000"`
}

type faqResponse struct {
	Answer string `json:"answer"`
}

// @Summary      Draft a category description
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryDescriptionRequest  true  "Category name"
// @Success      200   {object}  categoryDescriptionResponse
// @Failure      502   {object}  messageResponse
// @Failure      503   {object}  messageResponse
// @Router       /api/ai/generate-category-description [post]
func (h *AIHandler) GenerateCategoryDescription(c echo.Context) error {
	var req categoryDescriptionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	text, err := h.service.GenerateCategoryDescription(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoryDescriptionResponse{Description: text})
}

// @Summary      Ask the marketplace assistant
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      faqRequest  true  "Question"
// @Success      200   {object}  faqResponse
// @Failure      502   {object}  messageResponse
// @Failure      503   {object}  messageResponse
// @Router       /api/ai/ask-faq [post]
func (h *AIHandler) AskFAQ(c echo.Context) error {
	var req faqRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	text, err := h.service.AskFAQ(c.Request().Context(), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, faqResponse{Answer: text})
}
