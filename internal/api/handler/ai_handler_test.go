package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/fishchain/marketplace/internal/core/domain"
)

func TestAIHandler_AskFAQ(t *testing.T) {
	h := NewAIHandler(&stubAIService{answer: "Reserve from the product page."})

	c, rec := newContext(http.MethodPost, "/api/ai/ask-faq", strings.NewReader(`{"question":"How do I reserve?"}`), nil)
	if err := h.AskFAQ(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp faqResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Answer != "Reserve from the product page." {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestAIHandler_AskFAQ_RequiresQuestion(t *testing.T) {
	h := NewAIHandler(&stubAIService{})

	c, _ := newContext(http.MethodPost, "/api/ai/ask-faq", strings.NewReader(`{}`), nil)
	if err := h.AskFAQ(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAIHandler_UpstreamErrorPropagates(t *testing.T) {
	h := NewAIHandler(&stubAIService{err: domain.ErrUpstream})

	c, _ := newContext(http.MethodPost, "/api/ai/generate-category-description", strings.NewReader(`{"name":"Salmon"}`), &adminID)
	if err := h.GenerateCategoryDescription(c); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
