package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

func TestProductHandler_List_ParsesQuery(t *testing.T) {
	stub := &stubProductService{
		listFn: func(ctx context.Context, f ports.ListProductsFilter) (*ports.ListResult[*domain.Product], error) {
			if f.CategoryID != "c1" || f.Search != "tilapia" || f.Page != 2 || f.Limit != 5 {
				t.Fatalf("unexpected filter: %+v", f)
			}
			items := []*domain.Product{{ID: "p1", Name: "Tilapia"}}
			return ports.NewListResult(items, 6, f.PageRequest), nil
		},
	}
	h := NewProductHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/products?category_id=c1&search=tilapia&page=2&limit=5", nil, nil)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Data       []domain.Product `json:"data"`
		Total      int64            `json:"total"`
		TotalPages int              `json:"total_pages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Total != 6 || resp.TotalPages != 2 {
		t.Fatalf("unexpected page: %+v", resp)
	}
}

func TestProductHandler_Create_UsesCaller(t *testing.T) {
	stub := &stubProductService{
		createFn: func(ctx context.Context, actor domain.Identity, in ports.ProductInput) (*domain.Product, error) {
			if actor.ID != sellerID.ID {
				t.Fatalf("expected seller as actor, got %s", actor.ID)
			}
			return &domain.Product{ID: "p1", Name: in.Name, SellerID: actor.ID, Price: in.Price}, nil
		},
	}
	h := NewProductHandler(stub)

	body := strings.NewReader(`{"name":"Tilapia","price":4.5,"quantity":10,"category_id":"c1"}`)
	c, rec := newContext(http.MethodPost, "/api/products", body, &sellerID)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestProductHandler_Create_RejectsNonPositivePrice(t *testing.T) {
	stub := &stubProductService{
		createFn: func(ctx context.Context, actor domain.Identity, in ports.ProductInput) (*domain.Product, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewProductHandler(stub)

	body := strings.NewReader(`{"name":"Tilapia","price":0,"category_id":"c1"}`)
	c, _ := newContext(http.MethodPost, "/api/products", body, &sellerID)
	err := h.Create(c)
	if !errors.Is(err, domain.ErrValidation) || !strings.Contains(err.Error(), "price must be greater than 0") {
		t.Fatalf("expected price validation error, got %v", err)
	}
}

func TestProductHandler_Delete(t *testing.T) {
	stub := &stubProductService{
		deleteFn: func(ctx context.Context, actor domain.Identity, id string) error {
			if id != "p1" || actor.ID != adminID.ID {
				t.Fatalf("unexpected args: %s %s", actor.ID, id)
			}
			return nil
		},
	}
	h := NewProductHandler(stub)

	c, rec := newContext(http.MethodDelete, "/api/products/p1", nil, &adminID)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if rec.Code != http.StatusOK || resp["message"] != "Product deleted successfully" {
		t.Fatalf("unexpected response: %d %v", rec.Code, resp)
	}
}

func TestProductHandler_Delete_PropagatesPermissionDenied(t *testing.T) {
	stub := &stubProductService{
		deleteFn: func(ctx context.Context, actor domain.Identity, id string) error {
			return domain.ErrPermissionDenied
		},
	}
	h := NewProductHandler(stub)

	c, _ := newContext(http.MethodDelete, "/api/products/p1", nil, &sellerID)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Delete(c); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}
