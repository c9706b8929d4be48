package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fishchain/marketplace/internal/core/domain"
)

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

type stubCache struct {
	data   map[string]string
	getErr error
}

func newStubCache() *stubCache { return &stubCache{data: make(map[string]string)} }

func (c *stubCache) Get(_ context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func TestAIService_GenerateCategoryDescription_CachesAnswer(t *testing.T) {
	gen := &stubGenerator{reply: "  Freshwater fish.  "}
	cache := newStubCache()
	svc := NewAIService(gen, cache, time.Hour, discardLogger)
	ctx := context.Background()

	got, err := svc.GenerateCategoryDescription(ctx, "Tilapia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Freshwater fish." {
		t.Fatalf("expected trimmed text, got %q", got)
	}
	if !strings.Contains(gen.prompts[0], `"Tilapia"`) {
		t.Fatalf("prompt must name the category: %s", gen.prompts[0])
	}

	if _, err := svc.GenerateCategoryDescription(ctx, "  tilapia "); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected cache hit on normalized input, generator called %d times", len(gen.prompts))
	}
}

func TestAIService_CacheErrorFallsThrough(t *testing.T) {
	gen := &stubGenerator{reply: "answer"}
	cache := newStubCache()
	cache.getErr = errors.New("redis down")
	svc := NewAIService(gen, cache, time.Hour, discardLogger)

	if _, err := svc.AskFAQ(context.Background(), "How do I reserve?"); err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if len(gen.prompts) != 1 {
		t.Fatal("generator must be called")
	}
}

func TestAIService_UpstreamFailure(t *testing.T) {
	svc := NewAIService(&stubGenerator{err: errors.New("quota")}, nil, time.Hour, discardLogger)

	if _, err := svc.AskFAQ(context.Background(), "hello?"); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestAIService_Unconfigured(t *testing.T) {
	svc := NewAIService(nil, nil, time.Hour, discardLogger)

	if _, err := svc.AskFAQ(context.Background(), "hello?"); !errors.Is(err, domain.ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}
}

func TestAIService_Validation(t *testing.T) {
	svc := NewAIService(&stubGenerator{reply: "x"}, nil, time.Hour, discardLogger)

	if _, err := svc.AskFAQ(context.Background(), "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.GenerateCategoryDescription(context.Background(), strings.Repeat("a", 101)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for long name, got %v", err)
	}
}
