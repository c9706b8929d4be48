package ports

import (
	"context"
	"time"
)

// TextGenerator is the outbound port to the hosted language model.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnswerCache stores generated text keyed by an opaque string.
type AnswerCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type AIService interface {
	GenerateCategoryDescription(ctx context.Context, name string) (string, error)
	AskFAQ(ctx context.Context, question string) (string, error)
}
