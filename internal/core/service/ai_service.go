package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

const (
	maxCategoryNameLen = 100
	maxQuestionLen     = 1000

	opCategoryDescription = "category-description"
	opFAQ                 = "faq"
)

const categoryPrompt = `You write copy for FishChain, an online marketplace for fresh and live fish.
Write a short, factual description (2-3 sentences, under 80 words) for the product category %q.
Mention typical uses or handling if relevant. Reply with the description only.`

const faqPrompt = `You are the help assistant of FishChain, an online marketplace where sellers list fish,
buyers reserve them, and veterinarians issue health certificates for listed products.
Answer the user's question in at most 120 words. If the question is unrelated to the
marketplace, politely say you can only help with FishChain.

Question: %s`

// AIService wraps the text generator with prompt construction and a cache.
type AIService struct {
	generator ports.TextGenerator
	cache     ports.AnswerCache
	cacheTTL  time.Duration
	logger    zerolog.Logger
}

// NewAIService returns an AIService. A nil generator makes every call fail
// with ErrAIUnavailable; a nil cache disables caching.
func NewAIService(generator ports.TextGenerator, cache ports.AnswerCache, cacheTTL time.Duration, logger zerolog.Logger) *AIService {
	return &AIService{generator: generator, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *AIService) GenerateCategoryDescription(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Invalid("name is required")
	}
	if len(name) > maxCategoryNameLen {
		return "", domain.Invalid("name must be at most 100 characters")
	}
	return s.generate(ctx, opCategoryDescription, name, fmt.Sprintf(categoryPrompt, name))
}

func (s *AIService) AskFAQ(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", domain.Invalid("question is required")
	}
	if len(question) > maxQuestionLen {
		return "", domain.Invalid("question must be at most 1000 characters")
	}
	return s.generate(ctx, opFAQ, question, fmt.Sprintf(faqPrompt, question))
}

func (s *AIService) generate(ctx context.Context, op, input, prompt string) (string, error) {
	if s.generator == nil {
		return "", domain.ErrAIUnavailable
	}

	key := cacheKey(op, input)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("op", op).Msg("ai cache lookup failed")
		} else if ok {
			return cached, nil
		}
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("op", op).Msg("ai generation failed")
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstream)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, text, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("op", op).Msg("ai cache store failed")
		}
	}
	return text, nil
}

// cacheKey is stable across case and surrounding whitespace of the input.
func cacheKey(op, input string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.Join(strings.Fields(input), " "))))
	return op + ":" + hex.EncodeToString(sum[:])
}
