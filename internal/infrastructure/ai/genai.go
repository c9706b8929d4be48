// Package ai adapts hosted language models to ports.TextGenerator.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/fishchain/marketplace/internal/api/metrics"
)

const (
	defaultModel      = "gemini-2.0-flash"
	defaultTimeout    = 30 * time.Second
	maxOutputTokens   = 512
	generateOperation = "generate"
)

var errEmptyResponse = errors.New("empty response from model")

// Config captures the settings for the Gemini client.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GenAIClient generates text with Google's Gemini API.
type GenAIClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGenAIClient creates a client for cfg. An API key is required.
func NewGenAIClient(ctx context.Context, cfg Config) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Generate sends prompt as a single user turn and returns the model's text.
func (g *GenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.generate(ctx, prompt)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.AIRequestDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	metrics.AIRequestsTotal.WithLabelValues(generateOperation, result).Inc()
	return text, err
}

func (g *GenAIClient) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{MaxOutputTokens: maxOutputTokens},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

// Model returns the configured model name.
func (g *GenAIClient) Model() string {
	return g.model
}
