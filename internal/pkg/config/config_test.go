package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const testSecret = "0123456789abcdef0123"

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": testSecret,
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("expected 7 day token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.Mongo.Database != "fishchain" || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.AI.APIKey != "" || cfg.AI.Model != "gemini-2.0-flash" || cfg.AI.Timeout != 30*time.Second || cfg.AI.CacheTTL != 24*time.Hour {
		t.Errorf("unexpected ai defaults: %+v", cfg.AI)
	}
	if cfg.Redis.Password != "" || cfg.Redis.PoolSize != 10 || cfg.Redis.Timeout != 3*time.Second {
		t.Errorf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.Dispatch.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Dispatch.Workers)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if cfg.IsProduction() {
		t.Errorf("development must not be production")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":       testSecret,
		"ENV":              "production",
		"TOKEN_TTL":        "1h",
		"CORS_ORIGINS":     "https://a.example,https://b.example",
		"GEMINI_API_KEY":   "key",
		"DISPATCH_WORKERS": "16",
		"REDIS_PASSWORD":   "cache-pass",
		"REDIS_TIMEOUT":    "750ms",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProduction() || cfg.TokenTTL != time.Hour || cfg.AI.APIKey != "key" || cfg.Dispatch.Workers != 16 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Redis.Password != "cache-pass" || cfg.Redis.Timeout != 750*time.Millisecond {
		t.Errorf("redis overrides not applied: %+v", cfg.Redis)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadWith_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"short secret":   {"JWT_SECRET": "short"},
		"zero workers":   {"JWT_SECRET": testSecret, "DISPATCH_WORKERS": "0"},
		"bad duration":   {"JWT_SECRET": testSecret, "AI_TIMEOUT": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
