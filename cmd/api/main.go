package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/fishchain/marketplace/docs"
	"github.com/fishchain/marketplace/internal/api"
	"github.com/fishchain/marketplace/internal/api/handler"
	"github.com/fishchain/marketplace/internal/core/ports"
	"github.com/fishchain/marketplace/internal/core/service"
	"github.com/fishchain/marketplace/internal/infrastructure/ai"
	"github.com/fishchain/marketplace/internal/infrastructure/db/mongo"
	"github.com/fishchain/marketplace/internal/infrastructure/db/redis"
	"github.com/fishchain/marketplace/internal/infrastructure/queue"
	"github.com/fishchain/marketplace/internal/infrastructure/realtime"
	"github.com/fishchain/marketplace/internal/pkg/config"
	"github.com/fishchain/marketplace/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title                       FishChain Marketplace API
// @version                     1.0
// @description                 Fish marketplace: catalogue, reservations, veterinary certificates and live notifications.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Env:     cfg.Env,
		Service: "fishchain-api",
	})

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("application error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting application")

	// --- Stores ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	tokens, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	// --- Repositories ---
	userRepo := mongo.NewUserRepository(db)
	productRepo := mongo.NewProductRepository(db)
	categoryRepo := mongo.NewCategoryRepository(db)
	certificateRepo := mongo.NewCertificateRepository(db)
	reservationRepo := mongo.NewReservationRepository(db)
	notificationRepo := mongo.NewNotificationRepository(db)

	// --- Live notifications ---
	hub := realtime.NewHub(logger.Component("realtime"))
	dispatcher := queue.NewDispatcher(cfg.Dispatch.Workers, hub, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	// --- Services ---
	svcLog := logger.Component("service")
	notifications := service.NewNotificationService(notificationRepo, dispatcher, svcLog)

	var generator ports.TextGenerator
	if cfg.AI.APIKey != "" {
		client, err := ai.NewGenAIClient(ctx, ai.Config{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout,
		})
		if err != nil {
			return err
		}
		generator = client
		log.Info().Str("model", client.Model()).Msg("AI assistant enabled")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, AI endpoints will answer 503")
	}

	e := api.NewRouter(api.Deps{
		Logger:   logger.Component("http"),
		Verifier: tokens,

		Auth:          service.NewAuthService(userRepo, tokens, svcLog),
		Users:         service.NewUserService(userRepo, svcLog),
		Products:      service.NewProductService(productRepo, categoryRepo, svcLog),
		Categories:    service.NewCategoryService(categoryRepo, productRepo, svcLog),
		Certificates:  service.NewCertificateService(certificateRepo, productRepo, notifications, svcLog),
		Reservations:  service.NewReservationService(reservationRepo, productRepo, notifications, svcLog),
		Notifications: notifications,
		AI:            service.NewAIService(generator, redis.NewAICache(rdb), cfg.AI.CacheTTL, svcLog),

		Hub:      hub,
		Upgrader: realtime.NewUpgrader(cfg.CORSOrigins),
		Health:   []handler.DependencyCheck{handler.MongoCheck(db), handler.RedisCheck(rdb)},

		CORSOrigins: cfg.CORSOrigins,
		Metrics:     true,
		Docs:        !cfg.IsProduction(),
	})

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ":"+cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close error")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect error")
	}

	log.Info().Msg("application stopped")
	return nil
}
