package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/advocates-api/api/swagger"
	"github.com/noah-isme/advocates-api/internal/handler"
	"github.com/noah-isme/advocates-api/internal/repository"
	"github.com/noah-isme/advocates-api/internal/seed"
	"github.com/noah-isme/advocates-api/internal/service"
	"github.com/noah-isme/advocates-api/pkg/cache"
	"github.com/noah-isme/advocates-api/pkg/config"
	"github.com/noah-isme/advocates-api/pkg/database"
	"github.com/noah-isme/advocates-api/pkg/logger"
	"github.com/noah-isme/advocates-api/pkg/response"
)

// @title Advocates Directory API
// @version 1.0.0
// @description Search and page through the advocate roster
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgres(startCtx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	advocateRepo := repository.NewAdvocateRepository(db)
	if err := advocateRepo.Migrate(startCtx); err != nil {
		logr.Fatal("failed to migrate schema", zap.Error(err))
	}

	metrics := service.NewMetricsService()

	cacheEnabled := cfg.Search.CacheEnabled
	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cacheEnabled {
		client, err := cache.NewRedis(startCtx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, search cache disabled", zap.Error(err))
			cacheEnabled = false
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Search.CacheTTL, logr, cacheEnabled)

	seeder := seed.NewSeeder(advocateRepo, seed.NewGenerator(0), seed.Options{
		BatchSize: cfg.Seed.BatchSize,
		Workers:   cfg.Seed.Workers,
		Logger:    logr.Named("seed"),
		Validator: validator.New(),
	})

	advocateSvc := service.NewAdvocateService(advocateRepo, seeder, cacheSvc, metrics, service.AdvocateServiceConfig{
		DefaultLimit:     cfg.Search.DefaultLimit,
		MaxLimit:         cfg.Search.MaxLimit,
		CacheTTL:         cfg.Search.CacheTTL,
		SeedEnabled:      cfg.Seed.Enabled,
		DefaultSeedCount: cfg.Seed.DefaultCount,
		MaxSeedCount:     cfg.Seed.MaxCount,
	}, logr)

	advocateHandler := handler.NewAdvocateHandler(advocateSvc, response.CachePolicy{
		MaxAge:               cfg.Search.CacheMaxAge,
		StaleWhileRevalidate: cfg.Search.StaleWhileRevalidate,
	})

	r := newRouter(cfg, logr, metrics, advocateHandler, handler.NewMetricsHandler(metrics))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "seed", cfg.Seed.Enabled, "cache", cacheEnabled)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

