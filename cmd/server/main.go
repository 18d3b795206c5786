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

	"github.com/danlewismuriuki/deals-spotter-backend/config"
	httpDelivery "github.com/danlewismuriuki/deals-spotter-backend/internal/delivery/http"
	"github.com/danlewismuriuki/deals-spotter-backend/internal/infrastructure/cache"
	"github.com/danlewismuriuki/deals-spotter-backend/internal/infrastructure/catalog"
	"github.com/danlewismuriuki/deals-spotter-backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.SetupLogger(cfg.Log)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("database", cfg.Database.Path).
		Msg("starting deals-spotter backend")

	// Initialize infrastructure dependencies
	store, err := catalog.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open catalog store")
	}
	defer store.Close()

	resultCache := cache.NewResultCache(cache.Options{
		MaxEntries: cfg.Cache.MaxEntries,
		TTL:        cfg.Cache.TTL,
	})
	defer resultCache.Stop()
	logger.Info().
		Dur("ttl", cfg.Cache.TTL).
		Int("max_entries", cfg.Cache.MaxEntries).
		Msg("result cache ready")

	// Initialize usecase layer
	matcher := usecase.NewMatcher(store, store, usecase.MatcherConfig{
		RecencyWindow:    cfg.Matching.RecencyWindow,
		FuzzyMaxDistance: cfg.Matching.FuzzyMaxDistance,
		FuzzySampleLimit: cfg.Matching.FuzzySampleLimit,
	}, logger)

	basketService := usecase.NewBasketService(
		usecase.NewNormalizer(),
		matcher,
		resultCache,
		usecase.BasketServiceConfig{WorkerLimit: cfg.Matching.WorkerLimit},
		logger,
	)
	correctionService := usecase.NewCorrectionService(store, store, resultCache, logger)
	catalogService := usecase.NewCatalogService(store, store, resultCache, logger)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(basketService, correctionService, catalogService, resultCache, logger)
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
