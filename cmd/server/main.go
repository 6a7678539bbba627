package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/swanbotanicals/skinmatch/config"
	httpDelivery "github.com/swanbotanicals/skinmatch/internal/delivery/http"
	"github.com/swanbotanicals/skinmatch/internal/domain"
	"github.com/swanbotanicals/skinmatch/internal/infrastructure/catalog"
	"github.com/swanbotanicals/skinmatch/internal/infrastructure/profilestore"
	"github.com/swanbotanicals/skinmatch/internal/logging"
	"github.com/swanbotanicals/skinmatch/internal/metrics"
	"github.com/swanbotanicals/skinmatch/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting skinmatch backend")

	profiles, err := openProfileStore(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Str("type", cfg.Store.Type).Msg("failed to open profile store")
	}
	defer profiles.Close()
	prometheus.MustRegister(metrics.NewStoredProfilesGauge(profiles))
	logging.Info().Str("type", cfg.Store.Type).Dur("ttl", cfg.Store.TTL).Msg("profile store ready")

	products, err := openCatalog(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("source", cfg.Catalog.Source).Msg("failed to open catalog")
	}
	logging.Info().Str("source", cfg.Catalog.Source).Msg("catalog ready")

	service := usecase.NewRecommendationService(profiles, products, usecase.RecommendationServiceConfig{
		PricePreference:    &cfg.Matching.DefaultPricePreference,
		Parallelism:        cfg.Matching.Parallelism,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	logging.Info().
		Float64("price_preference", cfg.Matching.DefaultPricePreference).
		Int("parallelism", cfg.Matching.Parallelism).
		Bool("debug", cfg.Matching.EnableDebugLogging).
		Msg("matching configured")

	router := httpDelivery.SetupRouter(cfg, httpDelivery.NewHandler(service))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// profileStore is a domain.ProfileStore that owns resources and can be counted.
type profileStore interface {
	domain.ProfileStore
	metrics.ProfileCounter
	io.Closer
}

func openProfileStore(cfg config.StoreConfig) (profileStore, error) {
	switch cfg.Type {
	case config.StoreBadger:
		return profilestore.OpenBadgerStore(cfg.Path, cfg.TTL)
	default:
		return profilestore.NewMemoryStore(cfg.TTL, profilestore.DefaultCleanupInterval), nil
	}
}

func openCatalog(cfg *config.Config) (domain.CatalogRepository, error) {
	switch cfg.Catalog.Source {
	case config.CatalogFile:
		return catalog.LoadFile(cfg.Catalog.Path)
	case config.CatalogFeed:
		client := catalog.NewFeedClient(catalog.FeedConfig{
			BaseURL:         cfg.Catalog.FeedURL,
			APIKey:          cfg.Catalog.APIKey,
			RefreshTTL:      cfg.Catalog.RefreshTTL,
			RequestsPerHour: cfg.RateLimit.Feed,
		})
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
		}
		return client, nil
	default:
		return catalog.Embedded()
	}
}
