package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/cellarhouse/storefront-cache/configs"
	"github.com/cellarhouse/storefront-cache/internal/application/services"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/catalogclient"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/httpserver"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/metrics"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting storefront cache...")

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open cache store:", err)
	}
	defer backend.Close()

	logger.WithField("backend", backend.Name).Info("Cache store ready")

	if cfg.JWT.Secret == "" {
		logger.Warn("JWT_SECRET is empty, member routes will reject every token")
	}
	if cfg.Catalog.BaseURL == "" {
		logger.Warn("CATALOG_BASE_URL is empty, only stored snapshots can be served")
	}

	cacheMetrics := metrics.NewCacheMetrics(nil)
	httpMetrics := metrics.NewHTTPMetrics(nil)

	snapshots := services.NewSnapshotCache(backend.Store, &services.SnapshotCacheConfig{
		MaxAge:  cfg.Cache.CatalogTTL,
		Metrics: cacheMetrics,
	}, logger)
	recommendations := services.NewRecommendationCache(cfg.Cache.RecommendationTTL, nil)
	source := catalogclient.New(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.Timeout, nil)
	catalogService := services.NewCatalogService(source, snapshots, recommendations, &services.CatalogServiceConfig{
		Metrics: cacheMetrics,
	}, logger)

	favorites := services.NewFavoritesDirectory(backend.Store, &services.FavoritesConfig{Metrics: cacheMetrics}, logger)
	recentlyViewed := services.NewRecentlyViewedDirectory(backend.Store, &services.RecentlyViewedConfig{
		Limit:   cfg.Cache.RecentlyViewedLimit,
		Metrics: cacheMetrics,
	}, logger)
	tokens := services.NewMemberTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)

	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	deps := httpserver.ServerDeps{
		Catalog:        catalogService,
		Favorites:      favorites,
		RecentlyViewed: recentlyViewed,
		Authenticator:  tokens,
		HealthCheckers: backend.Checkers,
		HTTPMetrics:    httpMetrics,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
