package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	config "github.com/cellarhouse/storefront-cache/configs"
	"github.com/cellarhouse/storefront-cache/internal/application/services"
	"github.com/cellarhouse/storefront-cache/internal/cli"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/storage"
)

func main() {
	if err := cli.NewRootCommand(open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// open wires the services against the store the server is configured with.
func open(ctx context.Context) (*cli.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)

	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &cli.App{
		Snapshots: services.NewSnapshotCache(backend.Store, &services.SnapshotCacheConfig{MaxAge: cfg.Cache.CatalogTTL}, logger),
		Favorites: services.NewFavoritesDirectory(backend.Store, nil, logger),
		RecentlyViewed: services.NewRecentlyViewedDirectory(backend.Store, &services.RecentlyViewedConfig{
			Limit: cfg.Cache.RecentlyViewedLimit,
		}, logger),
		Tokens: services.NewMemberTokenService(cfg.JWT.Secret, cfg.JWT.Issuer),
		Close:  backend.Close,
	}, nil
}
