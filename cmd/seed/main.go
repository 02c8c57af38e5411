package main

import (
	"context"
	"fmt"
	"os"

	"importexport-hub/internal/repository"
	"importexport-hub/internal/service"
	"importexport-hub/pkg/cache"
	"importexport-hub/pkg/config"
	"importexport-hub/pkg/logger"

	"go.uber.org/zap"
)

var openStore = repository.Open

// seed replaces every product with the bundled fixture
func main() {
	appConfig, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.InitLogger(appConfig)
	if err := run(context.Background(), appConfig, log); err != nil {
		log.Error("Seeding failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run returns instead of exiting so the deferred closes always happen
func run(ctx context.Context, appConfig *config.Config, log *zap.Logger) error {
	store, err := openStore(ctx, appConfig, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(ctx); err != nil {
			log.Warn("Failed to close store", zap.Error(err))
		}
	}()

	var productCache cache.Cache = cache.Noop{}
	if appConfig.Cache.Addr != "" {
		// Reseeding drops the server's cached listings too
		client, err := cache.NewRedisClient(ctx, appConfig.Cache)
		if err != nil {
			return fmt.Errorf("connect to cache: %w", err)
		}
		defer client.Close()
		productCache = cache.NewRedis(client, appConfig.ServiceName, appConfig.Cache.TTL, log)
	}

	catalog := service.NewCatalogService(store, productCache, log)
	maintenance := service.NewMaintenanceService(store, catalog, nil, log)

	products, err := maintenance.Reseed(ctx)
	if err != nil {
		return err
	}
	log.Info("Products seeded successfully", zap.Int("count", len(products)))
	return nil
}
