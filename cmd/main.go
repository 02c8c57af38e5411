package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"importexport-hub/internal/handler"
	"importexport-hub/internal/repository"
	"importexport-hub/internal/service"
	"importexport-hub/pkg/cache"
	"importexport-hub/pkg/config"
	"importexport-hub/pkg/events"
	"importexport-hub/pkg/jwtutil"
	"importexport-hub/pkg/logger"
	"importexport-hub/prometheus"

	"go.uber.org/zap"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.InitLogger(appConfig)
	defer log.Sync()

	log.Info("Starting importexport-hub", appConfig.LogFields()...)

	prometheus.InitMetrics(appConfig.Metrics.Prefix)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, appConfig, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	log.Info("Store ready", zap.String("driver", appConfig.Store.Driver))

	var productCache cache.Cache = cache.Noop{}
	if appConfig.Cache.Addr != "" {
		client, err := cache.NewRedisClient(ctx, appConfig.Cache)
		if err != nil {
			_ = store.Close(ctx)
			log.Fatal("Failed to connect to cache", zap.Error(err))
		}
		defer client.Close()
		productCache = cache.NewRedis(client, appConfig.ServiceName, appConfig.Cache.TTL, log)
		log.Info("Product cache enabled",
			zap.String("addr", appConfig.Cache.Addr),
			zap.Duration("ttl", appConfig.Cache.TTL))
	}

	publisher, err := events.NewPublisher(ctx, appConfig.Events, log)
	if err != nil {
		_ = store.Close(ctx)
		log.Fatal("Failed to initialize event publisher", zap.Error(err))
	}

	catalog := service.NewCatalogService(store, productCache, log)
	imports := service.NewImportService(store, catalog, publisher, log)
	services := handler.Services{
		Store:       store,
		Catalog:     catalog,
		Imports:     imports,
		Exports:     service.NewExportService(store, catalog, publisher, log),
		Maintenance: service.NewMaintenanceService(store, catalog, imports, log),
	}

	e := handler.NewRouter(services, handler.RouterOptions{
		AuthMode:           appConfig.Auth.Mode,
		JWT:                jwtutil.NewJWTUtil(&appConfig.JWT),
		MaintenanceEnabled: appConfig.Maintenance.Enabled,
		Logger:             log,
	})

	go func() {
		port := appConfig.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down", zap.Duration("timeout", appConfig.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		log.Error("Event publisher close failed", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error("Store close failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
