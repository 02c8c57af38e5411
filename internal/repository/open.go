package repository

import (
	"context"
	"fmt"
	"time"

	"importexport-hub/pkg/config"
	"importexport-hub/pkg/database"
	"importexport-hub/pkg/mongodb"

	"go.uber.org/zap"
)

// Open connects the Store selected by DB_DRIVER and prepares its schema
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, err
		}
		store := NewMongoStore(client, cfg.Mongo.Database)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil

	case config.DriverPostgres:
		db, err := database.InitDB(cfg, log)
		if err != nil {
			return nil, err
		}
		store := NewGormStore(db)

		start := time.Now()
		log.Info("Starting database migration...")
		if err := store.Migrate(); err != nil {
			log.Error("Database migration failed", zap.Error(err))
			_ = store.Close(ctx)
			return nil, err
		}
		log.Info("Database migration completed successfully", zap.Duration("duration", time.Since(start)))
		return store, nil

	case config.DriverMemory:
		log.Warn("Using the in-memory store; data is lost on restart")
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
