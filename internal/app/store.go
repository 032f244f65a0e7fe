package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"homeclean/internal/config"
	"homeclean/internal/database"
	"homeclean/internal/docstore"
	"homeclean/internal/pkg/idgen"
)

// OpenStore connects the configured backend and returns the store with a func
// that releases the connection.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*docstore.Store, func(), error) {
	var (
		backend docstore.Backend
		closeFn func()
	)

	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return nil, nil, err
		}
		backend = docstore.NewMongoBackend(db)
		closeFn = func() { _ = client.Disconnect(context.Background()) }

	default:
		db, err := database.Connect(cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		gb, err := docstore.NewGormBackend(db)
		if err != nil {
			return nil, nil, fmt.Errorf("prepare document table: %w", err)
		}
		backend = gb
		closeFn = func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}

	log.Info("document store ready", zap.String("backend", cfg.StoreBackend))
	return docstore.New(backend, idgen.New(), log), closeFn, nil
}
