// Package store provides the product document stores: MongoDB (the
// production default), PostgreSQL and an in-memory store for development.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/consumewise/backend/config"
	"github.com/consumewise/backend/internal/domain"
	"github.com/rs/zerolog"
)

// Open builds the product store selected by cfg.Driver. The returned close
// function releases connections and is never nil on success.
func Open(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (domain.ProductRepository, func(), error) {
	switch cfg.Driver {
	case config.StoreDriverMemory:
		logger.Warn().Msg("using in-memory product store; data is lost on restart")
		return NewMemoryStore(), func() {}, nil

	case config.StoreDriverMongo:
		store, disconnect, err := ConnectMongo(ctx, cfg.URI, cfg.Database, cfg.Collection, logger)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := disconnect(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("failed to disconnect from mongo")
			}
		}
		return store, closeFn, nil

	case config.StoreDriverPostgres:
		pool, err := NewPool(ctx, cfg.URI, int32(cfg.MaxConnections))
		if err != nil {
			return nil, nil, err
		}
		store := NewPostgresStore(pool, logger)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info().Int("max_connections", cfg.MaxConnections).Msg("connected to postgres")
		return store, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver: %q", cfg.Driver)
	}
}
