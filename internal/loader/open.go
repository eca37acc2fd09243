package loader

import (
	"context"
	"fmt"

	"roomcheck/internal/config"
	"roomcheck/internal/logger"
)

// Open builds the store selected by cfg. The returned close function
// releases any connections and is never nil.
func Open(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (Store, func(), error) {
	noop := func() {}

	switch cfg.Type {
	case config.StoreFile:
		log.Info("using file store", "dir", cfg.File.Dir)
		return NewFileStore(cfg.File.Dir), noop, nil

	case config.StorePostgres:
		pool, err := NewPostgresPool(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, noop, err
		}

		store := NewPostgresStore(pool, cfg.Postgres.Table)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}

		log.Info("using postgres store", "table", cfg.Postgres.Table)

		return store, pool.Close, nil

	case config.StoreRedis:
		store, err := NewRedisStore(ctx, cfg.Redis.URL, cfg.Redis.KeyPrefix)
		if err != nil {
			return nil, noop, err
		}

		log.Info("using redis store", "prefix", cfg.Redis.KeyPrefix)

		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn("failed to close redis client", "error", err)
			}
		}, nil

	case config.StoreHTTP:
		store, err := NewHTTPStore(cfg.HTTP)
		if err != nil {
			return nil, noop, err
		}

		log.Info("using http store", "base_url", cfg.HTTP.BaseURL)

		return store, noop, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", config.ErrInvalidStoreType, cfg.Type)
	}
}
