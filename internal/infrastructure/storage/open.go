// Package storage provides the key-value backends behind the session store.
package storage

import (
	"context"
	"fmt"

	"github.com/volunteerhub/dashboard/internal/core/ports"
	"github.com/volunteerhub/dashboard/internal/pkg/config"
)

// Open returns the backend selected by cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (ports.KVStore, error) {
	switch cfg.Backend {
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageFile, "":
		path := cfg.Path
		if path == "" {
			p, err := DefaultFilePath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileStore(path), nil
	case config.StorageRedis:
		client, err := Connect(ctx, RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
