package kv

import (
	"fmt"

	"apex-tracker/internal/core/config"
)

// Open returns the store selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.StorageDriverRedis:
		store, err := NewRedisAdapter(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageDriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
