package kv

import (
	"context"
	"testing"

	"apex-tracker/internal/core/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		store, err := Open(config.StorageConfig{Driver: config.StorageDriverMemory})
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &MemoryStore{}, store)
		assert.NoError(t, store.Ping(context.Background()))
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)

		store, err := Open(config.StorageConfig{Driver: config.StorageDriverRedis, RedisURL: "redis://" + mr.Addr()})
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &RedisAdapter{}, store)
		assert.NoError(t, store.Ping(context.Background()))
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := Open(config.StorageConfig{Driver: "etcd"})
		assert.EqualError(t, err, `unknown storage driver "etcd"`)
	})
}
