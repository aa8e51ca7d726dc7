package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regfsm/internal/config"
	"github.com/aretw0/regfsm/internal/logging"
	"github.com/aretw0/regfsm/pkg/adapters/file"
	"github.com/aretw0/regfsm/pkg/adapters/memory"
	"github.com/aretw0/regfsm/pkg/adapters/redis"
	"github.com/aretw0/regfsm/pkg/observability"
)

func TestNewEngine_Backends(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewNop()

	t.Run("memory", func(t *testing.T) {
		eng, err := NewEngine(ctx, config.Default(), logger, nil)
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, eng.Store())
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Backend = config.BackendFile
		cfg.Store.Dir = t.TempDir()
		cfg.Store.Format = "yaml"

		eng, err := NewEngine(ctx, cfg, logger, nil)
		require.NoError(t, err)
		assert.IsType(t, &file.Store{}, eng.Store())

		res, err := eng.Compile(ctx, "a|b")
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(cfg.Store.Dir, res.ID+".yaml"))
		assert.NoError(t, err)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Store.Backend = config.BackendRedis
		cfg.Redis.Addr = mr.Addr()
		cfg.Redis.Prefix = "test:"

		eng, err := NewEngine(ctx, cfg, logger, observability.NewMetrics())
		require.NoError(t, err)
		assert.IsType(t, &redis.Store{}, eng.Store())

		res, err := eng.Compile(ctx, "ab*")
		require.NoError(t, err)
		assert.True(t, mr.Exists("test:"+res.ID))
		assert.NoError(t, eng.Close())
	})

	t.Run("redis unreachable", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Backend = config.BackendRedis
		cfg.Redis.Addr = "127.0.0.1:1"
		_, err := NewEngine(ctx, cfg, logger, nil)
		assert.Error(t, err)
	})

	t.Run("invalid limits", func(t *testing.T) {
		cfg := config.Default()
		cfg.Limits.MaxLength = -1
		_, err := NewEngine(ctx, cfg, logger, nil)
		assert.Error(t, err)
	})
}
