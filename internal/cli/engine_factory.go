package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/regfsm"
	"github.com/aretw0/regfsm/internal/config"
	"github.com/aretw0/regfsm/pkg/adapters/file"
	"github.com/aretw0/regfsm/pkg/adapters/memory"
	"github.com/aretw0/regfsm/pkg/adapters/redis"
	"github.com/aretw0/regfsm/pkg/observability"
	"github.com/aretw0/regfsm/pkg/ports"
	"github.com/aretw0/regfsm/pkg/schema"
)

// NewEngine builds an engine following cfg. Metrics may be nil.
func NewEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*regfsm.Engine, error) {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []regfsm.Option{
		regfsm.WithLogger(logger),
		regfsm.WithStore(store),
		regfsm.WithMaxLength(cfg.Limits.MaxLength),
	}
	if metrics != nil {
		opts = append(opts, regfsm.WithLifecycleHooks(metrics.Hooks()))
	}

	engine, err := regfsm.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	logger.Debug("engine ready", "store", cfg.Store.Backend, "max_length", cfg.Limits.MaxLength)
	return engine, nil
}

func newStore(ctx context.Context, cfg *config.Config) (ports.ResultStore, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		opts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis at %s unreachable: %w", cfg.Redis.Addr, err)
		}
		return store, nil
	case config.BackendFile:
		format, err := schema.ParseFormat(cfg.Store.Format)
		if err != nil {
			return nil, err
		}
		return file.NewStore(cfg.Store.Dir, format), nil
	default:
		return memory.NewStore(), nil
	}
}
