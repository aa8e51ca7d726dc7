// Package config loads runtime settings from an optional YAML or JSON file
// overlaid with REGFSM_<SECTION>_<KEY> environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/regfsm/pkg/expr"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "REGFSM_"

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// Config is the full application configuration.
type Config struct {
	Log    LogConfig    `yaml:"log" json:"log" mapstructure:"log"`
	Server ServerConfig `yaml:"server" json:"server" mapstructure:"server"`
	Store  StoreConfig  `yaml:"store" json:"store" mapstructure:"store"`
	Redis  RedisConfig  `yaml:"redis" json:"redis" mapstructure:"redis"`
	Limits LimitsConfig `yaml:"limits" json:"limits" mapstructure:"limits"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level" mapstructure:"level"`
	Format string `yaml:"format" json:"format" mapstructure:"format"`
}

type ServerConfig struct {
	Port        int           `yaml:"port" json:"port" mapstructure:"port"`
	ReadTimeout time.Duration `yaml:"read_timeout" json:"read_timeout" mapstructure:"read_timeout"`
}

type StoreConfig struct {
	Backend string `yaml:"backend" json:"backend" mapstructure:"backend"`
	// Dir and Format apply to the file backend only.
	Dir    string `yaml:"dir" json:"dir" mapstructure:"dir"`
	Format string `yaml:"format" json:"format" mapstructure:"format"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" json:"password" mapstructure:"password"`
	DB       int           `yaml:"db" json:"db" mapstructure:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix" mapstructure:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl" mapstructure:"ttl"`
}

type LimitsConfig struct {
	// MaxLength bounds the expression length after normalization.
	MaxLength int `yaml:"max_length" json:"max_length" mapstructure:"max_length"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{Port: 8080, ReadTimeout: 10 * time.Second},
		Store:  StoreConfig{Backend: BackendMemory, Dir: ".regfsm/results", Format: "json"},
		Redis:  RedisConfig{Addr: "localhost:6379", Prefix: "regfsm:result:"},
		Limits: LimitsConfig{MaxLength: expr.DefaultMaxLength},
	}
}

// Load reads path (YAML, or JSON when the extension is .json), applies
// environment overrides and validates the result. A missing file is not an
// error; an empty path skips the file entirely.
func Load(path string) (*Config, error) {
	return load(path, os.Environ())
}

func load(path string, environ []string) (*Config, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}
	overlayEnv(raw, environ)

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) (map[string]any, error) {
	raw := map[string]any{}
	if path == "" {
		return raw, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return raw, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// overlayEnv copies REGFSM_SECTION_KEY=value into raw[section][key].
// The section is the first underscore-separated word; the rest is the key.
func overlayEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_")
		if !ok || section == "" || key == "" {
			continue
		}

		inner, ok := raw[section].(map[string]any)
		if !ok {
			inner = map[string]any{}
			raw[section] = inner
		}
		inner[key] = value
	}
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	case BackendFile:
		if c.Store.Dir == "" {
			return fmt.Errorf("store.dir is required for the %s backend", BackendFile)
		}
		switch strings.ToLower(c.Store.Format) {
		case "json", "yaml", "yml":
		default:
			return fmt.Errorf("unknown store format %q", c.Store.Format)
		}
	default:
		return fmt.Errorf("unknown store backend %q (want %s, %s or %s)", c.Store.Backend, BackendMemory, BackendRedis, BackendFile)
	}
	if c.Limits.MaxLength <= 0 {
		return fmt.Errorf("limits.max_length must be positive, got %d", c.Limits.MaxLength)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	return nil
}
