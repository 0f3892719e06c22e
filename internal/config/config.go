// Package config loads settings from the environment with RENTFOLIO_
// prefixed variables, optionally seeded from a .env file in the working
// directory.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/rentfolio/rentfolio/cache"
)

type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// CacheConfig holds TTLs in seconds; they map onto cache.Config durations.
type CacheConfig struct {
	Enabled            bool `koanf:"enabled"`
	QueryTTL           int  `koanf:"query_ttl"`
	AggregationTTL     int  `koanf:"aggregation_ttl"`
	StaticTTL          int  `koanf:"static_ttl"`
	SweepInterval      int  `koanf:"sweep_interval"`
	Capacity           int  `koanf:"capacity"`
	NumShards          int  `koanf:"num_shards"`
	EvictionPercentage int  `koanf:"eviction_percentage"`
}

type Config struct {
	Env      string         `koanf:"env"`
	HTTP     HTTPConfig     `koanf:"http"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
}

func defaults() Config {
	c := cache.DefaultConfig()
	return Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Path: "rentfolio.db"},
		Cache: CacheConfig{
			Enabled:            true,
			QueryTTL:           int(c.QueryTTL / time.Second),
			AggregationTTL:     int(c.AggregationTTL / time.Second),
			StaticTTL:          int(c.StaticTTL / time.Second),
			SweepInterval:      int(c.SweepInterval / time.Second),
			Capacity:           c.Capacity,
			NumShards:          c.NumShards,
			EvictionPercentage: c.EvictionPercentage,
		},
	}
}

// Load builds the configuration from defaults overlaid with RENTFOLIO_
// environment variables. Double underscore separates nesting levels, so
// RENTFOLIO_HTTP__ADDR maps to http.addr and RENTFOLIO_CACHE__QUERY_TTL to
// cache.query_ttl. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	provider := env.Provider("RENTFOLIO_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "RENTFOLIO_")), "__", ".")
	})
	if err := k.Load(provider, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// ToCacheConfig converts the second-based settings into the cache package's
// duration config.
func (c Config) ToCacheConfig() cache.Config {
	return cache.Config{
		QueryTTL:           time.Duration(c.Cache.QueryTTL) * time.Second,
		AggregationTTL:     time.Duration(c.Cache.AggregationTTL) * time.Second,
		StaticTTL:          time.Duration(c.Cache.StaticTTL) * time.Second,
		SweepInterval:      time.Duration(c.Cache.SweepInterval) * time.Second,
		Capacity:           c.Cache.Capacity,
		NumShards:          c.Cache.NumShards,
		EvictionPercentage: c.Cache.EvictionPercentage,
	}
}

// IsProduction reports whether the app runs with the production profile.
func (c Config) IsProduction() bool { return c.Env == "production" }
