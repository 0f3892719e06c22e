package cache

import "time"

// Config holds the tier TTLs and the sizing parameters shared by every tier.
type Config struct {
	// QueryTTL is the default time-to-live for the query tier.
	QueryTTL time.Duration
	// AggregationTTL is the default time-to-live for the aggregation tier.
	AggregationTTL time.Duration
	// StaticTTL is the default time-to-live for the static tier.
	StaticTTL time.Duration

	// SweepInterval is how often each tier checks for expired entries.
	// Expiry is also checked at read time, so a read just past an entry's
	// deadline is a miss even before the next sweep. Zero uses the backing
	// store's default.
	SweepInterval time.Duration

	// Capacity is the maximum number of entries per tier. Must be > 0.
	Capacity int
	// NumShards is the shard count per tier. Must be > 0.
	NumShards int
	// EvictionPercentage is how much of a tier to evict when it reaches
	// capacity. Must be between 1 and 100.
	EvictionPercentage int
}

// DefaultConfig returns the tier layout used in production: a short-lived
// query tier, a medium aggregation tier and a long-lived static tier.
func DefaultConfig() Config {
	return Config{
		QueryTTL:           60 * time.Second,
		AggregationTTL:     5 * time.Minute,
		StaticTTL:          time.Hour,
		SweepInterval:      30 * time.Second,
		Capacity:           10000,
		NumShards:          64,
		EvictionPercentage: 10,
	}
}

// TierTTL returns the configured default TTL for the given tier.
func (c Config) TierTTL(t Tier) time.Duration {
	switch t {
	case TierAggregation:
		return c.AggregationTTL
	case TierStatic:
		return c.StaticTTL
	default:
		return c.QueryTTL
	}
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	if c.QueryTTL <= 0 || c.AggregationTTL <= 0 || c.StaticTTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "every tier TTL must be greater than 0"}
	}
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cache config error in field " + e.Field + ": " + e.Message
}
