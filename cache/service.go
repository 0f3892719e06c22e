package cache

import (
	"context"
	"time"
)

// Tier identifies one of the three independent cache stores. Each tier has
// its own default TTL; writes always land in exactly one tier, while
// invalidation sweeps all of them since callers may not know which tier
// holds a given key.
type Tier int

const (
	// TierQuery holds short-lived, per-request query results.
	TierQuery Tier = iota
	// TierAggregation holds computed aggregates such as monthly summaries.
	TierAggregation
	// TierStatic holds rarely-changing lookup data such as categories.
	TierStatic
)

// Tiers returns every tier, in a fixed order.
func Tiers() []Tier {
	return []Tier{TierQuery, TierAggregation, TierStatic}
}

func (t Tier) String() string {
	switch t {
	case TierQuery:
		return "query"
	case TierAggregation:
		return "aggregation"
	case TierStatic:
		return "static"
	default:
		return "unknown"
	}
}

// FetchFn is the function signature Service expects when fetching from the
// source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// TierStats reports the state of a single tier: current key count plus
// cumulative hit/miss counters. Counters accumulate from process start and
// reset on ClearAll.
type TierStats struct {
	Keys   int   `json:"keys"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Service exposes the read-through caching operations the repositories need.
//
// GetOrFetch looks key up in the given tier; on a hit it returns the stored
// value without invoking fetch, on a miss it invokes fetch synchronously,
// stores the result under key and returns it. A ttl of zero uses the tier's
// default; a fetch error propagates without caching anything.
//
// Returned values are not copies. Callers must treat cached results as
// read-only.
type Service interface {
	GetOrFetch(ctx context.Context, tier Tier, key string, ttl time.Duration, fetch FetchFn[any]) (any, error)
	// Invalidate deletes key from every tier.
	Invalidate(ctx context.Context, key string)
	// InvalidatePattern deletes every key in every tier matching the
	// regular expression. It errors only when the pattern does not compile.
	InvalidatePattern(ctx context.Context, pattern string) error
	// ClearAll empties all tiers and resets hit/miss counters. Intended for
	// test setup and benchmarking, not normal operation.
	ClearAll(ctx context.Context)
	Stats() map[Tier]TierStats
}

// GetOrFetch is a type-safe wrapper around Service.GetOrFetch.
func GetOrFetch[T any](ctx context.Context, s Service, tier Tier, key string, ttl time.Duration, fetch FetchFn[T]) (T, error) {
	result, err := s.GetOrFetch(ctx, tier, key, ttl, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
