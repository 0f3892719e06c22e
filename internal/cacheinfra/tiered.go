// Package cacheinfra implements the cache.Service contract on top of
// sturdyc, with one client per tier.
package cacheinfra

import (
	"context"
	"regexp"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"

	"github.com/rentfolio/rentfolio/cache"
)

// entry wraps a cached value with an explicit deadline so per-call TTL
// overrides can be honored at read time; the backing store only knows the
// tier's default retention.
type entry struct {
	value    any
	deadline time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.deadline.IsZero() && !now.Before(e.deadline)
}

// tierStore is a single tier: a sturdyc client plus its default TTL and
// hit/miss counters.
type tierStore struct {
	client *sturdyc.Client[entry]
	ttl    time.Duration
	hits   *xsync.Counter
	misses *xsync.Counter
}

// TieredService implements cache.Service with one sturdyc client per tier.
//
// Expired entries are detected at read time via the entry deadline and
// swept in the background on the configured interval. A per-call TTL longer
// than the tier's default is still bounded by the tier's retention window;
// overrides are meant for shortening, not extending.
type TieredService struct {
	tiers map[cache.Tier]*tierStore
}

var _ cache.Service = (*TieredService)(nil)

// NewTieredService validates cfg and builds the three tiers.
func NewTieredService(cfg cache.Config) (*TieredService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []sturdyc.Option
	if cfg.SweepInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(cfg.SweepInterval))
	}

	tiers := make(map[cache.Tier]*tierStore, 3)
	for _, id := range cache.Tiers() {
		ttl := cfg.TierTTL(id)
		tiers[id] = &tierStore{
			client: sturdyc.New[entry](cfg.Capacity, cfg.NumShards, ttl, cfg.EvictionPercentage, opts...),
			ttl:    ttl,
			hits:   xsync.NewCounter(),
			misses: xsync.NewCounter(),
		}
	}

	return &TieredService{tiers: tiers}, nil
}

func (s *TieredService) tier(id cache.Tier) *tierStore {
	if t, ok := s.tiers[id]; ok {
		return t
	}
	// Tier is a closed enum; anything else behaves as the query tier.
	return s.tiers[cache.TierQuery]
}

// GetOrFetch implements cache.Service. A ttl of zero uses the tier default.
// Fetch errors propagate without caching anything.
func (s *TieredService) GetOrFetch(ctx context.Context, id cache.Tier, key string, ttl time.Duration, fetch cache.FetchFn[any]) (any, error) {
	t := s.tier(id)
	now := time.Now()

	if e, ok := t.client.Get(key); ok {
		if !e.expired(now) {
			t.hits.Inc()
			return e.value, nil
		}
		t.client.Delete(key)
	}
	t.misses.Inc()

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = t.ttl
	}
	t.client.Set(key, entry{value: value, deadline: now.Add(ttl)})
	return value, nil
}

// Invalidate deletes key from every tier.
func (s *TieredService) Invalidate(_ context.Context, key string) {
	for _, t := range s.tiers {
		t.client.Delete(key)
	}
}

// InvalidatePattern deletes every key in every tier matching pattern.
func (s *TieredService) InvalidatePattern(_ context.Context, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	for _, t := range s.tiers {
		for _, key := range t.client.ScanKeys() {
			if re.MatchString(key) {
				t.client.Delete(key)
			}
		}
	}
	return nil
}

// ClearAll empties every tier and resets the hit/miss counters.
func (s *TieredService) ClearAll(_ context.Context) {
	for _, t := range s.tiers {
		for _, key := range t.client.ScanKeys() {
			t.client.Delete(key)
		}
		t.hits.Reset()
		t.misses.Reset()
	}
}

// Stats reports key count and cumulative hit/miss counters per tier.
func (s *TieredService) Stats() map[cache.Tier]cache.TierStats {
	stats := make(map[cache.Tier]cache.TierStats, len(s.tiers))
	for id, t := range s.tiers {
		stats[id] = cache.TierStats{
			Keys:   t.client.Size(),
			Hits:   t.hits.Value(),
			Misses: t.misses.Value(),
		}
	}
	return stats
}
