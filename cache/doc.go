// Package cache defines the tiered caching contract used by the repository
// layer: a closed set of tiers with distinct default TTLs, a read-through
// Service interface, and deterministic key construction.
//
// # Tiers
//
// Three tiers exist for the lifetime of the process:
//
//   - TierQuery (default TTL 60s) for per-request query results
//   - TierAggregation (default TTL 5m) for computed aggregates
//   - TierStatic (default TTL 1h) for rarely-changing lookup data
//
// A value lives in exactly one tier, but Invalidate and InvalidatePattern
// sweep all tiers so callers never need to remember where a key was stored.
//
// # Keys
//
// BuildKey produces keys of the form "<entity>:<operation>:<k1=v1>&<k2=v2>"
// with parameter keys sorted lexicographically. Repositories invalidate an
// entity's whole namespace after any write with the pattern "^<entity>:".
//
// # Mutation contract
//
// For performance the cache does not clone values. A cached result returned
// from GetOrFetch may be shared with other callers; treat it as read-only.
//
// The default Service implementation lives in internal/cacheinfra.
package cache
