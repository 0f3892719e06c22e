// Package repository maps domain records to the normalized sqlite tables
// and coordinates multi-table writes through transactions. Aggregate reads
// on the financial repository go through the tiered cache; every successful
// write invalidates the owning entity's cache namespace before returning.
package repository

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/rentfolio/rentfolio/cache"
	"github.com/rentfolio/rentfolio/internal/database"
)

// Repository is the contract every entity repository implements. T is the
// domain record, P the typed partial update.
//
// The semantics are fixed across entities:
//
//   - FindByID returns (nil, nil) for a missing id, it never errors on
//     "not found". Update on a missing id returns a NotFound error. The
//     asymmetry is intentional; do not unify it.
//   - Create returns the full created record, including the generated id,
//     and is visible to an immediately following FindByID.
//   - Update merges only the fields present in the patch.
//   - Delete is idempotent: deleting a missing id is a no-op.
type Repository[T any, P any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, record T) (*T, error)
	Update(ctx context.Context, id string, patch P) (*T, error)
	Delete(ctx context.Context, id string) error
}

// base carries the state shared by every entity repository: the table name
// (which doubles as the cache namespace), the connection manager and the
// tiered cache. Repositories are cheap to construct; the expensive state
// lives in the manager.
type base struct {
	table        string
	manager      *database.Manager
	cache        cache.Service
	cacheEnabled bool
}

func newBase(table string, m *database.Manager, c cache.Service) base {
	return base{table: table, manager: m, cache: c, cacheEnabled: c != nil}
}

func (b base) db() (*bun.DB, error) { return b.manager.DB() }

func (b base) generateID(prefix string) string { return b.manager.GenerateID(prefix) }

func (b base) transaction(ctx context.Context, work func(ctx context.Context, tx bun.Tx) error) error {
	return b.manager.RunInTransaction(ctx, work)
}

// invalidateEntityCache drops every cached read namespaced to this entity,
// in all tiers. Called after each successful write, before returning to the
// caller.
func (b base) invalidateEntityCache(ctx context.Context) {
	if !b.cacheEnabled {
		return
	}
	// The pattern is a fixed anchor over our own key grammar; it always
	// compiles.
	_ = b.cache.InvalidatePattern(ctx, "^"+b.table+":")
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// nullable maps "" to nil for optional foreign keys and date columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
