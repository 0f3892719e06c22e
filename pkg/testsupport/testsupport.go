// Package testsupport provides fixtures shared by the package tests: a
// throwaway sqlite database and a tiered cache with short TTLs.
package testsupport

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rentfolio/rentfolio/cache"
	"github.com/rentfolio/rentfolio/internal/cacheinfra"
	"github.com/rentfolio/rentfolio/internal/database"
)

// NewManager returns a connection manager over a fresh database file in a
// temporary directory, closed when the test ends.
func NewManager(t *testing.T) *database.Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	m := database.NewManager(path, zap.NewNop())
	t.Cleanup(func() {
		if err := m.Close(); err != nil {
			t.Errorf("close manager: %v", err)
		}
	})
	return m
}

// NewCache returns a tiered cache sized for tests. TTLs stay at their
// defaults; tests exercising expiry pass their own override per call.
func NewCache(t *testing.T) cache.Service {
	t.Helper()
	cfg := cache.DefaultConfig()
	cfg.Capacity = 1000
	cfg.NumShards = 4
	cfg.SweepInterval = time.Minute
	svc, err := cacheinfra.NewTieredService(cfg)
	if err != nil {
		t.Fatalf("build cache: %v", err)
	}
	return svc
}
