// Package database owns the embedded sqlite store: the process-wide
// connection handle, schema bootstrap, transactions and id generation.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"
)

// Manager owns the single persistent connection to the sqlite file. The
// handle is created lazily on the first DB call and shared by every
// repository; Close and Reconnect control its lifetime explicitly.
//
// Connection failures are fatal from this layer's point of view: the
// manager never retries, callers decide whether to surface the error or
// call Reconnect.
type Manager struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
	db   *bun.DB
}

// NewManager returns a manager for the sqlite file at path. The file is not
// opened until the first DB call. Managers are cheap to construct; the
// expensive state is the lazily-created handle.
func NewManager(path string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{path: path, log: log}
}

// DB returns the live handle, opening the backing file on first call.
// Repeated calls before any Close return the same handle.
func (m *Manager) DB() (*bun.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openLocked()
}

func (m *Manager) openLocked() (*bun.DB, error) {
	if m.db != nil {
		return m.db, nil
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", m.path)
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", m.path, err)
	}
	// One writer at a time; WAL still allows concurrent readers.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", m.path, err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	m.log.Info("database connected", zap.String("path", m.path))
	m.db = db
	return m.db, nil
}

// Reconnect force-closes the handle and re-creates it. Any handle fetched
// before this call must be considered invalid afterwards.
func (m *Manager) Reconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		if err := m.db.Close(); err != nil {
			m.log.Warn("closing stale connection", zap.Error(err))
		}
		m.db = nil
	}
	_, err := m.openLocked()
	return err
}

// Close closes and nulls the handle. Calling it when already closed is a
// no-op.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	m.log.Info("database closed", zap.String("path", m.path))
	return err
}

// RunInTransaction executes work atomically: every statement issued through
// tx commits together, or none do if work returns an error.
//
// Caller contract: do not call RunInTransaction from inside work. sqlite
// has no nested transactions on a single connection and this layer does not
// guard against it.
func (m *Manager) RunInTransaction(ctx context.Context, work func(ctx context.Context, tx bun.Tx) error) error {
	db, err := m.DB()
	if err != nil {
		return err
	}
	return db.RunInTx(ctx, nil, work)
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateID returns an id of the form [prefix-]<millis base36>-<random
// base36>. The random suffix carries ~41 bits of entropy, which makes
// collisions negligible at this system's record counts. The prefix is
// cosmetic only.
func (m *Manager) GenerateID(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	suffix := make([]byte, 8)
	n := rand.Uint64()
	for i := range suffix {
		suffix[i] = idAlphabet[n%36]
		n /= 36
	}

	id := ts + "-" + string(suffix)
	if prefix != "" {
		return prefix + "-" + id
	}
	return id
}
