package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dukaforge/paintline/pkg/types"
)

// dbFileName is the SQLite database file created inside DataDir.
const dbFileName = "paintline.db"

// timeLayout is the storage format for timestamps. Fixed-width UTC with a
// full nanosecond field, so lexicographic ordering of the TEXT column equals
// chronological ordering and imported sub-second timestamps round-trip.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Compile-time contract assertion ensuring the backend satisfies the
// ledger interface.
var _ types.Ledger = (*Backend)(nil)

// Backend implements the Ledger interface on an embedded SQLite database.
//
// SQLite has no row-level locks, so the exactly-bounded admission behavior
// required of concurrent transfers is provided by an explicit serialization
// point instead: writeMu is held for the duration of every mutating
// transaction. Reads do not take writeMu.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	// writeMu serializes all mutating transactions.
	writeMu sync.Mutex
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist, opens the database, and applies the schema
// on first use. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// The write mutex is the single writer; extra connections would only
	// surface SQLITE_BUSY from the driver.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach releases all resources held by the backend. After Detach, all
// operations return ErrLedgerDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// ensureSchema applies the DDL when the database file is fresh. An existing
// miniature_types table means the schema is already in place.
func ensureSchema(db *sql.DB) error {
	var name string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'miniature_types'`,
	).Scan(&name)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// queryRower and rowQuerier cover both *sql.DB and *sql.Tx so read helpers
// work inside and outside transactions.
type queryRower interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type rowQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// conn returns the open database handle, or ErrLedgerDetached.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrLedgerDetached
	}
	return b.db, nil
}

// writeTx runs fn inside a transaction with the write mutex held. The
// transaction is rolled back unless fn succeeds.
func (b *Backend) writeTx(fn func(tx *sql.Tx) error) error {
	db, err := b.conn()
	if err != nil {
		return err
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// generateID generates a new UUID v7 for type IDs. V7 is time-ordered, so
// insertion order doubles as a stable list tiebreak.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}

// formatTime renders t for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime reads a stored timestamp back.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}
