// Package sqlite provides the public API for the SQLite ledger backend.
// It exposes the factory function while keeping implementation details
// internal.
package sqlite

import (
	"github.com/dukaforge/paintline/internal/sqlite"
	"github.com/dukaforge/paintline/pkg/types"
)

// NewBackend creates a new SQLite ledger instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	ledger := sqlite.NewBackend()
//	err := ledger.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".paintline",
//	})
//	defer ledger.Detach()
func NewBackend() types.Ledger {
	return sqlite.NewBackend()
}
