package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/paintline/pkg/types"
)

// newTestBackend returns an attached backend over a throwaway data dir.
// Detach is registered as cleanup.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()

	b := NewBackend()
	err := b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

func TestAttachValidatesConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "postgres"}), types.ErrBackendUnknown)
}

func TestAttachTwiceFails(t *testing.T) {
	b := newTestBackend(t)
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestDetachIsIdempotent(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())
}

func TestOperationsAfterDetach(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Detach())

	_, err := b.CreateType("Orks")
	assert.ErrorIs(t, err, types.ErrLedgerDetached)
	_, err = b.ListTypes()
	assert.ErrorIs(t, err, types.ErrLedgerDetached)
	_, err = b.Move("id", types.StageUnbuilt, types.StagePriming, 1)
	assert.ErrorIs(t, err, types.ErrLedgerDetached)
	_, err = b.ExportAll()
	assert.ErrorIs(t, err, types.ErrLedgerDetached)
}

func TestReattachKeepsData(t *testing.T) {
	dataDir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}

	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	created, err := b.CreateType("Tyranids")
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	// A second attach over the same directory must see the existing rows.
	b2 := NewBackend()
	require.NoError(t, b2.Attach(cfg))
	defer b2.Detach()

	got, err := b2.GetType(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tyranids", got.Name)
	assert.FileExists(t, filepath.Join(dataDir, dbFileName))
}
