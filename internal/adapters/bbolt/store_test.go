package bbolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/pysym/internal/ports"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_FreshSnapshotIsZero(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stats.Requests)
	assert.Equal(t, uint64(0), stats.OK)
	assert.Empty(t, stats.Errors)
	assert.Empty(t, stats.Parsers)
}

func TestStore_RecordAccumulates(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Record(ports.RequestOutcome{OK: true, Parser: "treesitter"}))
	require.NoError(t, store.Record(ports.RequestOutcome{OK: true, Parser: "pyscan"}))
	require.NoError(t, store.Record(ports.RequestOutcome{ErrorKind: "syntax_error", Parser: "pyscan"}))
	require.NoError(t, store.Record(ports.RequestOutcome{ErrorKind: "unsupported_action"}))

	stats, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), stats.Requests)
	assert.Equal(t, uint64(2), stats.OK)
	assert.Equal(t, uint64(1), stats.Errors["syntax_error"])
	assert.Equal(t, uint64(1), stats.Errors["unsupported_action"])
	assert.Equal(t, uint64(1), stats.Parsers["treesitter"])
	assert.Equal(t, uint64(2), stats.Parsers["pyscan"])
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ports.RequestOutcome{OK: true, Parser: "pyscan"}))
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	stats, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Requests)
	assert.Equal(t, uint64(1), stats.Parsers["pyscan"])
}

func TestStore_Reset(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Record(ports.RequestOutcome{OK: true, Parser: "pyscan"}))
	require.NoError(t, store.Reset())
	require.NoError(t, store.Reset(), "reset is idempotent")

	stats, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stats.Requests)
}
