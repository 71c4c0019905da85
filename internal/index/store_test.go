package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, workspace string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	store, err := Open(path, workspace)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(crate, module, name, kind string) SymbolRecord {
	return SymbolRecord{
		Crate:      crate,
		ModulePath: module,
		Name:       name,
		Kind:       kind,
		Visibility: "pub",
		FilePath:   "src/lib.rs",
		Line:       3,
		Column:     4,
	}
}

func TestReplaceCrateAndLookup(t *testing.T) {
	store := openTestStore(t, "ws-a")

	err := store.ReplaceCrate("app", []SymbolRecord{
		record("app", "app", "Config", "struct"),
		record("app", "app::io", "read_file", "function"),
	})
	require.NoError(t, err)

	got := store.Lookup("Config")
	require.Len(t, got, 1)
	assert.Equal(t, "app", got[0].ModulePath)
	assert.Equal(t, "struct", got[0].Kind)
	assert.Equal(t, uint32(3), got[0].Line)
	assert.Equal(t, uint32(4), got[0].Column)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReplaceCratePrunesStaleSymbols(t *testing.T) {
	store := openTestStore(t, "ws-a")

	require.NoError(t, store.ReplaceCrate("app", []SymbolRecord{
		record("app", "app", "old_fn", "function"),
	}))
	require.NoError(t, store.ReplaceCrate("app", []SymbolRecord{
		record("app", "app", "new_fn", "function"),
	}))

	assert.Empty(t, store.Lookup("old_fn"), "stale symbol survived replace")
	assert.Len(t, store.Lookup("new_fn"), 1)
}

func TestReplaceCrateLeavesOtherCratesAlone(t *testing.T) {
	store := openTestStore(t, "ws-a")

	require.NoError(t, store.ReplaceCrate("app", []SymbolRecord{
		record("app", "app", "main", "function"),
	}))
	require.NoError(t, store.ReplaceCrate("util", []SymbolRecord{
		record("util", "util", "helper", "function"),
	}))
	require.NoError(t, store.ReplaceCrate("util", nil))

	assert.Len(t, store.Lookup("main"), 1, "replace of util touched app")
	assert.Empty(t, store.Lookup("helper"), "util symbols not pruned")
}

func TestWorkspaceIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")

	a, err := Open(path, "ws-a")
	require.NoError(t, err)

	require.NoError(t, a.ReplaceCrate("app", []SymbolRecord{
		record("app", "app", "shared_name", "function"),
	}))
	require.NoError(t, a.Close())

	b, err := Open(path, "ws-b")
	require.NoError(t, err)
	defer b.Close()

	assert.Empty(t, b.Lookup("shared_name"), "workspace ws-b sees ws-a symbols")
}

func TestLookupUsesCacheAfterFirstHit(t *testing.T) {
	store := openTestStore(t, "ws-a")

	require.NoError(t, store.ReplaceCrate("app", []SymbolRecord{
		record("app", "app", "cached", "function"),
	}))

	first := store.Lookup("cached")
	second := store.Lookup("cached")
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0], second[0])
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("", "ws-a")
	require.Error(t, err)
}
