package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/delve/internal/game/catalog/catalogtest"
	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/storage"
	"github.com/cory-johannsen/delve/internal/storage/sqlite"
)

func TestStore_SaveLoadOverwrite(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "delve.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Load(ctx, "p1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	s, err := character.Build(catalogtest.Catalog(), "Ysolde", "wizard", 11)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "p1", s))

	got, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, s.SpellSlots, got.SpellSlots)
	assert.Equal(t, s.Location, got.Location)

	s.Gold = 0
	s.TurnCounter = 9
	require.NoError(t, store.Save(ctx, "p1", s))
	got, err = store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Gold)
	assert.Equal(t, 9, got.TurnCounter)
}

func TestStore_ReopenKeepsSaves(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "delve.db")
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	s, err := character.Build(catalogtest.Catalog(), "Brom", "fighter", 1)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "p1", s))
	require.NoError(t, store.Close())

	store, err = sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	got, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Brom", got.Name)
}

func TestStore_ImplementsPinger(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "delve.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	var p storage.Pinger = store
	assert.NoError(t, p.Ping(context.Background()))
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}
