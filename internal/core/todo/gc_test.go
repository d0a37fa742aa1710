package todo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecordFile(t *testing.T, store *Store, id, status string, age time.Duration) {
	t.Helper()
	r := Record{
		ID:        id,
		Title:     "t-" + id,
		Status:    status,
		CreatedAt: time.Now().Add(-age).UTC().Format(time.RFC3339),
	}
	require.NoError(t, os.MkdirAll(store.Dir(), 0o755))
	require.NoError(t, os.WriteFile(store.recordPath(id), []byte(Serialize(r)), 0o644))
}

func TestGarbageCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("age and status matrix", func(t *testing.T) {
		store := newTestStore(t)

		writeRecordFile(t, store, "aaaa0001", "closed", 10*24*time.Hour) // old + closed: removed
		writeRecordFile(t, store, "aaaa0002", "open", 10*24*time.Hour)   // old + open: kept
		writeRecordFile(t, store, "aaaa0003", "closed", 24*time.Hour)    // young + closed: kept
		writeRecordFile(t, store, "aaaa0004", "done", 10*24*time.Hour)   // "done" is terminal too

		removed, err := store.GarbageCollect(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"aaaa0001", "aaaa0004"}, removed)

		all, err := store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
	})

	t.Run("unparseable timestamp is never deleted", func(t *testing.T) {
		store := newTestStore(t)

		r := Record{ID: "aaaa0005", Title: "bad clock", Status: "closed", CreatedAt: "sometime last year"}
		require.NoError(t, os.MkdirAll(store.Dir(), 0o755))
		require.NoError(t, os.WriteFile(store.recordPath(r.ID), []byte(Serialize(r)), 0o644))

		removed, err := store.GarbageCollect(ctx)
		require.NoError(t, err)
		assert.Empty(t, removed)

		_, err = store.Get(ctx, r.ID)
		require.NoError(t, err)
	})

	t.Run("disabled by settings", func(t *testing.T) {
		store := newTestStore(t)
		writeRecordFile(t, store, "aaaa0006", "closed", 30*24*time.Hour)

		settings, err := json.Marshal(Settings{GC: false, GCDays: 7})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), SettingsFile), settings, 0o644))

		removed, err := store.GarbageCollect(ctx)
		require.NoError(t, err)
		assert.Empty(t, removed)
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("missing file writes defaults", func(t *testing.T) {
		dir := t.TempDir()

		s := LoadSettings(dir)
		assert.Equal(t, DefaultSettings(), s)

		data, err := os.ReadFile(filepath.Join(dir, SettingsFile))
		require.NoError(t, err)

		var onDisk Settings
		require.NoError(t, json.Unmarshal(data, &onDisk))
		assert.Equal(t, DefaultSettings(), onDisk)
	})

	t.Run("malformed file rewritten with defaults", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("not json"), 0o644))

		s := LoadSettings(dir)
		assert.Equal(t, DefaultSettings(), s)
	})

	t.Run("negative gcDays normalized", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(`{"gc":false,"gcDays":-3}`), 0o644))

		s := LoadSettings(dir)
		assert.False(t, s.GC)
		assert.Equal(t, 7, s.GCDays)
	})

	t.Run("valid file untouched", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(`{"gc":true,"gcDays":30}`), 0o644))

		s := LoadSettings(dir)
		assert.True(t, s.GC)
		assert.Equal(t, 30, s.GCDays)
	})
}
