package stagehand

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/stagehand/internal/core/todo"
)

func newTestTodoService(t *testing.T) *TodoService {
	t.Helper()

	dir := t.TempDir()
	log := zerolog.Nop()
	locks := todo.NewLockManager(dir, "sess-test", 10*time.Minute, nil, log)
	store := todo.NewStore(dir, locks, log)

	return NewTodoService(store, log)
}

func TestTodoService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults status to open", func(t *testing.T) {
		svc := newTestTodoService(t)

		record, err := svc.Create(ctx, "fix the parser", nil, "", "")
		require.NoError(t, err)
		assert.Equal(t, "open", record.Status)
		assert.NotEmpty(t, record.ID)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		svc := newTestTodoService(t)

		_, err := svc.Create(ctx, "   ", nil, "", "")
		assert.Error(t, err)
	})
}

func TestTodoService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newTestTodoService(t)

	record, err := svc.Create(ctx, "original", []string{"a"}, "open", "body\n")
	require.NoError(t, err)

	t.Run("empty patch rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, record.ID, todo.Patch{})
		assert.Error(t, err)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		blank := " "
		_, err := svc.Update(ctx, record.ID, todo.Patch{Title: &blank})
		assert.Error(t, err)
	})

	t.Run("applies patch", func(t *testing.T) {
		status := "done"
		updated, err := svc.Update(ctx, record.ID, todo.Patch{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, "done", updated.Status)
		assert.Equal(t, "original", updated.Title)
	})
}

func TestTodoService_GetNormalizesID(t *testing.T) {
	ctx := context.Background()
	svc := newTestTodoService(t)

	record, err := svc.Create(ctx, "lookup target", nil, "", "")
	require.NoError(t, err)

	got, err := svc.Get(ctx, "#"+record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	_, err = svc.Get(ctx, "  ")
	assert.Error(t, err)
}

func TestTodoService_Search(t *testing.T) {
	ctx := context.Background()
	svc := newTestTodoService(t)

	_, err := svc.Create(ctx, "refactor parser", nil, "open", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "write docs", nil, "open", "")
	require.NoError(t, err)

	t.Run("empty query lists everything", func(t *testing.T) {
		records, err := svc.Search(ctx, "")
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("query filters", func(t *testing.T) {
		records, err := svc.Search(ctx, "parser")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "refactor parser", records[0].Title)
	})
}

func TestTodoService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newTestTodoService(t)

	record, err := svc.Create(ctx, "short lived", nil, "", "")
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, deleted.ID)

	_, err = svc.Get(ctx, record.ID)
	assert.ErrorIs(t, err, todo.ErrNotFound)
}
