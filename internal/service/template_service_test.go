package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/event-staffing-service/internal/repository"
)

func TestTemplateCurrentEmptyWithoutRevisions(t *testing.T) {
	store := newMemStore()
	svc := NewTemplateService(store, nil, zap.NewNop())

	content, err := svc.Current(context.Background(), "event-1")
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestTemplateAppendIsImmutableHistory(t *testing.T) {
	store := newMemStore()
	svc := NewTemplateService(store, nil, zap.NewNop())
	ctx := context.Background()

	appended, err := svc.AppendRevision(ctx, store, "event-1", "author", "first")
	require.NoError(t, err)
	assert.True(t, appended)
	appended, err = svc.AppendRevision(ctx, store, "event-1", "author", "second")
	require.NoError(t, err)
	assert.True(t, appended)

	content, err := svc.Current(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, "second", content)

	history, err := svc.History(ctx, "event-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", history[1].Content)
}

func TestTemplateAppendSkipsBlankContent(t *testing.T) {
	store := newMemStore()
	svc := NewTemplateService(store, nil, zap.NewNop())
	ctx := context.Background()

	appended, err := svc.AppendRevision(ctx, store, "event-1", "author", "")
	require.NoError(t, err)
	assert.False(t, appended)
	appended, err = svc.AppendRevision(ctx, store, "event-1", "author", "  \n ")
	require.NoError(t, err)
	assert.False(t, appended)

	history, err := svc.History(ctx, "event-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTemplateHistoryIsPerEvent(t *testing.T) {
	store := newMemStore()
	svc := NewTemplateService(store, nil, zap.NewNop())
	ctx := context.Background()

	mustAppend(t, svc, store, "event-1", "for one")
	mustAppend(t, svc, store, "event-2", "for two")

	content, err := svc.Current(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, "for one", content)

	content, err = svc.Current(ctx, "event-2")
	require.NoError(t, err)
	assert.Equal(t, "for two", content)
}

func TestTemplateCacheUntouchedWhileTransactionOpen(t *testing.T) {
	store := newMemStore()
	svc := newCachedTemplateService(t, store)
	ctx := context.Background()

	mustAppend(t, svc, store, "event-1", "first")
	content, err := svc.Current(ctx, "event-1")
	require.NoError(t, err)
	require.Equal(t, "first", content)

	err = store.RunInTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		appended, err := svc.AppendRevision(ctx, tx, "event-1", "author", "second")
		require.NoError(t, err)
		require.True(t, appended)

		// A reader racing the open transaction keeps getting the
		// committed content from cache.
		midTx, err := svc.Current(ctx, "event-1")
		require.NoError(t, err)
		assert.Equal(t, "first", midTx)
		return nil
	})
	require.NoError(t, err)

	svc.Invalidate(ctx, "event-1")
	content, err = svc.Current(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, "second", content)
}

func mustAppend(t *testing.T, svc *TemplateService, store *memStore, eventID, content string) {
	t.Helper()
	appended, err := svc.AppendRevision(context.Background(), store, eventID, "author", content)
	require.NoError(t, err)
	require.True(t, appended)
}

func newCachedTemplateService(t *testing.T, store *memStore) *TemplateService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTemplateService(store, client, zap.NewNop())
}
