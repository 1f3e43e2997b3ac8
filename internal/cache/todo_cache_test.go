package cache

import (
	"context"
	"testing"
	"time"

	dom "todoassign/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*TodoCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTodoCache(rdb, time.Minute), mr
}

func TestTodoCacheList(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	list, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.Nil(t, list)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	want := []dom.Todo{{ID: "todo-1", Timestamp: ts, Title: "Buy milk"}}
	require.NoError(t, c.SetList(ctx, want))

	got, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	mr.FastForward(2 * time.Minute)
	got, err = c.GetList(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTodoCacheViewInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	view := dom.AssignedTodo{TodoID: "todo-1", Title: "Buy milk", AssignedToID: "user-1", AssignedToName: "Ada"}
	require.NoError(t, c.SetView(ctx, view))
	require.NoError(t, c.SetList(ctx, []dom.Todo{{ID: "todo-1"}}))

	got, err := c.GetView(ctx, "todo-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.AssignedToName)

	require.NoError(t, c.Invalidate(ctx, "todo-1"))

	got, err = c.GetView(ctx, "todo-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	list, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.Nil(t, list)
}
