package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dom "todoassign/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList = "todo:list"
	keyView = "todo:view:"
)

// TodoCache caches the todo list and assigned-todo views in Redis.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// GetList returns cached list or nil if miss.
func (c *TodoCache) GetList(ctx context.Context) ([]dom.Todo, error) {
	var list []dom.Todo
	ok, err := c.get(ctx, keyList, &list)
	if err != nil || !ok {
		return nil, err
	}
	return list, nil
}

// SetList stores the list in cache.
func (c *TodoCache) SetList(ctx context.Context, list []dom.Todo) error {
	return c.set(ctx, keyList, list)
}

// GetView returns the cached assigned-todo view, or nil if miss.
func (c *TodoCache) GetView(ctx context.Context, todoID string) (*dom.AssignedTodo, error) {
	var view dom.AssignedTodo
	ok, err := c.get(ctx, keyView+todoID, &view)
	if err != nil || !ok {
		return nil, err
	}
	return &view, nil
}

// SetView stores an assigned-todo view.
func (c *TodoCache) SetView(ctx context.Context, view dom.AssignedTodo) error {
	return c.set(ctx, keyView+view.TodoID, view)
}

// Invalidate drops the list and the view of todoID (cache invalidation on write).
func (c *TodoCache) Invalidate(ctx context.Context, todoID string) error {
	keys := []string{keyList}
	if todoID != "" {
		keys = append(keys, keyView+todoID)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *TodoCache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *TodoCache) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
