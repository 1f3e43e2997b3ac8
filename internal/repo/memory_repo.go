package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	dom "todoassign/internal/domain"
)

// MemoryStore keeps todos and users in process memory. It backs the
// "memory" storage driver and the service tests.
type MemoryStore struct {
	mu    sync.RWMutex
	todos map[string]dom.Todo
	users map[string]dom.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		todos: make(map[string]dom.Todo),
		users: make(map[string]dom.User),
	}
}

// Repos exposes the store through the repository interfaces.
func (m *MemoryStore) Repos() Repos {
	return Repos{
		Todos:    memoryTodos{m},
		Users:    memoryUsers{m},
		Statuses: memoryStatuses{m},
		Assigned: memoryTodos{m},
	}
}

type memoryTodos struct{ m *MemoryStore }

func (r memoryTodos) Save(_ context.Context, t dom.Todo) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.todos[t.ID]; ok {
		return fmt.Errorf("todo %s: %w", t.ID, ErrDuplicateID)
	}
	t.AssignedTo = clonePtr(t.AssignedTo)
	r.m.todos[t.ID] = t
	return nil
}

func (r memoryTodos) Lookup(_ context.Context, id string) (dom.Todo, bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	t, ok := r.m.todos[id]
	t.AssignedTo = clonePtr(t.AssignedTo)
	return t, ok, nil
}

func (r memoryTodos) List(_ context.Context) ([]dom.Todo, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	list := make([]dom.Todo, 0, len(r.m.todos))
	for _, t := range r.m.todos {
		t.AssignedTo = clonePtr(t.AssignedTo)
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].Timestamp.Before(list[j].Timestamp)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r memoryTodos) FindAssigned(_ context.Context, todoID string) (dom.AssignedTodo, bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	t, ok := r.m.todos[todoID]
	if !ok {
		return dom.AssignedTodo{}, false, nil
	}
	userID, ok := dom.Assignee(t.Status())
	if !ok {
		return dom.AssignedTodo{}, false, nil
	}
	u, ok := r.m.users[userID]
	if !ok {
		return dom.AssignedTodo{}, false, nil
	}
	return dom.AssignedTodo{
		TodoID:         t.ID,
		Timestamp:      t.Timestamp,
		Title:          t.Title,
		IsDone:         t.IsDone,
		AssignedToID:   u.ID,
		AssignedToName: u.Name,
	}, true, nil
}

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) Save(_ context.Context, u dom.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[u.ID]; ok {
		return fmt.Errorf("user %s: %w", u.ID, ErrDuplicateID)
	}
	r.m.users[u.ID] = u
	return nil
}

func (r memoryUsers) Lookup(_ context.Context, id string) (dom.User, bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[id]
	return u, ok, nil
}

func (r memoryUsers) List(_ context.Context) ([]dom.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	list := make([]dom.User, 0, len(r.m.users))
	for _, u := range r.m.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

type memoryStatuses struct{ m *MemoryStore }

func (r memoryStatuses) Lookup(_ context.Context, todoID string) (dom.TodoStatus, bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	t, ok := r.m.todos[todoID]
	if !ok {
		return nil, false, nil
	}
	return t.Status(), true, nil
}

func (r memoryStatuses) Save(_ context.Context, s dom.TodoStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.apply(dom.StatusToRow(s))
}

func (r memoryStatuses) CompareAndSave(_ context.Context, prev, next dom.TodoStatus) error {
	if prev.TodoID() != next.TodoID() {
		return fmt.Errorf("compare and save: id mismatch %s != %s", prev.TodoID(), next.TodoID())
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.todos[prev.TodoID()]
	if !ok || !sameRow(dom.StatusToRow(t.Status()), dom.StatusToRow(prev)) {
		return fmt.Errorf("todo %s: %w", prev.TodoID(), ErrStaleStatus)
	}
	return r.m.apply(dom.StatusToRow(next))
}

// apply writes the row fields; the caller holds the write lock.
func (m *MemoryStore) apply(row dom.StatusRow) error {
	t, ok := m.todos[row.ID]
	if !ok {
		return fmt.Errorf("todo %s: %w", row.ID, ErrMissingRow)
	}
	t.AssignedTo = clonePtr(row.AssignedTo)
	t.IsDone = row.IsDone
	m.todos[row.ID] = t
	return nil
}

func sameRow(a, b dom.StatusRow) bool {
	if a.ID != b.ID || a.IsDone != b.IsDone {
		return false
	}
	if a.AssignedTo == nil || b.AssignedTo == nil {
		return a.AssignedTo == nil && b.AssignedTo == nil
	}
	return *a.AssignedTo == *b.AssignedTo
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
