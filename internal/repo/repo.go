package repo

import (
	"context"
	"errors"

	dom "todoassign/internal/domain"
)

var (
	// ErrStaleStatus is returned by CompareAndSave when the stored status no
	// longer matches the one the caller read.
	ErrStaleStatus = errors.New("todo status changed since it was read")
	// ErrMissingRow is returned by TodoStatusRepo.Save when no todo row exists.
	ErrMissingRow = errors.New("todo row does not exist")
	// ErrDuplicateID is returned when an entity with the same id already exists.
	ErrDuplicateID = errors.New("duplicate id")
)

// TodoRepo persists Todo entities.
type TodoRepo interface {
	Save(ctx context.Context, t dom.Todo) error
	Lookup(ctx context.Context, id string) (dom.Todo, bool, error)
	List(ctx context.Context) ([]dom.Todo, error)
}

// UserRepo persists User entities.
type UserRepo interface {
	Save(ctx context.Context, u dom.User) error
	Lookup(ctx context.Context, id string) (dom.User, bool, error)
	List(ctx context.Context) ([]dom.User, error)
}

// TodoStatusRepo owns reads and writes of the lifecycle projection
// (assigned_to, is_done) of the todos table.
type TodoStatusRepo interface {
	Lookup(ctx context.Context, todoID string) (dom.TodoStatus, bool, error)
	// Save is last-write-wins.
	Save(ctx context.Context, s dom.TodoStatus) error
	// CompareAndSave writes next only if the stored status still equals prev.
	CompareAndSave(ctx context.Context, prev, next dom.TodoStatus) error
}

// AssignedTodoFinder joins a todo with its assignee.
type AssignedTodoFinder interface {
	FindAssigned(ctx context.Context, todoID string) (dom.AssignedTodo, bool, error)
}

// Repos bundles one backend's repositories.
type Repos struct {
	Todos    TodoRepo
	Users    UserRepo
	Statuses TodoStatusRepo
	Assigned AssignedTodoFinder
}
