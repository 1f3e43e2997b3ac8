package repo

import (
	"context"
	"errors"
	"fmt"

	dom "todoassign/internal/domain"
	"todoassign/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Save(ctx context.Context, t dom.Todo) error {
	query := `
		INSERT INTO todos (id, timestamp, title, is_done, assigned_to)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query, t.ID, t.Timestamp, t.Title, t.IsDone, t.AssignedTo)
	if utils.IsPGUniqueViolation(err) {
		return fmt.Errorf("todo %s: %w", t.ID, ErrDuplicateID)
	}
	return err
}

func (r *PGTodoRepo) Lookup(ctx context.Context, id string) (dom.Todo, bool, error) {
	query := `
		SELECT id, timestamp, title, is_done, assigned_to
		FROM todos WHERE id = $1`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Timestamp, &t.Title, &t.IsDone, &t.AssignedTo)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, false, nil
	}
	if err != nil {
		return dom.Todo{}, false, err
	}
	return t, true, nil
}

func (r *PGTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	query := `
		SELECT id, timestamp, title, is_done, assigned_to
		FROM todos ORDER BY timestamp ASC, id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Todo{}
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.Title, &t.IsDone, &t.AssignedTo); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// FindAssigned returns the todo joined with its assignee's name. Todos with no
// assignee, or whose assignee row is gone, are not found.
func (r *PGTodoRepo) FindAssigned(ctx context.Context, todoID string) (dom.AssignedTodo, bool, error) {
	query := `
		SELECT t.id, t.timestamp, t.title, t.is_done, u.id, u.name
		FROM todos t
		JOIN users u ON u.id = BTRIM(t.assigned_to, $2)
		WHERE t.id = $1`
	var a dom.AssignedTodo
	err := r.db.QueryRow(ctx, query, todoID, dom.AssigneeCutset).Scan(
		&a.TodoID, &a.Timestamp, &a.Title, &a.IsDone, &a.AssignedToID, &a.AssignedToName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.AssignedTodo{}, false, nil
	}
	if err != nil {
		return dom.AssignedTodo{}, false, err
	}
	return a, true, nil
}
