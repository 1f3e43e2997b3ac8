package repo

import (
	"context"
	"errors"
	"fmt"

	dom "todoassign/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStatusRepo implements TodoStatusRepo on the todos table.
type PGStatusRepo struct {
	db *pgxpool.Pool
}

func NewPGStatusRepo(db *pgxpool.Pool) *PGStatusRepo {
	return &PGStatusRepo{db: db}
}

func (r *PGStatusRepo) Lookup(ctx context.Context, todoID string) (dom.TodoStatus, bool, error) {
	var row dom.StatusRow
	err := r.db.QueryRow(ctx,
		`SELECT id, assigned_to, is_done FROM todos WHERE id = $1`, todoID,
	).Scan(&row.ID, &row.AssignedTo, &row.IsDone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return dom.StatusFromRow(row), true, nil
}

func (r *PGStatusRepo) Save(ctx context.Context, s dom.TodoStatus) error {
	row := dom.StatusToRow(s)
	tag, err := r.db.Exec(ctx,
		`UPDATE todos SET assigned_to = $2, is_done = $3 WHERE id = $1`,
		row.ID, row.AssignedTo, row.IsDone,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("todo %s: %w", row.ID, ErrMissingRow)
	}
	return nil
}

// CompareAndSave matches prev the way StatusFromRow reads a row: a NULL or
// blank assignee is NotAssigned whatever is_done holds.
func (r *PGStatusRepo) CompareAndSave(ctx context.Context, prev, next dom.TodoStatus) error {
	if prev.TodoID() != next.TodoID() {
		return fmt.Errorf("compare and save: id mismatch %s != %s", prev.TodoID(), next.TodoID())
	}
	row := dom.StatusToRow(next)
	query := `
		UPDATE todos SET assigned_to = $2, is_done = $3
		WHERE id = $1 AND `
	args := []any{row.ID, row.AssignedTo, row.IsDone, dom.AssigneeCutset}
	if userID, ok := dom.Assignee(prev); ok {
		query += `BTRIM(assigned_to, $4) = $5 AND is_done = $6`
		args = append(args, userID, dom.StatusToRow(prev).IsDone)
	} else {
		query += `COALESCE(BTRIM(assigned_to, $4), '') = ''`
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("todo %s: %w", row.ID, ErrStaleStatus)
	}
	return nil
}

// NewPGRepos wires the Postgres repositories on one pool.
func NewPGRepos(db *pgxpool.Pool) Repos {
	todos := NewPGTodoRepo(db)
	return Repos{
		Todos:    todos,
		Users:    NewPGUserRepo(db),
		Statuses: NewPGStatusRepo(db),
		Assigned: todos,
	}
}
