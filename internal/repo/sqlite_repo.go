package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	dom "todoassign/internal/domain"
	"todoassign/internal/utils"
	"todoassign/migrations"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// OpenSQLite opens (creating if needed) the SQLite database at path and
// applies migrations.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	if err := migrations.Up(ctx, db, goose.DialectSQLite3); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewSQLiteRepos wires the SQLite repositories on one database handle.
func NewSQLiteRepos(db *sql.DB) Repos {
	todos := &SQLiteTodoRepo{db: db}
	return Repos{
		Todos:    todos,
		Users:    &SQLiteUserRepo{db: db},
		Statuses: &SQLiteStatusRepo{db: db},
		Assigned: todos,
	}
}

// Timestamps are stored as unix nanoseconds.
func toUnix(t time.Time) int64 { return t.UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }

type SQLiteTodoRepo struct {
	db *sql.DB
}

func (r *SQLiteTodoRepo) Save(ctx context.Context, t dom.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, timestamp, title, is_done, assigned_to) VALUES (?, ?, ?, ?, ?)`,
		t.ID, toUnix(t.Timestamp), t.Title, t.IsDone, t.AssignedTo,
	)
	if utils.IsSQLiteUniqueViolation(err) {
		return fmt.Errorf("todo %s: %w", t.ID, ErrDuplicateID)
	}
	return err
}

func (r *SQLiteTodoRepo) Lookup(ctx context.Context, id string) (dom.Todo, bool, error) {
	var (
		t  dom.Todo
		ts int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, timestamp, title, is_done, assigned_to FROM todos WHERE id = ?`, id,
	).Scan(&t.ID, &ts, &t.Title, &t.IsDone, &t.AssignedTo)
	if errors.Is(err, sql.ErrNoRows) {
		return dom.Todo{}, false, nil
	}
	if err != nil {
		return dom.Todo{}, false, err
	}
	t.Timestamp = fromUnix(ts)
	return t, true, nil
}

func (r *SQLiteTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, title, is_done, assigned_to FROM todos ORDER BY timestamp ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	list := []dom.Todo{}
	for rows.Next() {
		var (
			t  dom.Todo
			ts int64
		)
		if err := rows.Scan(&t.ID, &ts, &t.Title, &t.IsDone, &t.AssignedTo); err != nil {
			return nil, err
		}
		t.Timestamp = fromUnix(ts)
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *SQLiteTodoRepo) FindAssigned(ctx context.Context, todoID string) (dom.AssignedTodo, bool, error) {
	var (
		a  dom.AssignedTodo
		ts int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT t.id, t.timestamp, t.title, t.is_done, u.id, u.name
		FROM todos t
		JOIN users u ON u.id = TRIM(t.assigned_to, ?)
		WHERE t.id = ?`, dom.AssigneeCutset, todoID,
	).Scan(&a.TodoID, &ts, &a.Title, &a.IsDone, &a.AssignedToID, &a.AssignedToName)
	if errors.Is(err, sql.ErrNoRows) {
		return dom.AssignedTodo{}, false, nil
	}
	if err != nil {
		return dom.AssignedTodo{}, false, err
	}
	a.Timestamp = fromUnix(ts)
	return a, true, nil
}

type SQLiteUserRepo struct {
	db *sql.DB
}

func (r *SQLiteUserRepo) Save(ctx context.Context, u dom.User) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, name) VALUES (?, ?)`, u.ID, u.Name)
	if utils.IsSQLiteUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", u.ID, ErrDuplicateID)
	}
	return err
}

func (r *SQLiteUserRepo) Lookup(ctx context.Context, id string) (dom.User, bool, error) {
	var u dom.User
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM users WHERE id = ?`, id).Scan(&u.ID, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return dom.User{}, false, nil
	}
	if err != nil {
		return dom.User{}, false, err
	}
	return u, true, nil
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]dom.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	list := []dom.User{}
	for rows.Next() {
		var u dom.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

type SQLiteStatusRepo struct {
	db *sql.DB
}

func (r *SQLiteStatusRepo) Lookup(ctx context.Context, todoID string) (dom.TodoStatus, bool, error) {
	var row dom.StatusRow
	err := r.db.QueryRowContext(ctx,
		`SELECT id, assigned_to, is_done FROM todos WHERE id = ?`, todoID,
	).Scan(&row.ID, &row.AssignedTo, &row.IsDone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return dom.StatusFromRow(row), true, nil
}

func (r *SQLiteStatusRepo) Save(ctx context.Context, s dom.TodoStatus) error {
	row := dom.StatusToRow(s)
	res, err := r.db.ExecContext(ctx,
		`UPDATE todos SET assigned_to = ?, is_done = ? WHERE id = ?`,
		row.AssignedTo, row.IsDone, row.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res, row.ID, ErrMissingRow)
}

// CompareAndSave matches prev the way StatusFromRow reads a row: a NULL or
// blank assignee is NotAssigned whatever is_done holds.
func (r *SQLiteStatusRepo) CompareAndSave(ctx context.Context, prev, next dom.TodoStatus) error {
	if prev.TodoID() != next.TodoID() {
		return fmt.Errorf("compare and save: id mismatch %s != %s", prev.TodoID(), next.TodoID())
	}
	row := dom.StatusToRow(next)
	query := `
		UPDATE todos SET assigned_to = ?, is_done = ?
		WHERE id = ? AND `
	args := []any{row.AssignedTo, row.IsDone, row.ID, dom.AssigneeCutset}
	if userID, ok := dom.Assignee(prev); ok {
		query += `TRIM(assigned_to, ?) = ? AND is_done = ?`
		args = append(args, userID, dom.StatusToRow(prev).IsDone)
	} else {
		query += `COALESCE(TRIM(assigned_to, ?), '') = ''`
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return checkAffected(res, row.ID, ErrStaleStatus)
}

func checkAffected(res sql.Result, id string, sentinel error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("todo %s: %w", id, sentinel)
	}
	return nil
}
