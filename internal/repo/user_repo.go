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

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// Save inserts a new user.
func (r *PGUserRepo) Save(ctx context.Context, u dom.User) error {
	_, err := r.db.Exec(ctx, `INSERT INTO users (id, name) VALUES ($1, $2)`, u.ID, u.Name)
	if utils.IsPGUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", u.ID, ErrDuplicateID)
	}
	return err
}

// Lookup returns the user by id.
func (r *PGUserRepo) Lookup(ctx context.Context, id string) (dom.User, bool, error) {
	var u dom.User
	err := r.db.QueryRow(ctx, `SELECT id, name FROM users WHERE id = $1`, id).Scan(&u.ID, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, false, nil
	}
	if err != nil {
		return dom.User{}, false, err
	}
	return u, true, nil
}

// List returns all users ordered by id.
func (r *PGUserRepo) List(ctx context.Context) ([]dom.User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
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
