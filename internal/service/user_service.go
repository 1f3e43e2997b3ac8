package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	dom "todoassign/internal/domain"
	"todoassign/internal/ids"
	"todoassign/internal/metrics"
	"todoassign/internal/repo"
)

const (
	userIDPrefix = "user-"
	maxNameLen   = 120

	cmdCreateUser = "create_user"
)

// UserService handles user creation and lookup.
type UserService struct {
	repo repo.UserRepo
	ids  ids.IDGenerator
	rec  metrics.Recorder
}

// NewUserService returns a new UserService. A nil recorder disables metrics.
func NewUserService(repo repo.UserRepo, gen ids.IDGenerator, rec metrics.Recorder) *UserService {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &UserService{repo: repo, ids: gen, rec: rec}
}

// CreateUser stores a new user with a generated id.
func (s *UserService) CreateUser(ctx context.Context, name string) (dom.User, error) {
	start := time.Now()
	u, err := s.createUser(ctx, name)
	s.rec.ObserveCommand(cmdCreateUser, time.Since(start), outcomeOf(err))
	return u, err
}

func (s *UserService) createUser(ctx context.Context, name string) (dom.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dom.User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return dom.User{}, fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, maxNameLen)
	}
	u := dom.User{ID: userIDPrefix + s.ids.Generate(), Name: name}
	if err := s.repo.Save(ctx, u); err != nil {
		return dom.User{}, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

// GetUser returns the user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (dom.User, error) {
	u, ok, err := s.repo.Lookup(ctx, strings.TrimSpace(id))
	if err != nil {
		return dom.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !ok {
		return dom.User{}, ErrUserNotFound
	}
	return u, nil
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]dom.User, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}
