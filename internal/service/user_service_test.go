package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	dom "todoassign/internal/domain"
	"todoassign/internal/ids"
	"todoassign/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	svc := NewUserService(repo.NewMemoryStore().Repos().Users, &ids.Sequence{}, nil)
	ctx := context.Background()

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	ada, err := svc.CreateUser(ctx, " Ada ")
	require.NoError(t, err)
	assert.Equal(t, dom.User{ID: "user-1", Name: "Ada"}, ada)

	got, err := svc.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, ada, got)

	_, err = svc.GetUser(ctx, "user-404")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.CreateUser(ctx, "Linus")
	require.NoError(t, err)
	users, err = svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestCreateUserRejectsBlankName(t *testing.T) {
	svc := NewUserService(repo.NewMemoryStore().Repos().Users, &ids.Sequence{}, nil)
	_, err := svc.CreateUser(context.Background(), "\t")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestKindOf(t *testing.T) {
	conflict := newConflict(dom.OpAssign, &dom.TransitionError{
		Op:      dom.OpAssign,
		Reason:  dom.ReasonAlreadyAssigned,
		Current: dom.Assigned{ID: "todo-1", UserID: "u1"},
		Actor:   "u2",
	})

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"invalid", fmt.Errorf("%w: title", ErrInvalidInput), KindInvalid},
		{"todo not found", ErrTodoNotFound, KindNotFound},
		{"wrapped user not found", fmt.Errorf("assign: %w", ErrUserNotFound), KindNotFound},
		{"conflict", conflict, KindConflict},
		{"wrapped conflict", fmt.Errorf("x: %w", conflict), KindConflict},
		{"infrastructure", errors.New("connection reset"), KindInfrastructure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
	assert.Equal(t, "conflict", KindConflict.String())
	assert.ErrorIs(t, conflict, dom.ErrTransitionRejected)
}
