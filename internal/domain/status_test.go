package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func allStatuses(id string) []TodoStatus {
	return []TodoStatus{
		NotAssigned{ID: id},
		Assigned{ID: id, UserID: "u1"},
		Done{ID: id, UserID: "u1"},
	}
}

func TestStatusRowRoundTrip(t *testing.T) {
	for _, s := range allStatuses("todo-1") {
		t.Run(s.Tag(), func(t *testing.T) {
			assert.Equal(t, s, StatusFromRow(StatusToRow(s)))
		})
	}
}

func TestStatusToRow(t *testing.T) {
	assert.Equal(t, StatusRow{ID: "t"}, StatusToRow(NotAssigned{ID: "t"}))
	assert.Equal(t, StatusRow{ID: "t", AssignedTo: strPtr("u1")}, StatusToRow(Assigned{ID: "t", UserID: "u1"}))
	assert.Equal(t, StatusRow{ID: "t", AssignedTo: strPtr("u1"), IsDone: true}, StatusToRow(Done{ID: "t", UserID: "u1"}))
}

func TestStatusFromRow(t *testing.T) {
	tests := []struct {
		name string
		row  StatusRow
		want TodoStatus
	}{
		{"no assignee", StatusRow{ID: "t"}, NotAssigned{ID: "t"}},
		{"blank assignee", StatusRow{ID: "t", AssignedTo: strPtr("  ")}, NotAssigned{ID: "t"}},
		{"no assignee but done flag", StatusRow{ID: "t", IsDone: true}, NotAssigned{ID: "t"}},
		{"tab and newline assignee", StatusRow{ID: "t", AssignedTo: strPtr("\t\r\n"), IsDone: true}, NotAssigned{ID: "t"}},
		{"assigned", StatusRow{ID: "t", AssignedTo: strPtr("u1")}, Assigned{ID: "t", UserID: "u1"}},
		{"padded assignee", StatusRow{ID: "t", AssignedTo: strPtr(" u1\t")}, Assigned{ID: "t", UserID: "u1"}},
		{"done", StatusRow{ID: "t", AssignedTo: strPtr("u1"), IsDone: true}, Done{ID: "t", UserID: "u1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromRow(tt.row))
		})
	}
}

func TestTodoStatus(t *testing.T) {
	todo := Todo{ID: "todo-1", Title: "Buy milk"}
	assert.Equal(t, NotAssigned{ID: "todo-1"}, todo.Status())

	todo.AssignedTo = strPtr("u1")
	assert.Equal(t, Assigned{ID: "todo-1", UserID: "u1"}, todo.Status())

	todo.IsDone = true
	assert.Equal(t, Done{ID: "todo-1", UserID: "u1"}, todo.Status())
}

func TestAssignee(t *testing.T) {
	_, ok := Assignee(NotAssigned{ID: "t"})
	assert.False(t, ok)

	id, ok := Assignee(Done{ID: "t", UserID: "u9"})
	require.True(t, ok)
	assert.Equal(t, "u9", id)
}

func TestAssign(t *testing.T) {
	next, err := Assign(NotAssigned{ID: "t"}, "u1")
	require.NoError(t, err)
	assert.Equal(t, Assigned{ID: "t", UserID: "u1"}, next)

	rejected := []struct {
		current TodoStatus
		reason  RejectReason
	}{
		{Assigned{ID: "t", UserID: "u1"}, ReasonAlreadyAssigned},
		{Done{ID: "t", UserID: "u1"}, ReasonAlreadyDone},
	}
	for _, r := range rejected {
		for _, user := range []string{"u1", "u2", ""} {
			next, err := Assign(r.current, user)
			assert.Nil(t, next)
			var te *TransitionError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, r.reason, te.Reason)
			assert.Equal(t, r.current, te.Current)
			assert.Equal(t, OpAssign, te.Op)
			assert.True(t, errors.Is(err, ErrTransitionRejected))
		}
	}
}

func TestMarkDone(t *testing.T) {
	assigned := Assigned{ID: "t", UserID: "u1"}

	next, err := MarkDone(assigned, "u1")
	require.NoError(t, err)
	assert.Equal(t, Done{ID: "t", UserID: "u1"}, next)

	_, err = MarkDone(assigned, "u2")
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ReasonWrongAssignee, te.Reason)
	assert.Equal(t, assigned, te.Current)
	assert.Equal(t, "u2", te.Actor)
	assert.Contains(t, err.Error(), "assigned to u1, not u2")

	for _, user := range []string{"u1", "u2"} {
		_, err := MarkDone(NotAssigned{ID: "t"}, user)
		require.ErrorAs(t, err, &te)
		assert.Equal(t, ReasonNotAssigned, te.Reason)

		_, err = MarkDone(Done{ID: "t", UserID: "u1"}, user)
		require.ErrorAs(t, err, &te)
		assert.Equal(t, ReasonAlreadyDone, te.Reason)
	}
}

func TestMarkDoneIsNotRepeatable(t *testing.T) {
	state := TodoStatus(Assigned{ID: "t", UserID: "u1"})

	next, err := MarkDone(state, "u1")
	require.NoError(t, err)
	state = next

	again, err := MarkDone(state, "u1")
	require.ErrorIs(t, err, ErrTransitionRejected)
	assert.Nil(t, again)
	assert.Equal(t, Done{ID: "t", UserID: "u1"}, state)
}

func TestMatchStatusPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() {
		MatchStatus(nil,
			func(NotAssigned) int { return 0 },
			func(Assigned) int { return 1 },
			func(Done) int { return 2 },
		)
	})
}
