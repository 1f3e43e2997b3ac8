package domain

import (
	"fmt"
	"strings"
)

// Status tags, kept compatible with the tags clients already see on the wire.
const (
	TagNotAssigned = "TodoNotAssigned"
	TagAssigned    = "TodoAssigned"
	TagDone        = "TodoDone"
)

// TodoStatus is the assignment/completion projection of a todo.
// It is sealed: NotAssigned, Assigned and Done are the only implementations.
type TodoStatus interface {
	TodoID() string
	Tag() string
	isTodoStatus()
}

type NotAssigned struct {
	ID string
}

type Assigned struct {
	ID     string
	UserID string
}

type Done struct {
	ID     string
	UserID string
}

func (s NotAssigned) TodoID() string { return s.ID }
func (s Assigned) TodoID() string { return s.ID }
func (s Done) TodoID() string { return s.ID }

func (NotAssigned) Tag() string { return TagNotAssigned }
func (Assigned) Tag() string { return TagAssigned }
func (Done) Tag() string { return TagDone }

func (NotAssigned) isTodoStatus() {}
func (Assigned) isTodoStatus() {}
func (Done) isTodoStatus() {}

// MatchStatus dispatches on the status variant. Every branch is required, so a
// new variant changes this signature and every caller with it.
func MatchStatus[T any](s TodoStatus, notAssigned func(NotAssigned) T, assigned func(Assigned) T, done func(Done) T) T {
	switch v := s.(type) {
	case NotAssigned:
		return notAssigned(v)
	case Assigned:
		return assigned(v)
	case Done:
		return done(v)
	}
	panic(fmt.Sprintf("domain: unknown todo status %T", s))
}

// Assignee returns the user a todo is (or was, when done) assigned to.
func Assignee(s TodoStatus) (string, bool) {
	type result struct {
		id string
		ok bool
	}
	r := MatchStatus(s,
		func(NotAssigned) result { return result{} },
		func(a Assigned) result { return result{a.UserID, true} },
		func(d Done) result { return result{d.UserID, true} },
	)
	return r.id, r.ok
}

// StatusRow is the persisted shape of a status: the id, assigned_to and
// is_done columns of the todos table.
type StatusRow struct {
	ID         string
	AssignedTo *string
	IsDone     bool
}

// StatusToRow maps a status onto its row fields. It is the exact inverse of
// StatusFromRow.
func StatusToRow(s TodoStatus) StatusRow {
	return MatchStatus(s,
		func(v NotAssigned) StatusRow {
			return StatusRow{ID: v.ID, AssignedTo: nil, IsDone: false}
		},
		func(v Assigned) StatusRow {
			uid := v.UserID
			return StatusRow{ID: v.ID, AssignedTo: &uid, IsDone: false}
		},
		func(v Done) StatusRow {
			uid := v.UserID
			return StatusRow{ID: v.ID, AssignedTo: &uid, IsDone: true}
		},
	)
}

// StatusFromRow derives the status from row fields. A missing or blank
// assignee is NotAssigned regardless of is_done.
func StatusFromRow(r StatusRow) TodoStatus {
	assignee := normalizeAssignee(r.AssignedTo)
	switch {
	case assignee == nil:
		return NotAssigned{ID: r.ID}
	case !r.IsDone:
		return Assigned{ID: r.ID, UserID: *assignee}
	default:
		return Done{ID: r.ID, UserID: *assignee}
	}
}

// AssigneeCutset is trimmed from both ends of a stored assignee before it is
// interpreted. SQL backends pass it to TRIM so their predicates see the same
// value StatusFromRow does.
const AssigneeCutset = " \t\r\n"

func normalizeAssignee(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.Trim(*p, AssigneeCutset)
	if v == "" {
		return nil
	}
	return &v
}
