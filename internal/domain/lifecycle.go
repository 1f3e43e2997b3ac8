package domain

import (
	"errors"
	"fmt"
)

// ErrTransitionRejected is wrapped by every *TransitionError.
var ErrTransitionRejected = errors.New("todo transition rejected")

// Transition operation names.
const (
	OpAssign   = "assign"
	OpMarkDone = "mark_done"
)

// RejectReason says why a transition was refused.
type RejectReason string

const (
	ReasonAlreadyAssigned RejectReason = "already_assigned"
	ReasonAlreadyDone     RejectReason = "already_done"
	ReasonNotAssigned     RejectReason = "not_assigned"
	ReasonWrongAssignee   RejectReason = "wrong_assignee"
)

// TransitionError carries the status that caused a rejection.
type TransitionError struct {
	Op      string
	Reason  RejectReason
	Current TodoStatus
	Actor   string
}

func (e *TransitionError) Error() string {
	id := e.Current.TodoID()
	switch e.Reason {
	case ReasonAlreadyAssigned:
		owner, _ := Assignee(e.Current)
		return fmt.Sprintf("todo %s is already assigned to %s", id, owner)
	case ReasonAlreadyDone:
		owner, _ := Assignee(e.Current)
		return fmt.Sprintf("todo %s was already done by %s", id, owner)
	case ReasonNotAssigned:
		return fmt.Sprintf("todo %s is not assigned to anyone", id)
	case ReasonWrongAssignee:
		owner, _ := Assignee(e.Current)
		return fmt.Sprintf("todo %s is assigned to %s, not %s", id, owner, e.Actor)
	}
	return fmt.Sprintf("%s todo %s: rejected", e.Op, id)
}

func (e *TransitionError) Unwrap() error { return ErrTransitionRejected }

// Transition computes the next status for the given actor or rejects.
type Transition func(current TodoStatus, userID string) (TodoStatus, error)

// Assign moves an unassigned todo to Assigned. Assigned and Done todos are
// rejected for every user, including the current owner.
func Assign(current TodoStatus, userID string) (TodoStatus, error) {
	reject := func(reason RejectReason) error {
		return &TransitionError{Op: OpAssign, Reason: reason, Current: current, Actor: userID}
	}
	type result struct {
		next TodoStatus
		err  error
	}
	r := MatchStatus(current,
		func(s NotAssigned) result {
			return result{next: Assigned{ID: s.ID, UserID: userID}}
		},
		func(Assigned) result {
			return result{err: reject(ReasonAlreadyAssigned)}
		},
		func(Done) result {
			return result{err: reject(ReasonAlreadyDone)}
		},
	)
	return r.next, r.err
}

// MarkDone completes a todo. Only the assignee of an Assigned todo may do so.
func MarkDone(current TodoStatus, userID string) (TodoStatus, error) {
	reject := func(reason RejectReason) error {
		return &TransitionError{Op: OpMarkDone, Reason: reason, Current: current, Actor: userID}
	}
	type result struct {
		next TodoStatus
		err  error
	}
	r := MatchStatus(current,
		func(NotAssigned) result {
			return result{err: reject(ReasonNotAssigned)}
		},
		func(s Assigned) result {
			if s.UserID != userID {
				return result{err: reject(ReasonWrongAssignee)}
			}
			return result{next: Done{ID: s.ID, UserID: s.UserID}}
		},
		func(Done) result {
			return result{err: reject(ReasonAlreadyDone)}
		},
	)
	return r.next, r.err
}
