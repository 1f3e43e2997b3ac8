package domain

import "time"

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type Todo struct {
	ID         string
	Timestamp  time.Time
	Title      string
	IsDone     bool
	AssignedTo *string
}

// Status derives the lifecycle projection of the todo from its row fields.
func (t Todo) Status() TodoStatus {
	return StatusFromRow(StatusRow{ID: t.ID, AssignedTo: t.AssignedTo, IsDone: t.IsDone})
}

// AssignedTodo is the read model of a todo joined with its assignee.
type AssignedTodo struct {
	TodoID         string
	Timestamp      time.Time
	Title          string
	IsDone         bool
	AssignedToID   string
	AssignedToName string
}
