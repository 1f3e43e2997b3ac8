package domain

// User is the domain entity for a todo assignee.
type User struct {
	ID   string
	Name string
}
