package dto

import "time"

type CreateTodoRequest struct {
	Title string `json:"title" binding:"required,min=1,max=120"`
}

// TransitionRequest is the body of PUT /todo/assignee and PUT /todo/done.
type TransitionRequest struct {
	TodoID string `json:"todoId" binding:"required"`
	UserID string `json:"userId" binding:"required"`
}

type TodoResponse struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Title      string    `json:"title"`
	IsDone     bool      `json:"isDone"`
	AssignedTo *string   `json:"assignedTo"`
}

type AssignedTodoResponse struct {
	TodoID         string    `json:"todoId"`
	Timestamp      time.Time `json:"timestamp"`
	Title          string    `json:"title"`
	IsDone         bool      `json:"isDone"`
	AssignedToID   string    `json:"assignedToId"`
	AssignedToName string    `json:"assignedToName"`
}

// TodoStatusResponse is the tagged status. UserID is empty for TodoNotAssigned.
type TodoStatusResponse struct {
	Tag    string `json:"tag" example:"TodoAssigned"`
	ID     string `json:"id"`
	UserID string `json:"userId,omitempty"`
}

type CreateTodoResponse struct {
	Message string       `json:"message"`
	Todo    TodoResponse `json:"todo"`
}

type ListTodosResponse struct {
	Todos []TodoResponse `json:"todos"`
}

type GetTodoResponse struct {
	Todo AssignedTodoResponse `json:"todo"`
}

type TransitionResponse struct {
	Message    string             `json:"message"`
	TodoStatus TodoStatusResponse `json:"todoStatus"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictResponse is returned with 409 and names the status that blocked the change.
type ConflictResponse struct {
	Error  string             `json:"error"`
	Reason string             `json:"reason"`
	Status TodoStatusResponse `json:"status"`
}
