package handlers

import (
	"context"
	"net/http"

	dom "todoassign/internal/domain"
	"todoassign/internal/dto"
	"todoassign/internal/service"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.CreateTodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	t, err := h.svc.CreateTodo(c.Request.Context(), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateTodoResponse{Message: "Todo created", Todo: todoToResponse(t)})
}

// List godoc
// @Summary      List all todos
// @Tags         todos
// @Produce      json
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	list, err := h.svc.ListTodos(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Todos: todosToResponses(list)})
}

// GetByID godoc
// @Summary      Get an assigned todo with its assignee
// @Description  Todos that are not assigned, or whose assignee no longer exists, are reported as not found.
// @Tags         todos
// @Produce      json
// @Param        todoId  path      string  true  "Todo ID"
// @Success      200     {object}  dto.GetTodoResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /todos/{todoId} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	view, err := h.svc.GetTodoByID(c.Request.Context(), c.Param("todoId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetTodoResponse{Todo: assignedToResponse(view)})
}

// Assign godoc
// @Summary      Assign a todo to a user
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransitionRequest  true  "Todo and user"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ConflictResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todo/assignee [put]
func (h *TodoHandler) Assign(c *gin.Context) {
	h.transition(c, h.svc.AssignTodo, "Todo assigned to user")
}

// MarkDone godoc
// @Summary      Mark a todo as done by its assignee
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransitionRequest  true  "Todo and user"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ConflictResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todo/done [put]
func (h *TodoHandler) MarkDone(c *gin.Context) {
	h.transition(c, h.svc.MarkDoneTodo, "Todo marked as done")
}

func (h *TodoHandler) transition(
	c *gin.Context,
	run func(ctx context.Context, todoID, userID string) (dom.TodoStatus, error),
	message string,
) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, err := run(c.Request.Context(), req.TodoID, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TransitionResponse{Message: message, TodoStatus: statusToResponse(status)})
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:         t.ID,
		Timestamp:  t.Timestamp,
		Title:      t.Title,
		IsDone:     t.IsDone,
		AssignedTo: t.AssignedTo,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}

func assignedToResponse(v dom.AssignedTodo) dto.AssignedTodoResponse {
	return dto.AssignedTodoResponse{
		TodoID:         v.TodoID,
		Timestamp:      v.Timestamp,
		Title:          v.Title,
		IsDone:         v.IsDone,
		AssignedToID:   v.AssignedToID,
		AssignedToName: v.AssignedToName,
	}
}
