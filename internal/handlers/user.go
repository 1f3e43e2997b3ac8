package handlers

import (
	"net/http"

	dom "todoassign/internal/domain"
	"todoassign/internal/dto"
	"todoassign/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves /users.
type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create godoc
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateUserRequest  true  "User body"
// @Success      201   {object}  dto.CreateUserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.svc.CreateUser(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateUserResponse{Message: "User created", User: userToResponse(u)})
}

// List godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200  {object}  dto.ListUsersResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.UserResponse, len(list))
	for i := range list {
		out[i] = userToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListUsersResponse{Users: out})
}

// GetByID godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  dto.GetUserResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /users/{userId} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	u, err := h.svc.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetUserResponse{User: userToResponse(u)})
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Name: u.Name}
}
