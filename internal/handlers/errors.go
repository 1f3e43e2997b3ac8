package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	dom "todoassign/internal/domain"
	"todoassign/internal/dto"
	"todoassign/internal/logfields"
	"todoassign/internal/service"

	"github.com/gin-gonic/gin"
)

// writeError maps a service error to its HTTP status and body.
func writeError(c *gin.Context, err error) {
	switch service.KindOf(err) {
	case service.KindInvalid:
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case service.KindNotFound:
		msg := "not found"
		switch {
		case errors.Is(err, service.ErrTodoNotFound):
			msg = "Todo not found"
		case errors.Is(err, service.ErrUserNotFound):
			msg = "User not found"
		}
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msg})
	case service.KindConflict:
		var ce *service.ConflictError
		if errors.As(err, &ce) {
			c.JSON(http.StatusConflict, dto.ConflictResponse{
				Error:  ce.Error(),
				Reason: string(ce.Reason),
				Status: statusToResponse(ce.Current),
			})
			return
		}
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()), logfields.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
}

func statusToResponse(s dom.TodoStatus) dto.TodoStatusResponse {
	userID, _ := dom.Assignee(s)
	return dto.TodoStatusResponse{Tag: s.Tag(), ID: s.TodoID(), UserID: userID}
}
