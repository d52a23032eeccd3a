package handlers

import (
	"errors"
	"net/http"
	"strconv"

	dom "github.com/yokanm/task-management-app/internal/domain"
	"github.com/yokanm/task-management-app/internal/dto"
	"github.com/yokanm/task-management-app/internal/service"

	"github.com/gin-gonic/gin"
)

// parseID reads a positive int64 path param or writes a 400.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id format"})
		return 0, false
	}
	return id, true
}

// respondServiceError maps the service failure taxonomy to HTTP. Not-found
// (which also covers foreign ownership) and store failures get generic
// messages; validation and conflict failures carry their reason.
func respondServiceError(c *gin.Context, err error) {
	var ve *service.ValidationError
	var ce *service.ConflictError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, gin.H{"error": ce.Reason})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		DueTime:     t.DueTime,
		Parent:      dto.ParentResponse{ID: t.Parent.ID, Type: string(t.Parent.Kind)},
		Tags:        t.Tags,
		IsCompleted: t.IsCompleted,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, taskToResponse(t))
	}
	return out
}
