package handlers

import (
	"net/http"

	"github.com/yokanm/task-management-app/internal/auth"
	dom "github.com/yokanm/task-management-app/internal/domain"
	"github.com/yokanm/task-management-app/internal/dto"
	"github.com/yokanm/task-management-app/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskGroupHandler handles /taskgroups.
type TaskGroupHandler struct {
	svc *service.TaskGroupService
}

func NewTaskGroupHandler(svc *service.TaskGroupService) *TaskGroupHandler {
	return &TaskGroupHandler{svc: svc}
}

// Create godoc
// @Summary      Create a task group
// @Tags         taskgroups
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTaskGroupRequest  true  "Task group body"
// @Success      201   {object}  dto.TaskGroupResponse
// @Failure      400   {object}  map[string]string
// @Router       /taskgroups [post]
func (h *TaskGroupHandler) Create(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	var req dto.CreateTaskGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.svc.Create(c.Request.Context(), userID, service.CreateTaskGroupInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, groupToResponse(g, 0, 0))
}

// List godoc
// @Summary      List task groups with task counts
// @Tags         taskgroups
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListTaskGroupsResponse
// @Failure      500  {object}  map[string]string
// @Router       /taskgroups [get]
func (h *TaskGroupHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	views, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	items := make([]dto.TaskGroupResponse, 0, len(views))
	for _, v := range views {
		items = append(items, groupToResponse(v.TaskGroup, v.TaskCount, v.CompletionPercentage))
	}
	c.JSON(http.StatusOK, dto.ListTaskGroupsResponse{Items: items})
}

// GetByID godoc
// @Summary      Get a task group with its tasks
// @Tags         taskgroups
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Task group ID"
// @Success      200  {object}  dto.TaskGroupDetailResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /taskgroups/{id} [get]
func (h *TaskGroupHandler) GetByID(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskGroupDetailResponse{
		TaskGroupResponse: groupToResponse(detail.TaskGroup, detail.TaskCount, detail.CompletionPercentage),
		Tasks:             tasksToResponses(detail.Tasks),
	})
}

// Update godoc
// @Summary      Update a task group
// @Tags         taskgroups
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Task group ID"
// @Param        body  body      dto.UpdateTaskGroupRequest  true  "Partial update"
// @Success      200   {object}  dto.TaskGroupResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /taskgroups/{id} [patch]
func (h *TaskGroupHandler) Update(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.svc.Update(c.Request.Context(), userID, id, service.UpdateTaskGroupInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, groupToResponse(g, 0, 0))
}

// Delete godoc
// @Summary      Delete a task group
// @Tags         taskgroups
// @Security     CookieAuth
// @Param        id   path  int  true  "Task group ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /taskgroups/{id} [delete]
func (h *TaskGroupHandler) Delete(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func groupToResponse(g dom.TaskGroup, taskCount int64, pct int) dto.TaskGroupResponse {
	return dto.TaskGroupResponse{
		ID:                   g.ID,
		Name:                 g.Name,
		Icon:                 g.Icon,
		Color:                g.Color,
		TaskCount:            taskCount,
		CompletionPercentage: pct,
		CreatedAt:            g.CreatedAt,
		UpdatedAt:            g.UpdatedAt,
	}
}
