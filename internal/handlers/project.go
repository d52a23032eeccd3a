package handlers

import (
	"net/http"
	"time"

	"github.com/yokanm/task-management-app/internal/auth"
	dom "github.com/yokanm/task-management-app/internal/domain"
	"github.com/yokanm/task-management-app/internal/dto"
	"github.com/yokanm/task-management-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ProjectHandler handles /projects.
type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// Create godoc
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateProjectRequest  true  "Project body"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  map[string]string
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), userID, service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
		TaskGroupID: req.TaskGroupID,
		StartDate:   req.StartDate.Value(),
		EndDate:     req.EndDate.Value(),
		Color:       req.Color,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projectToResponse(p, 0))
}

// List godoc
// @Summary      List projects with task counts
// @Tags         projects
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListProjectsResponse
// @Failure      500  {object}  map[string]string
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	views, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	items := make([]dto.ProjectResponse, 0, len(views))
	for _, v := range views {
		items = append(items, projectToResponse(v.Project, v.TaskCount))
	}
	c.JSON(http.StatusOK, dto.ListProjectsResponse{Items: items})
}

// GetByID godoc
// @Summary      Get a project with its tasks
// @Tags         projects
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  dto.ProjectDetailResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
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
	c.JSON(http.StatusOK, dto.ProjectDetailResponse{
		ProjectResponse: projectToResponse(detail.Project, detail.TaskCount),
		Tasks:           tasksToResponses(detail.Tasks),
	})
}

// Update godoc
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Project ID"
// @Param        body  body      dto.UpdateProjectRequest  true  "Partial update"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /projects/{id} [patch]
func (h *ProjectHandler) Update(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var start, end *time.Time
	if req.StartDate != nil {
		start = req.StartDate.Ptr()
	}
	if req.EndDate != nil {
		end = req.EndDate.Ptr()
	}
	p, err := h.svc.Update(c.Request.Context(), userID, id, service.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
		TaskGroupID: req.TaskGroupID,
		StartDate:   start,
		EndDate:     end,
		Color:       req.Color,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectToResponse(p, 0))
}

// Delete godoc
// @Summary      Delete a project
// @Tags         projects
// @Security     CookieAuth
// @Param        id   path  int  true  "Project ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
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

func projectToResponse(p dom.Project, taskCount int64) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Logo:        p.Logo,
		TaskGroupID: p.TaskGroupID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Color:       p.Color,
		TaskCount:   taskCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
