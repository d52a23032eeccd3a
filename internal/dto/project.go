package dto

import "time"

// CreateProjectRequest is the JSON body for POST /projects. A missing
// task_group_id makes the server provision a group for the project.
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Logo        string `json:"logo" binding:"omitempty,url"`
	TaskGroupID *int64 `json:"task_group_id" binding:"omitempty,gt=0"`
	StartDate   Date   `json:"start_date" binding:"required"`
	EndDate     Date   `json:"end_date" binding:"required"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
}

// UpdateProjectRequest is a partial patch; nil = leave unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Logo        *string `json:"logo" binding:"omitempty,url"`
	TaskGroupID *int64  `json:"task_group_id" binding:"omitempty,gt=0"`
	StartDate   *Date   `json:"start_date"`
	EndDate     *Date   `json:"end_date"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
}

// ProjectResponse is a project with its aggregated task count. The count
// covers tasks attached directly to the project and tasks in the project's
// own group.
type ProjectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Logo        string    `json:"logo"`
	TaskGroupID int64     `json:"task_group_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Color       string    `json:"color"`
	TaskCount   int64     `json:"task_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectDetailResponse adds the project's tasks.
type ProjectDetailResponse struct {
	ProjectResponse
	Tasks []TaskResponse `json:"tasks"`
}

type ListProjectsResponse struct {
	Items []ProjectResponse `json:"items"`
}
