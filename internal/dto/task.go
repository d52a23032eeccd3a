package dto

import (
	"time"

	dom "github.com/yokanm/task-management-app/internal/domain"
)

// ParentRequest is the polymorphic parent reference in task bodies. Type
// defaults to Project when omitted — a group ID sent without a type is
// treated as a project reference, matching the documented store behavior.
type ParentRequest struct {
	ID   int64  `json:"id" binding:"required,gt=0"`
	Type string `json:"type" binding:"omitempty,oneof=Project TaskGroup"`
}

// Ref converts to the domain reference, applying the Project default.
func (p ParentRequest) Ref() dom.ParentRef {
	kind := dom.ParentKind(p.Type)
	if kind == "" {
		kind = dom.ParentProject
	}
	return dom.ParentRef{Kind: kind, ID: p.ID}
}

// ParentResponse mirrors ParentRequest on the way out.
type ParentResponse struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// CreateTaskRequest is the JSON body for POST /tasks.
type CreateTaskRequest struct {
	Title       string        `json:"title" binding:"required,min=1,max=200"`
	Description string        `json:"description" binding:"max=1000"`
	Status      string        `json:"status" binding:"omitempty,oneof='To do' 'In Progress' 'Completed'"`
	Priority    string        `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	DueDate     Date          `json:"due_date"`
	DueTime     string        `json:"due_time"`
	Parent      ParentRequest `json:"parent" binding:"required"`
	Tags        []string      `json:"tags" binding:"max=10,dive,min=1"`
}

// UpdateTaskRequest is a partial patch; nil = leave unchanged. is_completed
// and completed_at are honored only when status is absent from the patch;
// a status change derives them server-side.
type UpdateTaskRequest struct {
	Title       *string        `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string        `json:"description" binding:"omitempty,max=1000"`
	Status      *string        `json:"status" binding:"omitempty,oneof='To do' 'In Progress' 'Completed'"`
	Priority    *string        `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	DueDate     *Date          `json:"due_date"`
	DueTime     *string        `json:"due_time"`
	Parent      *ParentRequest `json:"parent"`
	Tags        []string       `json:"tags" binding:"omitempty,max=10,dive,min=1"`
	IsCompleted *bool          `json:"is_completed"`
	CompletedAt *Date          `json:"completed_at"`
}

type TaskResponse struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	DueDate     *time.Time     `json:"due_date"`
	DueTime     string         `json:"due_time"`
	Parent      ParentResponse `json:"parent"`
	Tags        []string       `json:"tags"`
	IsCompleted bool           `json:"is_completed"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}

// TaskStatsResponse is the per-user stats payload.
type TaskStatsResponse struct {
	Total                int64 `json:"total"`
	Completed            int64 `json:"completed"`
	InProgress           int64 `json:"in_progress"`
	Todo                 int64 `json:"todo"`
	CompletionPercentage int   `json:"completion_percentage"`
}
