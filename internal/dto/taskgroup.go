package dto

import "time"

// CreateTaskGroupRequest is the JSON body for POST /taskgroups.
type CreateTaskGroupRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50"`
	Icon  string `json:"icon" binding:"max=10"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// UpdateTaskGroupRequest is a partial patch; nil = leave unchanged.
type UpdateTaskGroupRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=50"`
	Icon  *string `json:"icon" binding:"omitempty,max=10"`
	Color *string `json:"color" binding:"omitempty,hexcolor"`
}

// TaskGroupResponse is a group with its aggregated counters.
type TaskGroupResponse struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Icon                 string    `json:"icon"`
	Color                string    `json:"color"`
	TaskCount            int64     `json:"task_count"`
	CompletionPercentage int       `json:"completion_percentage"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TaskGroupDetailResponse adds the group's directly-parented tasks.
type TaskGroupDetailResponse struct {
	TaskGroupResponse
	Tasks []TaskResponse `json:"tasks"`
}

type ListTaskGroupsResponse struct {
	Items []TaskGroupResponse `json:"items"`
}
