package domain

import "time"

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
//
// IsCompleted and CompletedAt are derived from Status by the task manager:
// IsCompleted == (Status == Completed), CompletedAt set iff IsCompleted.
type Task struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	DueTime     string // "HH:MM", empty when unset
	Parent      ParentRef
	Tags        []string
	IsCompleted bool
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status is the task workflow state.
type Status string

const (
	StatusToDo       Status = "To do"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority is the task priority level.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParentKind tags which entity a ParentRef points at.
type ParentKind string

const (
	ParentProject   ParentKind = "Project"
	ParentTaskGroup ParentKind = "TaskGroup"
)

// ParentRef is the single project or task group a task is attached to.
// The tagged pair replaces the store's loose (id, typeString) columns so
// every consumer has to switch on the kind.
type ParentRef struct {
	Kind ParentKind
	ID   int64
}

// ProjectParent returns a reference to a project parent.
func ProjectParent(id int64) ParentRef {
	return ParentRef{Kind: ParentProject, ID: id}
}

// TaskGroupParent returns a reference to a task group parent.
func TaskGroupParent(id int64) ParentRef {
	return ParentRef{Kind: ParentTaskGroup, ID: id}
}

func (p ParentRef) Valid() bool {
	if p.ID <= 0 {
		return false
	}
	return p.Kind == ParentProject || p.Kind == ParentTaskGroup
}
