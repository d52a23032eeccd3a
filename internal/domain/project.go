package domain

import "time"

// Project always references an existing TaskGroup owned by the same user.
// StartDate < EndDate holds for every persisted project.
type Project struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	Logo        string
	TaskGroupID int64
	StartDate   time.Time
	EndDate     time.Time
	Color       string

	CreatedAt time.Time
	UpdatedAt time.Time
}
