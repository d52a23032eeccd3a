package domain

import "time"

// Defaults applied when a client (or the project auto-provisioner) omits them.
const (
	DefaultThemeColor = "#6C5DD3"
	DefaultGroupName  = "Default Group"
	DefaultGroupIcon  = "📁"
)

// TaskGroup is a logical bucket of projects and/or tasks.
// Created explicitly by the user, or implicitly when a project is created
// without a group.
type TaskGroup struct {
	ID      int64
	OwnerID int64
	Name    string
	Icon    string
	Color   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
