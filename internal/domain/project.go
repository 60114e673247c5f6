package domain

import "time"

// ProjectStatus represents lifecycle states for a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusOnHold    ProjectStatus = "ON_HOLD"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusCancelled ProjectStatus = "CANCELLED"
)

// Project groups work done for a client under a manager.
type Project struct {
	ID          int64
	Name        string
	Description string
	ClientID    int64
	ManagerID   int64
	Status      ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
