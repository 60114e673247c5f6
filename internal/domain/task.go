package domain

import "time"

// TaskStatus represents lifecycle states for a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Task is a unit of work under a project, optionally assigned to a user.
type Task struct {
	ID         int64
	ProjectID  int64
	AssigneeID *int64
	Title      string
	Status     TaskStatus
	DueDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
