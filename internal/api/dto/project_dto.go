package dto

import (
	"time"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// CreateProjectRequest payload for new projects.
type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description"`
	ClientID    int64      `json:"client_id" validate:"required,gt=0"`
	ManagerID   int64      `json:"manager_id" validate:"required,gt=0"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// UpdateProjectRequest payload for partial project updates.
type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ManagerID   *int64     `json:"manager_id" validate:"omitempty,gt=0"`
	Status      *string    `json:"status" validate:"omitempty,oneof=ACTIVE ON_HOLD COMPLETED CANCELLED"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// ProjectResponse project representation.
type ProjectResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	ClientID    int64                `json:"client_id"`
	ManagerID   int64                `json:"manager_id"`
	Status      domain.ProjectStatus `json:"status"`
	StartDate   *time.Time           `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// CreateTaskRequest payload for new tasks.
type CreateTaskRequest struct {
	Title      string     `json:"title" validate:"required"`
	AssigneeID *int64     `json:"assignee_id" validate:"omitempty,gt=0"`
	DueDate    *time.Time `json:"due_date"`
}

// UpdateTaskRequest payload for partial task updates.
type UpdateTaskRequest struct {
	Title      *string    `json:"title"`
	AssigneeID *int64     `json:"assignee_id" validate:"omitempty,gt=0"`
	Status     *string    `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS DONE"`
	DueDate    *time.Time `json:"due_date"`
}

// TaskResponse task representation.
type TaskResponse struct {
	ID         int64             `json:"id"`
	ProjectID  int64             `json:"project_id"`
	AssigneeID *int64            `json:"assignee_id"`
	Title      string            `json:"title"`
	Status     domain.TaskStatus `json:"status"`
	DueDate    *time.Time        `json:"due_date"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
