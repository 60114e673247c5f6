package service

import (
	"context"
	"time"

	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/repository"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// ProjectService manages projects and their tasks.
type ProjectService struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	clients  repository.ClientRepository
	users    repository.UserRepository
}

// NewProjectService builds the service.
func NewProjectService(
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	clients repository.ClientRepository,
	users repository.UserRepository,
) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, clients: clients, users: users}
}

// ProjectCreateInput describes project creation payload.
type ProjectCreateInput struct {
	Name        string
	Description string
	ClientID    int64
	ManagerID   int64
	StartDate   *time.Time
	EndDate     *time.Time
}

// ProjectUpdateInput describes project update payload.
type ProjectUpdateInput struct {
	Name        *string
	Description *string
	ManagerID   *int64
	Status      *domain.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// TaskCreateInput describes task creation payload.
type TaskCreateInput struct {
	Title      string
	AssigneeID *int64
	DueDate    *time.Time
}

// TaskUpdateInput describes task update payload.
type TaskUpdateInput struct {
	Title      *string
	AssigneeID *int64
	Status     *domain.TaskStatus
	DueDate    *time.Time
}

// Create opens a project for a client under a manager.
func (s *ProjectService) Create(ctx context.Context, input ProjectCreateInput) (*domain.Project, error) {
	if _, err := s.clients.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}
	manager, err := s.users.GetByID(ctx, input.ManagerID)
	if err != nil {
		return nil, err
	}
	if !manager.Role.AtLeast(domain.RoleManager) {
		return nil, apperrors.NewValidationError("manager must hold the MANAGER role or above", map[string]any{"manager_id": input.ManagerID})
	}

	project := &domain.Project{
		Name:        input.Name,
		Description: input.Description,
		ClientID:    input.ClientID,
		ManagerID:   input.ManagerID,
		Status:      domain.ProjectStatusActive,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Update applies partial changes.
func (s *ProjectService) Update(ctx context.Context, id int64, input ProjectUpdateInput) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ManagerID != nil {
		manager, err := s.users.GetByID(ctx, *input.ManagerID)
		if err != nil {
			return nil, err
		}
		if !manager.Role.AtLeast(domain.RoleManager) {
			return nil, apperrors.NewValidationError("manager must hold the MANAGER role or above", map[string]any{"manager_id": *input.ManagerID})
		}
		project.ManagerID = *input.ManagerID
	}
	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Get fetches one project.
func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// List returns projects matching the filter.
func (s *ProjectService) List(ctx context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	return s.projects.List(ctx, filter)
}

// Delete removes a project and its tasks.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.projects.GetByID(ctx, id); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}

// CreateTask adds a task under a project. An assignee, if given, must be an
// active account.
func (s *ProjectService) CreateTask(ctx context.Context, projectID int64, input TaskCreateInput) (*domain.Task, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	if input.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &domain.Task{
		ProjectID:  projectID,
		AssigneeID: input.AssigneeID,
		Title:      input.Title,
		Status:     domain.TaskStatusPending,
		DueDate:    input.DueDate,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies partial changes to a task under the given project.
func (s *ProjectService) UpdateTask(ctx context.Context, projectID, taskID int64, input TaskUpdateInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.ProjectID != projectID {
		return nil, apperrors.NewNotFound("task", map[string]any{"id": taskID})
	}

	if input.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns every task under a project.
func (s *ProjectService) ListTasks(ctx context.Context, projectID int64) ([]domain.Task, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

// DeleteTask removes a task under the given project.
func (s *ProjectService) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.ProjectID != projectID {
		return apperrors.NewNotFound("task", map[string]any{"id": taskID})
	}
	return s.tasks.Delete(ctx, taskID)
}

func (s *ProjectService) checkAssignee(ctx context.Context, userID int64) error {
	assignee, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !assignee.Active {
		return apperrors.NewValidationError("assignee account is deactivated", map[string]any{"assignee_id": userID})
	}
	return nil
}
