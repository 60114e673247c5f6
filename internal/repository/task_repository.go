package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// TaskRepository defines persistence access for project tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error)
	Delete(ctx context.Context, id int64) error
	HasAssigneeInProject(ctx context.Context, projectID, userID int64) (bool, error)
}

type taskRepository struct {
	db DB
}

// NewTaskRepository returns a Postgres-backed implementation.
func NewTaskRepository(db DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (project_id, assignee_id, title, status, due_date)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		task.ProjectID,
		task.AssigneeID,
		task.Title,
		task.Status,
		task.DueDate,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET assignee_id=$1, title=$2, status=$3, due_date=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.db.Exec(ctx, query,
		task.AssigneeID,
		task.Title,
		task.Status,
		task.DueDate,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	const query = `
        SELECT id, project_id, assignee_id, title, status, due_date, created_at, updated_at
        FROM tasks WHERE id=$1`

	var task domain.Task
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.ProjectID,
		&task.AssigneeID,
		&task.Title,
		&task.Status,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error) {
	const query = `
        SELECT id, project_id, assignee_id, title, status, due_date, created_at, updated_at
        FROM tasks WHERE project_id=$1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.ProjectID,
			&task.AssigneeID,
			&task.Title,
			&task.Status,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// HasAssigneeInProject reports whether the user is assigned to at least one
// task under the project.
func (r *taskRepository) HasAssigneeInProject(ctx context.Context, projectID, userID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM tasks WHERE project_id=$1 AND assignee_id=$2)`
	var assigned bool
	err := r.db.QueryRow(ctx, query, projectID, userID).Scan(&assigned)
	return assigned, err
}
