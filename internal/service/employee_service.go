package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/bizops-service/internal/auth"
	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/repository"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// EmployeeService manages staff profiles.
type EmployeeService struct {
	employees repository.EmployeeRepository
	users     repository.UserRepository
}

// NewEmployeeService builds the service.
func NewEmployeeService(employees repository.EmployeeRepository, users repository.UserRepository) *EmployeeService {
	return &EmployeeService{employees: employees, users: users}
}

// EmployeeCreateInput describes profile creation payload.
type EmployeeCreateInput struct {
	UserID   int64
	Position string
	Salary   decimal.Decimal
	HiredAt  time.Time
}

// EmployeeUpdateInput describes profile update payload.
type EmployeeUpdateInput struct {
	Position *string
	Salary   *decimal.Decimal
}

// Create attaches a staff profile to an existing active account.
func (s *EmployeeService) Create(ctx context.Context, input EmployeeCreateInput) (*domain.Employee, error) {
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.NewValidationError("account is deactivated", nil)
	}

	employee := &domain.Employee{
		UserID:   input.UserID,
		Position: input.Position,
		Salary:   input.Salary,
		HiredAt:  input.HiredAt,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// Update applies profile changes after checking the field policy.
func (s *EmployeeService) Update(ctx context.Context, actor auth.Identity, id int64, input EmployeeUpdateInput) (*domain.Employee, error) {
	var requested []string
	if input.Position != nil {
		requested = append(requested, "position")
	}
	if input.Salary != nil {
		requested = append(requested, "salary")
	}
	if err := auth.EmployeeFieldPolicy.Check(actor.Role, requested); err != nil {
		return nil, err
	}

	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Position != nil {
		employee.Position = *input.Position
	}
	if input.Salary != nil {
		employee.Salary = *input.Salary
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// Get fetches one profile.
func (s *EmployeeService) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

// List returns profiles.
func (s *EmployeeService) List(ctx context.Context, limit, offset int) ([]domain.Employee, error) {
	return s.employees.List(ctx, limit, offset)
}

// Delete removes a profile. The underlying account is untouched.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	return s.employees.Delete(ctx, id)
}
