package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/repository"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// ClientService manages customer records.
type ClientService struct {
	clients repository.ClientRepository
}

// NewClientService builds the service.
func NewClientService(clients repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

// ClientCreateInput describes client creation payload.
type ClientCreateInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

// ClientUpdateInput describes client update payload.
type ClientUpdateInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Company *string
}

// Create registers a customer. Email is unique across clients.
func (s *ClientService) Create(ctx context.Context, createdBy int64, input ClientCreateInput) (*domain.Client, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.clients.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already used", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	client := &domain.Client{
		Name:      input.Name,
		Email:     email,
		Phone:     input.Phone,
		Company:   input.Company,
		CreatedBy: createdBy,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Update applies partial changes.
func (s *ClientService) Update(ctx context.Context, id int64, input ClientUpdateInput) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != client.Email {
			if _, err := s.clients.GetByEmail(ctx, email); err == nil {
				return nil, apperrors.NewConflict("email already used", map[string]any{"email": email})
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
			client.Email = email
		}
	}
	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.Company != nil {
		client.Company = *input.Company
	}

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Get fetches one client.
func (s *ClientService) Get(ctx context.Context, id int64) (*domain.Client, error) {
	return s.clients.GetByID(ctx, id)
}

// List returns clients matching the filter.
func (s *ClientService) List(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	return s.clients.List(ctx, filter)
}

// Delete removes a client. Clients with invoices, projects or subscriptions
// cannot be deleted.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	if _, err := s.clients.GetByID(ctx, id); err != nil {
		return err
	}
	dependents, err := s.clients.CountDependents(ctx, id)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return apperrors.NewConflict("client has dependent records", map[string]any{"dependents": dependents})
	}
	return s.clients.Delete(ctx, id)
}
