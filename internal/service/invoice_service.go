package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/events"
	"github.com/spec-kit/bizops-service/internal/repository"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// InvoiceTxRunner runs invoice writes inside one transaction.
type InvoiceTxRunner interface {
	InvoiceTx(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error
}

// InvoiceService manages billing documents.
type InvoiceService struct {
	invoices   repository.InvoiceRepository
	clients    repository.ClientRepository
	allocator  *SequenceAllocator
	tx         InvoiceTxRunner
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewInvoiceService builds the service.
func NewInvoiceService(
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	allocator *SequenceAllocator,
	tx InvoiceTxRunner,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:   invoices,
		clients:    clients,
		allocator:  allocator,
		tx:         tx,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// InvoiceItemInput is one billed line in the creation payload.
type InvoiceItemInput struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// InvoiceCreateInput describes invoice creation payload.
type InvoiceCreateInput struct {
	ClientID  int64
	ProjectID *int64
	IssueDate time.Time
	DueDate   *time.Time
	Items     []InvoiceItemInput
}

// validStatusTransitions maps each status to the states it may move to.
var validStatusTransitions = map[domain.InvoiceStatus][]domain.InvoiceStatus{
	domain.InvoiceStatusDraft:  {domain.InvoiceStatusIssued, domain.InvoiceStatusVoid},
	domain.InvoiceStatusIssued: {domain.InvoiceStatusPaid, domain.InvoiceStatusVoid},
	domain.InvoiceStatusPaid:   {},
	domain.InvoiceStatusVoid:   {},
}

// Create allocates the next invoice number for the issue year and writes the
// header and all items in one transaction.
func (s *InvoiceService) Create(ctx context.Context, createdBy int64, input InvoiceCreateInput) (*domain.Invoice, error) {
	if _, err := s.clients.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, apperrors.NewValidationError("invoice needs at least one item", nil)
	}

	number, err := s.allocator.NextInvoiceNumber(ctx, input.IssueDate.Year())
	if err != nil {
		return nil, err
	}
	if _, err := s.invoices.GetByNumber(ctx, number); err == nil {
		return nil, apperrors.NewConflict("invoice number already allocated", map[string]any{"number": number})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	total := decimal.Zero
	items := make([]domain.InvoiceItem, 0, len(input.Items))
	for _, in := range input.Items {
		amount := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		items = append(items, domain.InvoiceItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Amount:      amount,
		})
		total = total.Add(amount)
	}

	invoice := &domain.Invoice{
		Number:    number,
		ClientID:  input.ClientID,
		ProjectID: input.ProjectID,
		CreatedBy: createdBy,
		Status:    domain.InvoiceStatusDraft,
		IssueDate: input.IssueDate,
		DueDate:   input.DueDate,
		Total:     total,
	}

	err = s.tx.InvoiceTx(ctx, func(invoices repository.InvoiceRepository) error {
		if err := invoices.Create(ctx, invoice); err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
			if err := invoices.CreateItem(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	invoice.Items = items

	if err := s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventInvoiceCreated,
		ActorID:   createdBy,
		Timestamp: time.Now(),
		Payload: events.InvoiceCreatedPayload{
			InvoiceID: invoice.ID,
			Number:    invoice.Number,
			ClientID:  invoice.ClientID,
			Total:     invoice.Total,
		},
	}); err != nil {
		s.logger.Warn("failed to publish invoice_created event", zap.Error(err))
	}

	return invoice, nil
}

// UpdateStatus moves an invoice along its lifecycle. Only forward transitions
// are accepted; PAID and VOID are terminal.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range validStatusTransitions[invoice.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"from": invoice.Status,
			"to":   status,
		})
	}

	if err := s.invoices.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	invoice.Status = status
	return invoice, nil
}

// Get fetches one invoice with its items.
func (s *InvoiceService) Get(ctx context.Context, id int64) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.invoices.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return invoice, nil
}

// List returns invoices matching the filter.
func (s *InvoiceService) List(ctx context.Context, filter repository.InvoiceFilter) ([]domain.Invoice, error) {
	return s.invoices.List(ctx, filter)
}
