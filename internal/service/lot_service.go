package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/events"
	"github.com/spec-kit/bizops-service/internal/repository"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// LotTxRunner runs lot receipt writes inside one transaction.
type LotTxRunner interface {
	LotTx(ctx context.Context, fn func(
		lots repository.LotRepository,
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error) error
}

// LotService manages stock receipts from suppliers.
type LotService struct {
	lots       repository.LotRepository
	products   repository.ProductRepository
	suppliers  repository.SupplierRepository
	allocator  *SequenceAllocator
	tx         LotTxRunner
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewLotService builds the service.
func NewLotService(
	lots repository.LotRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	allocator *SequenceAllocator,
	tx LotTxRunner,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *LotService {
	return &LotService{
		lots:       lots,
		products:   products,
		suppliers:  suppliers,
		allocator:  allocator,
		tx:         tx,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// LotItemInput is one purchased line in the receipt payload.
type LotItemInput struct {
	ProductID int64
	Quantity  int
	UnitCost  decimal.Decimal
}

// LotCreateInput describes lot receipt payload.
type LotCreateInput struct {
	SupplierID int64
	ReceivedAt time.Time
	Items      []LotItemInput
}

// Create records a received lot. The header, items, stock increments and IN
// movements are written in one transaction.
func (s *LotService) Create(ctx context.Context, receivedBy int64, input LotCreateInput) (*domain.PurchaseLot, error) {
	if _, err := s.suppliers.GetByID(ctx, input.SupplierID); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, apperrors.NewValidationError("lot needs at least one item", nil)
	}
	for _, item := range input.Items {
		if _, err := s.products.GetByID(ctx, item.ProductID); err != nil {
			return nil, err
		}
	}

	number, err := s.allocator.NextLotNumber(ctx, input.ReceivedAt.Year())
	if err != nil {
		return nil, err
	}

	lot := &domain.PurchaseLot{
		Number:     number,
		SupplierID: input.SupplierID,
		ReceivedBy: receivedBy,
		ReceivedAt: input.ReceivedAt,
	}
	items := make([]domain.PurchaseLotItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, domain.PurchaseLotItem{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitCost:  in.UnitCost,
		})
	}

	err = s.tx.LotTx(ctx, func(
		lots repository.LotRepository,
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error {
		if err := lots.Create(ctx, lot); err != nil {
			return err
		}
		for i := range items {
			items[i].LotID = lot.ID
			if err := lots.CreateItem(ctx, &items[i]); err != nil {
				return err
			}
			if err := products.IncrementStock(ctx, items[i].ProductID, items[i].Quantity); err != nil {
				return err
			}
			if err := movements.Create(ctx, &domain.StockMovement{
				ProductID: items[i].ProductID,
				Kind:      domain.MovementIn,
				Quantity:  items[i].Quantity,
				Reference: lot.Number,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	lot.Items = items

	if err := s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventLotReceived,
		ActorID:   receivedBy,
		Timestamp: time.Now(),
		Payload: events.LotReceivedPayload{
			LotID:      lot.ID,
			Number:     lot.Number,
			SupplierID: lot.SupplierID,
			ItemCount:  len(lot.Items),
		},
	}); err != nil {
		s.logger.Warn("failed to publish lot_received event", zap.Error(err))
	}

	return lot, nil
}

// Get fetches one lot with its items.
func (s *LotService) Get(ctx context.Context, id int64) (*domain.PurchaseLot, error) {
	lot, err := s.lots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.lots.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	lot.Items = items
	return lot, nil
}

// List returns lots matching the filter.
func (s *LotService) List(ctx context.Context, filter repository.LotFilter) ([]domain.PurchaseLot, error) {
	return s.lots.List(ctx, filter)
}
