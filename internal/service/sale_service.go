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

// SaleTxRunner runs sale writes inside one transaction.
type SaleTxRunner interface {
	SaleTx(ctx context.Context, fn func(
		sales repository.SaleRepository,
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error) error
}

// SaleService manages point-of-sale transactions.
type SaleService struct {
	sales      repository.SaleRepository
	products   repository.ProductRepository
	clients    repository.ClientRepository
	allocator  *SequenceAllocator
	tx         SaleTxRunner
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSaleService builds the service.
func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	clients repository.ClientRepository,
	allocator *SequenceAllocator,
	tx SaleTxRunner,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		sales:      sales,
		products:   products,
		clients:    clients,
		allocator:  allocator,
		tx:         tx,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SaleItemInput is one sold line in the creation payload.
type SaleItemInput struct {
	ProductID int64
	Quantity  int
}

// SaleCreateInput describes sale creation payload.
type SaleCreateInput struct {
	ClientID *int64
	Items    []SaleItemInput
}

// Create records a sale. Each item decrements stock with a guard that keeps
// it from going negative; any shortage rolls the whole sale back and reports
// every offending product.
func (s *SaleService) Create(ctx context.Context, soldBy int64, input SaleCreateInput) (*domain.Sale, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.NewValidationError("sale needs at least one item", nil)
	}
	if input.ClientID != nil {
		if _, err := s.clients.GetByID(ctx, *input.ClientID); err != nil {
			return nil, err
		}
	}

	total := decimal.Zero
	items := make([]domain.SaleItem, 0, len(input.Items))
	lowStock := make([]*domain.Product, 0)
	for _, in := range input.Items {
		product, err := s.products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		amount := product.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		items = append(items, domain.SaleItem{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: product.UnitPrice,
			Amount:    amount,
		})
		total = total.Add(amount)
		if product.Stock-in.Quantity < product.MinStock {
			product.Stock -= in.Quantity
			lowStock = append(lowStock, product)
		}
	}

	number, err := s.allocator.NextSaleNumber(ctx, time.Now().Year())
	if err != nil {
		return nil, err
	}

	sale := &domain.Sale{
		Number:   number,
		ClientID: input.ClientID,
		SoldBy:   soldBy,
		Total:    total,
	}

	err = s.tx.SaleTx(ctx, func(
		sales repository.SaleRepository,
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error {
		if err := sales.Create(ctx, sale); err != nil {
			return err
		}
		var short []int64
		for i := range items {
			items[i].SaleID = sale.ID
			if err := sales.CreateItem(ctx, &items[i]); err != nil {
				return err
			}
			ok, err := products.DecrementStock(ctx, items[i].ProductID, items[i].Quantity)
			if err != nil {
				return err
			}
			if !ok {
				short = append(short, items[i].ProductID)
				continue
			}
			if err := movements.Create(ctx, &domain.StockMovement{
				ProductID: items[i].ProductID,
				Kind:      domain.MovementOut,
				Quantity:  items[i].Quantity,
				Reference: sale.Number,
			}); err != nil {
				return err
			}
		}
		if len(short) > 0 {
			return apperrors.NewValidationError("insufficient stock", map[string]any{"product_ids": short})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sale.Items = items

	if err := s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventSaleCreated,
		ActorID:   soldBy,
		Timestamp: time.Now(),
		Payload: events.SaleCreatedPayload{
			SaleID: sale.ID,
			Number: sale.Number,
			Total:  sale.Total,
		},
	}); err != nil {
		s.logger.Warn("failed to publish sale_created event", zap.Error(err))
	}

	for _, product := range lowStock {
		if err := s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventStockLow,
			ActorID:   soldBy,
			Timestamp: time.Now(),
			Payload: events.StockLowPayload{
				ProductID: product.ID,
				Code:      product.Code,
				Stock:     product.Stock,
				MinStock:  product.MinStock,
			},
		}); err != nil {
			s.logger.Warn("failed to publish stock_low event", zap.Error(err))
		}
	}

	return sale, nil
}

// Get fetches one sale with its items.
func (s *SaleService) Get(ctx context.Context, id int64) (*domain.Sale, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.sales.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return sale, nil
}

// List returns sales matching the filter.
func (s *SaleService) List(ctx context.Context, filter repository.SaleFilter) ([]domain.Sale, error) {
	return s.sales.List(ctx, filter)
}
