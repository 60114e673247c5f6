package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bizops-service/internal/repository"
)

// TxRunner executes multi-statement writes inside a single Postgres
// transaction, handing tx-bound repositories to the callback. A failure
// anywhere in the callback rolls the whole unit back.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the shared pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// InvoiceTx runs invoice header + item inserts as one unit.
func (r *TxRunner) InvoiceTx(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(repository.NewInvoiceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LotTx runs lot header + items + stock increments + movement rows as one unit.
func (r *TxRunner) LotTx(ctx context.Context, fn func(
	lots repository.LotRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		repository.NewLotRepository(tx),
		repository.NewProductRepository(tx),
		repository.NewStockMovementRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SaleTx runs sale header + items + stock decrements + movement rows as one unit.
func (r *TxRunner) SaleTx(ctx context.Context, fn func(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		repository.NewSaleRepository(tx),
		repository.NewProductRepository(tx),
		repository.NewStockMovementRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
