package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/bizops-service/internal/repository"
)

// Suffix widths are fixed per entity so generated codes stay sortable as
// strings.
const (
	invoiceSuffixWidth = 4
	saleSuffixWidth    = 4
	lotSuffixWidth     = 4
	productSuffixWidth = 6
)

// SequenceAllocator generates the next formatted identifier for an entity
// kind and period/category key. The scheme is read-max-then-increment with
// no lock or transaction spanning the read and the later insert: two
// concurrent allocations for the same prefix can produce the same code.
// That race is a documented limitation of the numbering protocol, surfaced
// by the database unique constraint at insert time rather than prevented
// here.
type SequenceAllocator struct {
	repo repository.SequenceRepository
}

// NewSequenceAllocator builds an allocator over the sequence repository.
func NewSequenceAllocator(repo repository.SequenceRepository) *SequenceAllocator {
	return &SequenceAllocator{repo: repo}
}

// NextInvoiceNumber returns the next invoice number for the year, e.g.
// INV-2024-0001.
func (a *SequenceAllocator) NextInvoiceNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", year)
	return a.next(ctx, "invoices", "number", prefix, invoiceSuffixWidth)
}

// NextSaleNumber returns the next sale number for the year, e.g. SAL-2024-0001.
func (a *SequenceAllocator) NextSaleNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("SAL-%d-", year)
	return a.next(ctx, "sales", "number", prefix, saleSuffixWidth)
}

// NextLotNumber returns the next purchase-lot number for the year, e.g.
// LOT-2024-0001.
func (a *SequenceAllocator) NextLotNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("LOT-%d-", year)
	return a.next(ctx, "purchase_lots", "number", prefix, lotSuffixWidth)
}

// NextProductCode returns the next product code for the category, e.g.
// PRD-ELE-000001.
func (a *SequenceAllocator) NextProductCode(ctx context.Context, categoryCode string) (string, error) {
	prefix := fmt.Sprintf("PRD-%s-", strings.ToUpper(categoryCode))
	return a.next(ctx, "products", "code", prefix, productSuffixWidth)
}

func (a *SequenceAllocator) next(ctx context.Context, table, column, prefix string, width int) (string, error) {
	max, err := a.repo.MaxCode(ctx, table, column, prefix)
	if err != nil {
		// Degraded mode: a timestamp suffix avoids collisions but breaks
		// monotonicity. Callers still get a usable identifier.
		return prefix + strconv.FormatInt(time.Now().UnixMilli(), 10), nil
	}

	last := 0
	if max != "" {
		if parsed, perr := strconv.Atoi(strings.TrimPrefix(max, prefix)); perr == nil {
			last = parsed
		}
	}

	return fmt.Sprintf("%s%0*d", prefix, width, last+1), nil
}
