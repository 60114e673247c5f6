package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSequenceRepo struct {
	mu    sync.Mutex
	codes map[string][]string
	err   error
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{codes: make(map[string][]string)}
}

func (f *fakeSequenceRepo) MaxCode(ctx context.Context, table, column, prefix string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	max := ""
	for _, code := range f.codes[table] {
		if strings.HasPrefix(code, prefix) && code > max {
			max = code
		}
	}
	return max, nil
}

func (f *fakeSequenceRepo) add(table, code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[table] = append(f.codes[table], code)
}

func TestNextInvoiceNumberFirstOfYear(t *testing.T) {
	allocator := NewSequenceAllocator(newFakeSequenceRepo())

	number, err := allocator.NextInvoiceNumber(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-0001", number)
}

func TestNextInvoiceNumberSequential(t *testing.T) {
	repo := newFakeSequenceRepo()
	allocator := NewSequenceAllocator(repo)

	for i, want := range []string{"INV-2024-0001", "INV-2024-0002", "INV-2024-0003"} {
		number, err := allocator.NextInvoiceNumber(context.Background(), 2024)
		require.NoError(t, err, "allocation %d", i)
		assert.Equal(t, want, number)
		repo.add("invoices", number)
	}
}

func TestNextInvoiceNumberPerYearReset(t *testing.T) {
	repo := newFakeSequenceRepo()
	repo.add("invoices", "INV-2024-0042")
	allocator := NewSequenceAllocator(repo)

	number, err := allocator.NextInvoiceNumber(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0001", number)
}

func TestNextProductCodeWidthAndCategory(t *testing.T) {
	repo := newFakeSequenceRepo()
	repo.add("products", "PRD-ELE-000009")
	allocator := NewSequenceAllocator(repo)

	code, err := allocator.NextProductCode(context.Background(), "ele")
	require.NoError(t, err)
	assert.Equal(t, "PRD-ELE-000010", code)

	code, err = allocator.NextProductCode(context.Background(), "FUR")
	require.NoError(t, err)
	assert.Equal(t, "PRD-FUR-000001", code)
}

func TestNextNumberUnparsableSuffixRestartsAtOne(t *testing.T) {
	repo := newFakeSequenceRepo()
	repo.add("sales", "SAL-2024-garbled")
	allocator := NewSequenceAllocator(repo)

	number, err := allocator.NextSaleNumber(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, "SAL-2024-0001", number)
}

func TestNextNumberLookupFailureFallsBackToTimestamp(t *testing.T) {
	repo := newFakeSequenceRepo()
	repo.err = errors.New("connection refused")
	allocator := NewSequenceAllocator(repo)

	number, err := allocator.NextLotNumber(context.Background(), 2024)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(number, "LOT-2024-"))

	suffix := strings.TrimPrefix(number, "LOT-2024-")
	assert.Greater(t, len(suffix), lotSuffixWidth, "fallback suffix is a millisecond timestamp, not a counter")
}

func TestConcurrentAllocationsCanCollide(t *testing.T) {
	// The allocator reads the current maximum and increments without any
	// lock spanning the read and the insert, so two goroutines allocating
	// for the same prefix observe the same maximum and produce the same
	// code. The unique index on the number column is what surfaces this.
	repo := newFakeSequenceRepo()
	allocator := NewSequenceAllocator(repo)

	const workers = 8
	results := make([]string, workers)
	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait()
			number, err := allocator.NextInvoiceNumber(context.Background(), 2024)
			assert.NoError(t, err)
			results[i] = number
		}(i)
	}
	start.Done()
	done.Wait()

	// No allocation saw another's insert, so every worker gets 0001.
	for _, number := range results {
		assert.Equal(t, "INV-2024-0001", number)
	}
}
