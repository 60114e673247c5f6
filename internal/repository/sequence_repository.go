package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SequenceRepository finds the greatest already-issued code for a prefix.
// The table and column names come from a fixed set owned by the sequence
// allocator, never from request input.
type SequenceRepository interface {
	MaxCode(ctx context.Context, table, column, prefix string) (string, error)
}

type sequenceRepository struct {
	db DB
}

// NewSequenceRepository returns a Postgres-backed implementation.
func NewSequenceRepository(db DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// MaxCode returns the lexicographically greatest code matching the prefix, or
// an empty string when none exists. Codes are fixed-width zero-padded, so
// lexicographic order matches numeric order within one prefix.
func (r *sequenceRepository) MaxCode(ctx context.Context, table, column, prefix string) (string, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s LIKE $1 ORDER BY %s DESC LIMIT 1`,
		column, table, column, column,
	)

	var code string
	err := r.db.QueryRow(ctx, query, prefix+"%").Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}
