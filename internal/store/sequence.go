package store

import (
	"context"
	"fmt"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sequence hands out the global order shared by answers and results. A
// result covers every answer of its assessment with a lower sequence.
//
// Next must not run inside a transaction: the store has a single connection.
type sequence struct {
	mu  sync.Mutex
	drv dialect.ExecQuerier
}

// newSequence seeds the counter row if the table is empty.
func newSequence(ctx context.Context, drv dialect.ExecQuerier) (*sequence, error) {
	seed := entsql.Dialect(dialect.SQLite).
		Insert(tableSequence).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing())
	if err := execQ(ctx, drv, seed); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequence{drv: drv}, nil
}

// Next returns the next sequence number.
func (s *sequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	upd := entsql.Dialect(dialect.SQLite).
		Update(tableSequence).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Returning("next_val")

	var next int64
	found := false
	err := queryRows(ctx, s.drv, upd, func(rows *entsql.Rows) error {
		found = true
		return rows.Scan(&next)
	})
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	if !found {
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	return next - 1, nil
}

// rewind restarts the counter at 1 within ex.
func (s *sequence) rewind(ctx context.Context, ex dialect.ExecQuerier) error {
	upd := entsql.Dialect(dialect.SQLite).
		Update(tableSequence).
		Set("next_val", 1).
		Where(entsql.EQ("id", 1))
	if err := execQ(ctx, ex, upd); err != nil {
		return fmt.Errorf("rewind sequence: %w", err)
	}
	return nil
}
