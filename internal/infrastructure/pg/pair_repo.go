package pg

import (
	"context"
	"fmt"

	"ticker-service/internal/application"
)

// PairRepo reads the configured trading pairs from the trading_pairs table.
type PairRepo struct{ db *DB }

func NewPairRepo(db *DB) *PairRepo { return &PairRepo{db: db} }

var _ application.PairSource = (*PairRepo)(nil)

// ListPairs returns the enabled symbols as stored; normalization happens when
// the registry is built.
func (r *PairRepo) ListPairs(ctx context.Context) ([]string, error) {
	const q = `SELECT symbol FROM trading_pairs WHERE enabled ORDER BY symbol`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		out = append(out, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	return out, nil
}
