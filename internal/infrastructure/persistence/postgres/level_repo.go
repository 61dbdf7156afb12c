package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
)

// TierRepository implements scoring.TierRepository.
type TierRepository struct {
	conn *Connection
}

// NewTierRepository creates a new TierRepository.
func NewTierRepository(conn *Connection) *TierRepository {
	return &TierRepository{conn: conn}
}

// Seed inserts the given tiers if absent. The id column is
// identity-generated, so the unique name is the idempotency key. Tiers
// already present are left exactly as they are, so a redeploy never
// rewrites the ladder.
func (r *TierRepository) Seed(ctx context.Context, tiers []scoring.Tier) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		for _, t := range tiers {
			_, err := tx.Exec(ctx, `
				INSERT INTO score_levels (name, icon, max_limit)
				VALUES ($1, $2, $3)
				ON CONFLICT (name) DO NOTHING
			`, t.Name, t.Icon, t.MaxLimit)
			if err != nil {
				return fmt.Errorf("failed to seed level %q: %w", t.Name, err)
			}
		}
		return nil
	})
}

// List returns all tiers ordered by max_limit ascending.
func (r *TierRepository) List(ctx context.Context) ([]scoring.Tier, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, name, icon, max_limit
		FROM score_levels
		ORDER BY max_limit ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var tiers []scoring.Tier
	for rows.Next() {
		var t scoring.Tier
		if err := rows.Scan(&t.ID, &t.Name, &t.Icon, &t.MaxLimit); err != nil {
			return nil, fmt.Errorf("failed to scan level: %w", err)
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}
