package scoring

import (
	"context"
)

// RankedScore is one entry of the score ranking.
type RankedScore struct {
	UserID int64
	Score  float64
}

// TierRepository defines storage operations for the level ladder.
type TierRepository interface {
	// Seed inserts the given tiers if absent. Existing tiers are left
	// untouched, so repeated startups never duplicate the ladder.
	Seed(ctx context.Context, tiers []Tier) error

	// List returns all tiers ordered by MaxLimit ascending.
	List(ctx context.Context) ([]Tier, error)
}
