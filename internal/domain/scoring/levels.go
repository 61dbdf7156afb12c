package scoring

import (
	"sort"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEVEL TIERS
// ══════════════════════════════════════════════════════════════════════════════

// Tier is one named score band. A user belongs to the first tier whose
// MaxLimit is at or above their score.
type Tier struct {
	// ID - database identifier, zero for unseeded tiers.
	ID int64

	// Name - display name of the tier.
	Name string

	// Icon - URL of the tier badge.
	Icon string

	// MaxLimit - inclusive upper score bound of the tier.
	MaxLimit float64
}

// IsZero reports whether the tier is the empty placeholder.
func (t Tier) IsZero() bool {
	return t.Name == "" && t.MaxLimit == 0
}

// Catalogue is an ordered set of tiers with deterministic resolution.
type Catalogue struct {
	tiers []Tier
}

// NewCatalogue builds a catalogue from tiers in any order. Tiers are
// stably sorted by MaxLimit ascending, so two tiers sharing a bound keep
// their input order and the first one wins resolution.
func NewCatalogue(tiers []Tier) *Catalogue {
	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].MaxLimit < cp[j].MaxLimit
	})
	return &Catalogue{tiers: cp}
}

// Resolve returns the tier a score falls into: the first tier whose
// MaxLimit >= score. A score on the bound belongs to that tier; a score
// just past it belongs to the next. Scores above every bound fall back to
// the top tier, and an empty catalogue yields the zero Tier.
func (c *Catalogue) Resolve(score float64) Tier {
	if len(c.tiers) == 0 {
		return Tier{}
	}

	for _, t := range c.tiers {
		if score <= t.MaxLimit {
			return t
		}
	}

	return c.tiers[len(c.tiers)-1]
}

// Tiers returns the sorted tiers. The slice is a copy.
func (c *Catalogue) Tiers() []Tier {
	out := make([]Tier, len(c.tiers))
	copy(out, c.tiers)
	return out
}

// Len returns the number of tiers.
func (c *Catalogue) Len() int {
	return len(c.tiers)
}

// DefaultTiers returns the platform's standard ten-tier ladder.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "Novice Scout", Icon: "https://img.icons8.com/color/96/compass.png", MaxLimit: 100},
		{Name: "Apprentice", Icon: "https://img.icons8.com/color/96/learning.png", MaxLimit: 250},
		{Name: "Code Knight", Icon: "https://img.icons8.com/color/96/knight.png", MaxLimit: 500},
		{Name: "Tech Ranger", Icon: "https://img.icons8.com/color/96/trekking.png", MaxLimit: 800},
		{Name: "Quiz Wizard", Icon: "https://img.icons8.com/color/96/wizard.png", MaxLimit: 1200},
		{Name: "Knowledge Ninja", Icon: "https://img.icons8.com/color/96/ninja.png", MaxLimit: 1600},
		{Name: "Mastermind", Icon: "https://img.icons8.com/color/96/brain.png", MaxLimit: 2200},
		{Name: "Elite Scholar", Icon: "https://img.icons8.com/color/96/graduation-cap.png", MaxLimit: 3000},
		{Name: "Legend", Icon: "https://img.icons8.com/color/96/trophy.png", MaxLimit: 4000},
		{Name: "Grandmaster", Icon: "https://img.icons8.com/color/96/crown.png", MaxLimit: 6000},
	}
}
