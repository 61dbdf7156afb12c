package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogue_Resolve(t *testing.T) {
	cat := NewCatalogue(DefaultTiers())

	tests := []struct {
		name  string
		score float64
		tier  string
	}{
		{"fresh account", 10, "Novice Scout"},
		{"negative score stays in the bottom tier", -50, "Novice Scout"},
		{"on the bound belongs to the tier", 100, "Novice Scout"},
		{"just past the bound moves up", 100.5, "Apprentice"},
		{"mid ladder", 1000, "Quiz Wizard"},
		{"top bound", 6000, "Grandmaster"},
		{"above every bound falls back to the top tier", 999999, "Grandmaster"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.tier, cat.Resolve(tt.score).Name)
		})
	}
}

func TestCatalogue_SortsInput(t *testing.T) {
	cat := NewCatalogue([]Tier{
		{Name: "high", MaxLimit: 200},
		{Name: "low", MaxLimit: 50},
	})

	tiers := cat.Tiers()
	require.Len(t, tiers, 2)
	assert.Equal(t, "low", tiers[0].Name)
	assert.Equal(t, "high", tiers[1].Name)
	assert.Equal(t, "low", cat.Resolve(10).Name)
}

func TestCatalogue_EqualBoundFirstWins(t *testing.T) {
	// Two tiers sharing a bound: the one listed first keeps it. The sort
	// is stable, so catalogue order breaks the tie.
	cat := NewCatalogue([]Tier{
		{Name: "listed first", MaxLimit: 100},
		{Name: "listed second", MaxLimit: 100},
		{Name: "above", MaxLimit: 200},
	})

	assert.Equal(t, "listed first", cat.Resolve(100).Name)
	assert.Equal(t, "listed first", cat.Resolve(40).Name)
	assert.Equal(t, "above", cat.Resolve(101).Name)
}

func TestCatalogue_Empty(t *testing.T) {
	cat := NewCatalogue(nil)

	assert.Equal(t, 0, cat.Len())
	assert.True(t, cat.Resolve(42).IsZero())
}

func TestDefaultTiers_Ladder(t *testing.T) {
	tiers := DefaultTiers()
	require.Len(t, tiers, 10)

	// Bounds must be strictly increasing for resolution to be unambiguous.
	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].MaxLimit, tiers[i-1].MaxLimit)
	}

	for _, tier := range tiers {
		assert.NotEmpty(t, tier.Name)
		assert.NotEmpty(t, tier.Icon)
	}
}

func TestCatalogue_TiersReturnsCopy(t *testing.T) {
	cat := NewCatalogue(DefaultTiers())

	tiers := cat.Tiers()
	tiers[0].Name = "mutated"

	assert.Equal(t, "Novice Scout", cat.Tiers()[0].Name)
}
