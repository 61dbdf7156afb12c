package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronExpression_Invalid(t *testing.T) {
	tests := []string{
		"",
		"* * * *",
		"* * * * * *",
		"61 * * * *",
		"* 25 * * *",
		"x * * * *",
		"*/0 * * * *",
	}

	for _, expr := range tests {
		_, err := ParseCronExpression(expr)
		assert.Error(t, err, "expression %q", expr)
	}
}

func TestCronExpression_YearlyPromotion(t *testing.T) {
	ce, err := ParseCronExpression("0 0 1 1 *")
	require.NoError(t, err)

	loc := time.FixedZone("Asia/Colombo", 5*3600+30*60)

	next := ce.Next(time.Date(2026, 6, 15, 10, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, loc), next)

	// A trigger a minute before midnight lands exactly on New Year.
	next = ce.Next(time.Date(2026, 12, 31, 23, 59, 0, 0, loc))
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, loc), next)

	// Right on New Year the next run is a year out.
	next = ce.Next(time.Date(2027, 1, 1, 0, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2028, 1, 1, 0, 0, 0, 0, loc), next)
}

func TestCronExpression_EveryFiveMinutes(t *testing.T) {
	ce, err := ParseCronExpression("*/5 * * * *")
	require.NoError(t, err)

	next := ce.Next(time.Date(2026, 3, 1, 12, 2, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC), next)

	next = ce.Next(time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 1, 12, 10, 0, 0, time.UTC), next)
}

func TestCronExpression_ListAndRange(t *testing.T) {
	ce, err := ParseCronExpression("0 9-10 * * 1,3")
	require.NoError(t, err)

	// 2026-03-02 is a Monday.
	next := ce.Next(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), next)

	next = ce.Next(next)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), next)

	// After Monday's runs the next one is Wednesday.
	next = ce.Next(next)
	assert.Equal(t, time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), next)
}

func TestCronExpression_String(t *testing.T) {
	ce, err := ParseCronExpression("0 0 1 1 *")
	require.NoError(t, err)

	assert.Equal(t, "0 0 1 1 *", ce.String())
}

func TestIntervalSchedule(t *testing.T) {
	s := NewIntervalSchedule(15 * time.Minute)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(15*time.Minute), s.Next(now))
	assert.Equal(t, "@every 15m0s", s.String())

	assert.Equal(t, time.Second, NewIntervalSchedule(0).Interval)
}
