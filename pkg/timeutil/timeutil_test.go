package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColomboOffset(t *testing.T) {
	instant := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	local := ToColombo(instant)
	assert.Equal(t, 5, local.Hour())
	assert.Equal(t, 30, local.Minute())
}

func TestAcademicYear_NewYearBoundary(t *testing.T) {
	// 18:35 UTC on Dec 31 is already Jan 1 in Colombo.
	beforeMidnight := time.Date(2025, 12, 31, 18, 25, 0, 0, time.UTC)
	afterMidnight := time.Date(2025, 12, 31, 18, 35, 0, 0, time.UTC)

	assert.Equal(t, 2025, AcademicYear(beforeMidnight))
	assert.Equal(t, 2026, AcademicYear(afterMidnight))
}

func TestStartOfAcademicYear(t *testing.T) {
	instant := Date(2026, 7, 15)

	start := StartOfAcademicYear(instant)
	assert.Equal(t, Date(2026, 1, 1), start)

	next := NextAcademicYearStart(instant)
	assert.Equal(t, Date(2027, 1, 1), next)
}

func TestStartOfDay(t *testing.T) {
	instant := DateTime(2026, 3, 10, 14, 45, 30)

	start := StartOfDay(instant)
	assert.Equal(t, Date(2026, 3, 10), start)
}

func TestIsSameDay(t *testing.T) {
	// 20:00 UTC and 19:00 UTC the same evening fall on different Colombo days
	// when the boundary at 18:30 UTC sits between them.
	a := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	b := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)

	assert.False(t, IsSameDay(a, b))
	assert.True(t, IsSameDay(b, b.Add(time.Hour)))
}

func TestDaysBetween(t *testing.T) {
	a := Date(2026, 1, 1)
	b := Date(2026, 1, 11)

	assert.Equal(t, 10, DaysBetween(a, b))
	assert.Equal(t, 10, DaysBetween(b, a), "order does not matter")
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestParseDateColombo(t *testing.T) {
	parsed, err := ParseDateColombo("2026-01-01")
	require.NoError(t, err)

	assert.Equal(t, Date(2026, 1, 1), parsed)
	assert.Equal(t, "2026-01-01", FormatDateStr(parsed))
}
