// Package timeutil provides timezone utilities for the Colombo timezone (UTC+5:30).
// The platform serves Sri Lankan schools, so the academic calendar and the yearly
// grade-promotion instant are all anchored to local time.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// ColomboTZ is the Colombo timezone (UTC+5:30, no DST).
// Sri Lanka has kept a fixed offset since 2006, so this is constant year-round.
var ColomboTZ = time.FixedZone("Asia/Colombo", 5*60*60+30*60)

// Now returns the current time in Colombo timezone.
func Now() time.Time {
	return time.Now().In(ColomboTZ)
}

// ToColombo converts a time to Colombo timezone.
func ToColombo(t time.Time) time.Time {
	return t.In(ColomboTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in Colombo timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, ColomboTZ)
}

// DateTime creates a time in Colombo timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, ColomboTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Colombo timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToColombo(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, ColomboTZ)
}

// IsSameDay checks if two times are on the same day in Colombo timezone.
func IsSameDay(t1, t2 time.Time) bool {
	a, b := ToColombo(t1), ToColombo(t2)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// DaysBetween calculates the number of days between two times.
func DaysBetween(t1, t2 time.Time) int {
	a := StartOfDay(t1)
	b := StartOfDay(t2)
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// Academic calendar helpers.
//
// The school year in Sri Lanka begins in January, so academic year N covers
// the calendar year N and grade promotion happens at the stroke of New Year.

// AcademicYear returns the academic year the given instant falls into.
func AcademicYear(t time.Time) int {
	return ToColombo(t).Year()
}

// StartOfAcademicYear returns January 1st 00:00 local time for the academic
// year containing t.
func StartOfAcademicYear(t time.Time) time.Time {
	return Date(AcademicYear(t), 1, 1)
}

// NextAcademicYearStart returns January 1st 00:00 local time of the academic
// year after the one containing t.
func NextAcademicYearStart(t time.Time) time.Time {
	return Date(AcademicYear(t)+1, 1, 1)
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
)

// FormatColombo formats a time in Colombo timezone with the given layout.
func FormatColombo(t time.Time, layout string) string {
	return ToColombo(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in Colombo timezone.
func FormatDateStr(t time.Time) string {
	return FormatColombo(t, FormatDate)
}

// ParseColombo parses a time string in Colombo timezone.
func ParseColombo(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, ColomboTZ)
}

// ParseDateColombo parses a date string (YYYY-MM-DD) in Colombo timezone.
func ParseDateColombo(value string) (time.Time, error) {
	return ParseColombo(FormatDate, value)
}
