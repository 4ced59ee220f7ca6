package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBoundaries_MondayWeek(t *testing.T) {
	// Thursday afternoon
	now := time.Date(2026, time.October, 15, 15, 30, 0, 0, time.UTC)
	b := Boundaries(now, time.Monday)

	assert.Equal(t, Range{From: day(2026, 10, 15), To: day(2026, 10, 16)}, b[Today])
	assert.Equal(t, Range{From: day(2026, 10, 14), To: day(2026, 10, 15)}, b[Yesterday])
	assert.Equal(t, Range{From: day(2026, 10, 12), To: day(2026, 10, 19)}, b[ThisWeek])
	assert.Equal(t, Range{From: day(2026, 10, 5), To: day(2026, 10, 12)}, b[LastWeek])
	assert.Equal(t, Range{From: day(2026, 10, 1), To: day(2026, 11, 1)}, b[ThisMonth])
	assert.Equal(t, Range{From: day(2026, 9, 1), To: day(2026, 10, 1)}, b[LastMonth])
}

func TestBoundaries_SundayWeek(t *testing.T) {
	now := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC) // a Sunday
	b := Boundaries(now, time.Sunday)

	assert.Equal(t, day(2026, 10, 18), b[ThisWeek].From)
	assert.Equal(t, day(2026, 10, 11), b[LastWeek].From)

	iso := Boundaries(now, time.Monday)
	assert.Equal(t, day(2026, 10, 12), iso[ThisWeek].From)
}

func TestBoundaries_LastMonthAcrossYear(t *testing.T) {
	now := time.Date(2027, time.January, 3, 0, 0, 1, 0, time.UTC)
	b := Boundaries(now, time.Monday)

	assert.Equal(t, "2026-12-01", b[LastMonth].FirstDay())
	assert.Equal(t, "2026-12-31", b[LastMonth].LastDay())
	assert.Equal(t, "2027-01-02", b[Yesterday].FirstDay())
}

func TestBoundaries_LastMonthShortMonth(t *testing.T) {
	now := time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC)
	b := Boundaries(now, time.Monday)

	assert.Equal(t, "2026-02-01", b[LastMonth].FirstDay())
	assert.Equal(t, "2026-02-28", b[LastMonth].LastDay())
}

func TestRange_Contains(t *testing.T) {
	r := Range{From: day(2026, 10, 12), To: day(2026, 10, 19)}

	assert.True(t, r.Contains("2026-10-12"))
	assert.True(t, r.Contains("2026-10-18"))
	assert.False(t, r.Contains("2026-10-19"))
	assert.False(t, r.Contains("2026-10-11"))
}

func TestStartOfDay_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 20:00 UTC is already the next day in UTC+9
	now := time.Date(2026, time.October, 15, 20, 0, 0, 0, time.UTC).In(loc)

	assert.Equal(t, "2026-10-16", DayKey(StartOfDay(now)))
}
