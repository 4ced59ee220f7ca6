package analytics

import "time"

// Period is a named calendar window over which views are summed.
type Period string

const (
	Today     Period = "Today"
	Yesterday Period = "Yesterday"
	ThisWeek  Period = "This Week"
	LastWeek  Period = "Last Week"
	ThisMonth Period = "This Month"
	LastMonth Period = "Last Month"
)

// Periods lists the reported windows in response order.
var Periods = []Period{Today, Yesterday, ThisWeek, LastWeek, ThisMonth, LastMonth}

const dayLayout = "2006-01-02"

// Range is a half-open interval [From, To) of whole days.
type Range struct {
	From time.Time
	To   time.Time
}

// FirstDay returns the inclusive lower day key.
func (r Range) FirstDay() string { return r.From.Format(dayLayout) }

// LastDay returns the inclusive upper day key.
func (r Range) LastDay() string { return r.To.AddDate(0, 0, -1).Format(dayLayout) }

// Contains reports whether the day key falls inside the range.
func (r Range) Contains(day string) bool {
	return day >= r.FirstDay() && day <= r.LastDay()
}

// DayKey formats t as the stored day key in t's location.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the first day of t's week.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns midnight of the first day of t's calendar month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Boundaries computes every period's range relative to now. now must already be in the
// reporting location; AddDate keeps day arithmetic correct across DST changes.
func Boundaries(now time.Time, weekStart time.Weekday) map[Period]Range {
	today := StartOfDay(now)
	week := StartOfWeek(now, weekStart)
	month := StartOfMonth(now)

	return map[Period]Range{
		Today:     {From: today, To: today.AddDate(0, 0, 1)},
		Yesterday: {From: today.AddDate(0, 0, -1), To: today},
		ThisWeek:  {From: week, To: week.AddDate(0, 0, 7)},
		LastWeek:  {From: week.AddDate(0, 0, -7), To: week},
		ThisMonth: {From: month, To: month.AddDate(0, 1, 0)},
		LastMonth: {From: month.AddDate(0, -1, 0), To: month},
	}
}

// span returns the smallest range covering all of the given ranges.
func span(ranges map[Period]Range) Range {
	var out Range
	first := true
	for _, r := range ranges {
		if first || r.From.Before(out.From) {
			out.From = r.From
		}
		if first || r.To.After(out.To) {
			out.To = r.To
		}
		first = false
	}
	return out
}
