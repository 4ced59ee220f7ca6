package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/folio/metrics"
	"github.com/cppla/folio/models"
)

// ErrUsernameRequired is returned before any query when the username is blank.
var ErrUsernameRequired = errors.New("username is required")

// PeriodViews is the view count of one named period.
type PeriodViews struct {
	Period Period `json:"period"`
	Views  int64  `json:"views"`
}

// Stats is the aggregated view report of one username.
type Stats struct {
	PageViews  []PeriodViews `json:"pageViews"`
	TotalViews int64         `json:"totalViews"`
}

// DailyViews is one point of a per-day series.
type DailyViews struct {
	Day   string `json:"day"`
	Views int64  `json:"views"`
}

// Store records and aggregates per-day portfolio views.
type Store struct {
	db        *gorm.DB
	loc       *time.Location
	weekStart time.Weekday
	now       func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces time.Now, used by tests to pin the reporting day.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store reporting in loc with weeks starting on weekStart.
func NewStore(db *gorm.DB, loc *time.Location, weekStart time.Weekday, opts ...Option) *Store {
	if loc == nil {
		loc = time.Local
	}
	s := &Store{db: db, loc: loc, weekStart: weekStart, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) clock() time.Time {
	return s.now().In(s.loc)
}

// RecordVisit increments today's counter for username. The read-modify-write happens inside a
// single upsert statement so concurrent visits never lose an increment.
func (s *Store) RecordVisit(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}

	now := s.clock()
	row := models.PageView{Username: username, Day: DayKey(now), Views: 1}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"views": gorm.Expr("views + 1"), "updated_at": now}),
	}).Create(&row).Error
	if err != nil {
		return errors.Wrapf(err, "record visit for %s", username)
	}
	metrics.PageViewsRecorded.Inc()
	return nil
}

// Stats sums the stored days of every period plus the all-time total. Rows are matched by day
// range only and every row in a range is summed. Any query failure discards the whole report.
func (s *Store) Stats(ctx context.Context, username string) (*Stats, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	ranges := Boundaries(s.clock(), s.weekStart)
	window := span(ranges)

	db := s.db.WithContext(ctx)
	var rows []models.PageView
	if err := db.Where("username = ? AND day >= ? AND day <= ?", username, window.FirstDay(), window.LastDay()).
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query period views")
	}

	var total int64
	if err := db.Model(&models.PageView{}).
		Where("username = ?", username).
		Select("COALESCE(SUM(views),0)").
		Scan(&total).Error; err != nil {
		return nil, errors.Wrap(err, "query total views")
	}

	stats := &Stats{PageViews: make([]PeriodViews, 0, len(Periods)), TotalViews: total}
	for _, p := range Periods {
		r := ranges[p]
		var sum int64
		for _, row := range rows {
			if r.Contains(row.Day) {
				sum += row.Views
			}
		}
		stats.PageViews = append(stats.PageViews, PeriodViews{Period: p, Views: sum})
	}
	return stats, nil
}

// Daily returns a zero-filled series of the last days days, oldest first.
func (s *Store) Daily(ctx context.Context, username string, days int) ([]DailyViews, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if days <= 0 {
		days = 30
	}
	if days > 366 {
		days = 366
	}

	today := StartOfDay(s.clock())
	r := Range{From: today.AddDate(0, 0, -(days - 1)), To: today.AddDate(0, 0, 1)}

	var rows []models.PageView
	if err := s.db.WithContext(ctx).
		Where("username = ? AND day >= ? AND day <= ?", username, r.FirstDay(), r.LastDay()).
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query daily views")
	}
	byDay := make(map[string]int64, len(rows))
	for _, row := range rows {
		byDay[row.Day] += row.Views
	}

	series := make([]DailyViews, 0, days)
	for d := r.From; d.Before(r.To); d = d.AddDate(0, 0, 1) {
		key := DayKey(d)
		series = append(series, DailyViews{Day: key, Views: byDay[key]})
	}
	return series, nil
}
