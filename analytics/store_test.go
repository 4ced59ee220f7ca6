package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/folio/models"
	"github.com/cppla/folio/testutil"
)

var fixedNow = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := testutil.NewDB(t)
	return NewStore(db, time.UTC, time.Monday, WithClock(func() time.Time { return fixedNow }))
}

func viewsOf(t *testing.T, stats *Stats, p Period) int64 {
	t.Helper()
	for _, pv := range stats.PageViews {
		if pv.Period == p {
			return pv.Views
		}
	}
	t.Fatalf("period %q missing from stats", p)
	return 0
}

func TestRecordVisit_FiveTimesSameDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordVisit(ctx, "alice"))
	}

	stats, err := s.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(5), viewsOf(t, stats, Today))
	assert.Equal(t, int64(0), viewsOf(t, stats, Yesterday))
	assert.Equal(t, int64(5), stats.TotalViews)

	var rows []models.PageView
	require.NoError(t, s.db.Where("username = ?", "alice").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-10-15", rows[0].Day)
}

func TestStats_UnknownUsernameIsZero(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.Stats(context.Background(), "nobody")
	require.NoError(t, err)
	require.Len(t, stats.PageViews, len(Periods))
	for i, pv := range stats.PageViews {
		assert.Equal(t, Periods[i], pv.Period)
		assert.Zero(t, pv.Views)
	}
	assert.Zero(t, stats.TotalViews)
}

func TestStats_SumsRowsByDateRange(t *testing.T) {
	s := newTestStore(t)
	seed := []models.PageView{
		{Username: "carol", Day: "2026-10-15", Views: 2}, // today, this week, this month
		{Username: "carol", Day: "2026-10-14", Views: 3}, // yesterday, this week
		{Username: "carol", Day: "2026-10-12", Views: 1}, // monday of this week
		{Username: "carol", Day: "2026-10-08", Views: 4}, // last week
		{Username: "carol", Day: "2026-09-30", Views: 5}, // last month
		{Username: "carol", Day: "2026-09-02", Views: 6}, // last month
		{Username: "carol", Day: "2025-01-01", Views: 7}, // only in total
		{Username: "dave", Day: "2026-10-15", Views: 100},
	}
	require.NoError(t, s.db.Create(&seed).Error)

	stats, err := s.Stats(context.Background(), "carol")
	require.NoError(t, err)

	assert.Equal(t, int64(2), viewsOf(t, stats, Today))
	assert.Equal(t, int64(3), viewsOf(t, stats, Yesterday))
	assert.Equal(t, int64(6), viewsOf(t, stats, ThisWeek))
	assert.Equal(t, int64(4), viewsOf(t, stats, LastWeek))
	assert.Equal(t, int64(10), viewsOf(t, stats, ThisMonth))
	assert.Equal(t, int64(11), viewsOf(t, stats, LastMonth))
	assert.Equal(t, int64(28), stats.TotalViews)
}

// Visits run on separate connections; only the ON CONFLICT upsert keeps the count exact.
func TestRecordVisit_ConcurrentNoLostUpdates(t *testing.T) {
	db := testutil.NewConcurrentDB(t, 8)
	s := NewStore(db, time.UTC, time.Monday, WithClock(func() time.Time { return fixedNow }))
	ctx := context.Background()
	const n = 25

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.RecordVisit(ctx, "bob")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stats, err := s.Stats(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(n), viewsOf(t, stats, Today))
}

func TestRecordVisit_BlankUsername(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.RecordVisit(context.Background(), "  "), ErrUsernameRequired)
	_, err := s.Stats(context.Background(), "")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	var count int64
	require.NoError(t, s.db.Model(&models.PageView{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecordVisit_NewDayStartsNewRow(t *testing.T) {
	db := testutil.NewDB(t)
	now := fixedNow
	s := NewStore(db, time.UTC, time.Monday, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, s.RecordVisit(ctx, "erin"))
	require.NoError(t, s.RecordVisit(ctx, "erin"))
	now = now.Add(24 * time.Hour)
	require.NoError(t, s.RecordVisit(ctx, "erin"))

	stats, err := s.Stats(ctx, "erin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), viewsOf(t, stats, Today))
	assert.Equal(t, int64(2), viewsOf(t, stats, Yesterday))
	assert.Equal(t, int64(3), stats.TotalViews)
}

func TestDaily_ZeroFilledSeries(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.db.Create(&[]models.PageView{
		{Username: "fay", Day: "2026-10-13", Views: 4},
		{Username: "fay", Day: "2026-10-15", Views: 1},
	}).Error)

	series, err := s.Daily(context.Background(), "fay", 3)
	require.NoError(t, err)
	assert.Equal(t, []DailyViews{
		{Day: "2026-10-13", Views: 4},
		{Day: "2026-10-14", Views: 0},
		{Day: "2026-10-15", Views: 1},
	}, series)
}
