package routes

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/folio/analytics"
	"github.com/cppla/folio/config"
	"github.com/cppla/folio/testutil"
)

type harness struct {
	t  *testing.T
	db *gorm.DB
	h  http.Handler
}

func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := config.AppConfig{
		GinMode:            "test",
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		RateLimitPerMinute: 1000,
		TimeZone:           "UTC",
		WeekStart:          "monday",
	}
	h := SetupRouter(cfg, Deps{
		DB:               db,
		AnalyticsOptions: []analytics.Option{analytics.WithClock(func() time.Time { return now })},
	})
	return &harness{t: t, db: db, h: h}
}

func (h *harness) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.h.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// register creates an account and returns its id and token.
func (h *harness) register(username, name string) (uint, string) {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username, "name": name, "email": username + "@example.com", "password": "s3cret-pass",
	})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	decode(h.t, w, &env)
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(h.t, json.Unmarshal(env.Data, &data))
	return data.User.ID, data.Token
}

var errDBDown = errors.New("db down")

// failCreates makes every INSERT fail until the returned func is called.
func (h *harness) failCreates() (restore func()) {
	h.t.Helper()
	require.NoError(h.t, h.db.Callback().Create().Before("gorm:create").Register("test:fail_create", func(db *gorm.DB) {
		_ = db.AddError(errDBDown)
	}))
	return func() { require.NoError(h.t, h.db.Callback().Create().Remove("test:fail_create")) }
}

// failQueries makes every SELECT fail until the returned func is called.
func (h *harness) failQueries() (restore func()) {
	h.t.Helper()
	require.NoError(h.t, h.db.Callback().Query().Before("gorm:query").Register("test:fail_query", func(db *gorm.DB) {
		_ = db.AddError(errDBDown)
	}))
	return func() { require.NoError(h.t, h.db.Callback().Query().Remove("test:fail_query")) }
}

var thursday = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

func TestHealth(t *testing.T) {
	h := newHarness(t, thursday)
	w := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t, thursday)
	_, token := h.register("jane", "Jane Doe")

	w := h.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "jane", "password": "another-pass"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "jane", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "jane", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"jane"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = h.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t, thursday)
	w := h.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "jo", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/api/v1/auth/register", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSectionsAreScopedToOwner(t *testing.T) {
	h := newHarness(t, thursday)
	_, alice := h.register("alice", "Alice")
	_, bob := h.register("bob", "Bob")

	w := h.do(http.MethodPost, "/api/v1/experiences", alice, map[string]interface{}{
		"title": "Engineer", "company": "Acme", "start_date": "2022-01", "description": "<b>Built</b> things",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var env envelope
	decode(t, w, &env)
	var created struct {
		ID          uint       `json:"id"`
		UserID      uint       `json:"user_id"`
		StartDate   time.Time  `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
		Description string     `json:"description"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Nil(t, created.EndDate)
	assert.Equal(t, time.January, created.StartDate.Month())
	assert.Equal(t, "Built things", created.Description)

	path := fmt.Sprintf("/api/v1/experiences/%d", created.ID)
	update := map[string]interface{}{"title": "Lead", "company": "Acme", "start_date": "2022-01-01", "end_date": "2024-03-01"}

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPut, path, bob, update).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, path, bob, nil).Code)

	w = h.do(http.MethodGet, "/api/v1/experiences", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Engineer")

	w = h.do(http.MethodPut, path, alice, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"title":"Lead"`)

	bad := map[string]interface{}{"title": "Lead", "company": "Acme", "start_date": "2024-01", "end_date": "2023-01"}
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPut, path, alice, bad).Code)

	assert.Equal(t, http.StatusOK, h.do(http.MethodDelete, path, alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, path, alice, nil).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodDelete, "/api/v1/experiences/abc", alice, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/v1/experiences", "", nil).Code)
}

func TestSocialVisibilityDefaultsToTrue(t *testing.T) {
	h := newHarness(t, thursday)
	_, token := h.register("jane", "Jane Doe")

	w := h.do(http.MethodPost, "/api/v1/socials", token, map[string]interface{}{"platform": "GitHub", "url": "https://github.com/jane"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"visible":true`)

	w = h.do(http.MethodPost, "/api/v1/socials", token, map[string]interface{}{"platform": "X", "url": "https://x.com/jane", "visible": false})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"visible":false`)

	w = h.do(http.MethodGet, "/api/v1/portfolio/jane", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "GitHub")
	assert.NotContains(t, w.Body.String(), "x.com")
}

func TestProfileUpdate(t *testing.T) {
	h := newHarness(t, thursday)
	_, token := h.register("jane", "Jane Doe")

	w := h.do(http.MethodPut, "/api/v1/profile", token, map[string]string{"tagline": "Backend <i>engineer</i>", "website": "https://jane.dev"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"tagline":"Backend engineer"`)
	assert.Contains(t, w.Body.String(), `"name":"Jane Doe"`)

	w = h.do(http.MethodPut, "/api/v1/profile", token, map[string]string{"website": "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPortfolioUnknownUser(t *testing.T) {
	h := newHarness(t, thursday)
	w := h.do(http.MethodGet, "/api/v1/portfolio/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResumeDownload(t *testing.T) {
	h := newHarness(t, thursday)
	id, token := h.register("jane", "Jane Doe")
	w := h.do(http.MethodPost, "/api/v1/skills", token, map[string]string{"name": "Go", "category": "Languages"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/resume", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Jane_Doe_Resume.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = h.do(http.MethodGet, "/api/v1/users/999/resume", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var env envelope
	decode(t, w, &env)
	assert.Equal(t, "user not found", env.Message)

	w = h.do(http.MethodGet, "/api/v1/users/x/resume", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResumeDownload_NonASCIIName(t *testing.T) {
	h := newHarness(t, thursday)
	id, _ := h.register("zoe", "Zoë Müller")

	w := h.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/resume", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t,
		`attachment; filename="Zo__M_ller_Resume.pdf"; filename*=UTF-8''Zo%C3%AB_M%C3%BCller_Resume.pdf`,
		w.Header().Get("Content-Disposition"))
}

func TestResumeDownload_StoreFailure(t *testing.T) {
	h := newHarness(t, thursday)
	id, _ := h.register("jane", "Jane Doe")
	defer h.failQueries()()

	w := h.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/resume", id), "", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.NotContains(t, w.Header().Get("Content-Type"), "application/pdf")

	var env envelope
	decode(t, w, &env)
	assert.Equal(t, 50000, env.Code)
	assert.Equal(t, "internal server error", env.Message)
	assert.NotContains(t, w.Body.String(), errDBDown.Error())
}

func TestPageViews_IncrementFailure(t *testing.T) {
	h := newHarness(t, thursday)
	restore := h.failCreates()

	w := h.do(http.MethodGet, "/api/v1/pageviews?username=jane", "", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to record page view"}`, w.Body.String())

	restore()
	w = h.do(http.MethodGet, "/api/v1/pageviews/daily?username=jane&days=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var daily struct {
		Days []analytics.DailyViews `json:"days"`
	}
	decode(t, w, &daily)
	require.Len(t, daily.Days, 1)
	assert.EqualValues(t, 0, daily.Days[0].Views)
}

func TestPageViews_StatsReadFailure(t *testing.T) {
	h := newHarness(t, thursday)
	restore := h.failQueries()

	w := h.do(http.MethodGet, "/api/v1/pageviews?username=jane", "", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to read page views"}`, w.Body.String())

	// the increment ran before the read failed
	restore()
	w = h.do(http.MethodGet, "/api/v1/pageviews/daily?username=jane&days=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var daily struct {
		Days []analytics.DailyViews `json:"days"`
	}
	decode(t, w, &daily)
	require.Len(t, daily.Days, 1)
	assert.Equal(t, analytics.DailyViews{Day: "2026-10-15", Views: 1}, daily.Days[0])
}

func TestPageViews(t *testing.T) {
	h := newHarness(t, thursday)

	w := h.do(http.MethodGet, "/api/v1/pageviews", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"username is required"}`, w.Body.String())

	var stats analytics.Stats
	for i := 0; i < 5; i++ {
		w = h.do(http.MethodGet, "/api/v1/pageviews?username=jane", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	decode(t, w, &stats)
	require.Len(t, stats.PageViews, len(analytics.Periods))
	assert.Equal(t, analytics.Today, stats.PageViews[0].Period)
	assert.EqualValues(t, 5, stats.PageViews[0].Views)
	assert.EqualValues(t, 0, stats.PageViews[1].Views)
	assert.EqualValues(t, 5, stats.TotalViews)

	w = h.do(http.MethodGet, "/api/v1/pageviews/daily?username=jane&days=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var daily struct {
		Days []analytics.DailyViews `json:"days"`
	}
	decode(t, w, &daily)
	require.Len(t, daily.Days, 3)
	assert.Equal(t, analytics.DailyViews{Day: "2026-10-15", Views: 5}, daily.Days[2])

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/v1/pageviews/daily?username=jane&days=-1", "", nil).Code)
}

func TestMediaUnavailableWithoutStore(t *testing.T) {
	h := newHarness(t, thursday)
	_, token := h.register("jane", "Jane Doe")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "a.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
