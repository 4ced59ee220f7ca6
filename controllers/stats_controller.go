package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/folio/analytics"
	"github.com/cppla/folio/utils"
)

// StatsController exposes portfolio page-view counters.
type StatsController struct {
	store *analytics.Store
}

// NewStatsController creates a StatsController over store.
func NewStatsController(store *analytics.Store) *StatsController {
	return &StatsController{store: store}
}

// PageViews counts one visit to ?username= and returns the per-period report in
// the same call. If the increment fails no report is read.
func (s *StatsController) PageViews(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.Query("username"))
	if username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": analytics.ErrUsernameRequired.Error()})
		return
	}

	if err := s.store.RecordVisit(ctx.Request.Context(), username); err != nil {
		utils.Sugar.Errorw("record page view failed", "username", username, "err", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record page view"})
		return
	}

	stats, err := s.store.Stats(ctx.Request.Context(), username)
	if err != nil {
		utils.Sugar.Errorw("read page views failed", "username", username, "err", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read page views"})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// Daily returns a zero-filled per-day series for ?username= over ?days= (default 30).
func (s *StatsController) Daily(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.Query("username"))
	if username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": analytics.ErrUsernameRequired.Error()})
		return
	}
	days := 0
	if v := strings.TrimSpace(ctx.Query("days")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	series, err := s.store.Daily(ctx.Request.Context(), username, days)
	if err != nil {
		utils.Sugar.Errorw("read daily views failed", "username", username, "err", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read page views"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"username": username, "days": series})
}
