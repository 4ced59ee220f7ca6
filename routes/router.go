package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cppla/folio/analytics"
	"github.com/cppla/folio/config"
	"github.com/cppla/folio/controllers"
	"github.com/cppla/folio/media"
	"github.com/cppla/folio/middleware"
	"github.com/cppla/folio/services"
	"github.com/cppla/folio/utils"
)

// Deps are the process-wide resources created once in main. Redis and Media may be nil.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client
	Media *media.Store
	// AnalyticsOptions customise the page-view store, e.g. a fixed clock in tests.
	AnalyticsOptions []analytics.Option
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, deps Deps) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, true))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Metrics())

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Shared services
	cache := utils.NewCache(deps.Redis, cfg.PortfolioTTL)
	issuer := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	blacklist := utils.NewTokenBlacklist(deps.Redis)
	portfolios := services.NewPortfolioService(deps.DB)
	stats := analytics.NewStore(deps.DB, cfg.Location(), cfg.Weekday(), deps.AnalyticsOptions...)

	authController := controllers.NewAuthController(services.NewAuthService(deps.DB), issuer, blacklist)
	profileController := controllers.NewProfileController(services.NewProfileService(deps.DB), cache)
	portfolioController := controllers.NewPortfolioController(portfolios, cache)
	resumeController := controllers.NewResumeController(services.NewResumeService(portfolios))
	statsController := controllers.NewStatsController(stats)
	mediaController := controllers.NewMediaController(deps.Media, cfg.MediaMaxSizeMB)

	requireAuth := middleware.AuthRequired(issuer, blacklist)
	limiter := middleware.RateLimitMiddleware(cfg.RateLimitPerMinute)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", limiter, authController.Register)
	authGroup.POST("/login", limiter, authController.Login)
	authGroup.POST("/logout", requireAuth, authController.Logout)
	authGroup.GET("/me", requireAuth, authController.Me)

	// Public
	api.GET("/portfolio/:username", portfolioController.Get)
	api.GET("/users/:id/resume", resumeController.Download)
	api.GET("/pageviews", statsController.PageViews)
	api.GET("/pageviews/daily", statsController.Daily)

	protected := api.Group("")
	protected.Use(requireAuth)
	protected.GET("/profile", profileController.Get)
	protected.PUT("/profile", limiter, profileController.Update)
	protected.POST("/media", limiter, mediaController.Upload)

	controllers.RegisterSections(protected, deps.DB, cache)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})
	return r
}
