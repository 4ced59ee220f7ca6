package config

import (
	"errors"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds file and environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via the config file or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	TokenTTL           time.Duration
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Database
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis for caching and token revocation
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	PortfolioTTL  time.Duration
	// Gin framework configuration
	GinMode string
	GinPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Page view periods
	TimeZone  string
	WeekStart string
	// Media host
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
	MediaPublicURL string
	MediaMaxSizeMB int
}

// keys maps viper keys (grouped as in config.json) onto the environment variables overriding them.
var keys = map[string]string{
	"app.port":               "APP_PORT",
	"app.jwtsecret":          "JWT_SECRET",
	"app.tokenttl":           "TOKEN_TTL",
	"app.ratelimitperminute": "RATE_LIMIT_PER_MINUTE",
	"app.allowedorigins":     "CORS_ALLOWED_ORIGINS",
	"database.uri":           "DATABASE_URI",
	"database.host":          "DB_HOST",
	"database.port":          "DB_PORT",
	"database.user":          "DB_USER",
	"database.password":      "DB_PASSWORD",
	"database.name":          "DB_NAME",
	"redis.host":             "REDIS_HOST",
	"redis.port":             "REDIS_PORT",
	"redis.db":               "REDIS_DB",
	"redis.password":         "REDIS_PASSWORD",
	"redis.portfoliottl":     "PORTFOLIO_CACHE_TTL",
	"gin.mode":               "GIN_MODE",
	"gin.logpath":            "GIN_PATH",
	"log.level":              "LOG_LEVEL",
	"log.path":               "LOG_PATH",
	"log.maxsizemb":          "LOG_MAX_SIZE_MB",
	"log.maxbackups":         "LOG_MAX_BACKUPS",
	"log.maxagedays":         "LOG_MAX_AGE_DAYS",
	"log.compress":           "LOG_COMPRESS",
	"analytics.timezone":     "TIME_ZONE",
	"analytics.weekstart":    "WEEK_START",
	"media.endpoint":         "MINIO_ENDPOINT",
	"media.accesskey":        "MINIO_ACCESS_KEY",
	"media.secretkey":        "MINIO_SECRET_KEY",
	"media.bucket":           "MINIO_BUCKET",
	"media.usessl":           "MINIO_USE_SSL",
	"media.publicurl":        "MEDIA_PUBLIC_URL",
	"media.maxsizemb":        "MEDIA_MAX_SIZE_MB",
}

// Load reads the application configuration. It is called once during boot and the
// result is passed explicitly to everything that needs it.
func Load() AppConfig {
	// Precedence: defaults -> config/config.json -> environment variable overrides
	v, err := newViper(filepath.Join("config", "config.json"))
	if err != nil {
		log.Fatalf("invalid config file: %v", err)
	}
	cfg := fromViper(v)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}
	return cfg
}

// newViper builds a viper instance with defaults, the optional JSON file and env bindings.
// A missing file is not an error; malformed JSON is.
func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	applyDefaults(v)
	for key, env := range keys {
		_ = v.BindEnv(key, env)
	}

	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || isNotExist(err) {
			return v, nil
		}
		return nil, err
	}
	return v, nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.tokenttl", "72h")
	v.SetDefault("app.ratelimitperminute", 60)
	v.SetDefault("app.allowedorigins", []string{"*"})
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.name", "folio")
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.portfoliottl", "10m")
	v.SetDefault("gin.mode", "release")
	v.SetDefault("gin.logpath", "logs/go_gin.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 3)
	v.SetDefault("log.maxagedays", 7)
	v.SetDefault("analytics.timezone", "Local")
	v.SetDefault("analytics.weekstart", "monday")
	v.SetDefault("media.bucket", "folio")
	v.SetDefault("media.maxsizemb", 5)
}

func fromViper(v *viper.Viper) AppConfig {
	return AppConfig{
		AppPort:            v.GetString("app.port"),
		JWTSecret:          v.GetString("app.jwtsecret"),
		TokenTTL:           v.GetDuration("app.tokenttl"),
		RateLimitPerMinute: v.GetInt("app.ratelimitperminute"),
		AllowedOrigins:     readList(v, "app.allowedorigins"),
		DatabaseURI:        v.GetString("database.uri"),
		DBHost:             v.GetString("database.host"),
		DBPort:             v.GetString("database.port"),
		DBUser:             v.GetString("database.user"),
		DBPassword:         v.GetString("database.password"),
		DBName:             v.GetString("database.name"),
		RedisHost:          v.GetString("redis.host"),
		RedisPort:          v.GetInt("redis.port"),
		RedisDB:            v.GetInt("redis.db"),
		RedisPassword:      v.GetString("redis.password"),
		PortfolioTTL:       v.GetDuration("redis.portfoliottl"),
		GinMode:            v.GetString("gin.mode"),
		GinPath:            v.GetString("gin.logpath"),
		LogLevel:           v.GetString("log.level"),
		LogPath:            v.GetString("log.path"),
		LogMaxSizeMB:       v.GetInt("log.maxsizemb"),
		LogMaxBackups:      v.GetInt("log.maxbackups"),
		LogMaxAgeDays:      v.GetInt("log.maxagedays"),
		LogCompress:        v.GetBool("log.compress"),
		TimeZone:           v.GetString("analytics.timezone"),
		WeekStart:          v.GetString("analytics.weekstart"),
		MinIOEndpoint:      v.GetString("media.endpoint"),
		MinIOAccessKey:     v.GetString("media.accesskey"),
		MinIOSecretKey:     v.GetString("media.secretkey"),
		MinIOBucket:        v.GetString("media.bucket"),
		MinIOUseSSL:        v.GetBool("media.usessl"),
		MediaPublicURL:     v.GetString("media.publicurl"),
		MediaMaxSizeMB:     v.GetInt("media.maxsizemb"),
	}
}

// Location resolves the configured time zone, falling back to the server's local zone.
func (c AppConfig) Location() *time.Location {
	if c.TimeZone == "" || strings.EqualFold(c.TimeZone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		log.Printf("unknown time zone %q, using local: %v", c.TimeZone, err)
		return time.Local
	}
	return loc
}

// Weekday resolves the configured first day of the week. Anything other than "sunday" means Monday (ISO).
func (c AppConfig) Weekday() time.Weekday {
	if strings.EqualFold(strings.TrimSpace(c.WeekStart), "sunday") {
		return time.Sunday
	}
	return time.Monday
}

// readList accepts either a JSON array or a comma separated env value.
func readList(v *viper.Viper, key string) []string {
	items := []string{}
	for _, raw := range v.GetStringSlice(key) {
		for _, item := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	}
	return items
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
