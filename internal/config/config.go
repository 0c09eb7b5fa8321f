package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	AppURL      string
	Port        string
	ContentPath string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Admin
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	JWTExpiry         time.Duration

	// Email
	EmailFrom        string
	CoachEmail       string
	ResendAPIKey     string
	ResendAudienceID string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible, optional: uploads are disabled without a bucket)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration

	// Booking
	BookingTimezone     string
	BookingSlotDuration time.Duration
	BookingHorizonDays  int

	// Background jobs and limits
	SchedulerEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// Admin login gets its own, stricter bucket
	LoginRateLimitRPS   float64
	LoginRateLimitBurst int
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:     envString("APP_NAME", "lifeos"),
		AppEnv:      envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:      envRequired("APP_URL"), // Required: base URL for sitemap and email links
		Port:        envString("PORT", "8090"),
		ContentPath: envString("CONTENT_PATH", "content"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/lifeos.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Admin
		AdminEmail:        envRequired("ADMIN_EMAIL"),
		AdminPasswordHash: envRequired("ADMIN_PASSWORD_HASH"), // bcrypt, see "do hash-password"
		JWTSecret:         envRequired("JWT_SECRET"),
		JWTExpiry:         envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:        envString("EMAIL_FROM", "noreply@example.com"),
		CoachEmail:       envString("COACH_EMAIL", ""),
		ResendAPIKey:     envString("RESEND_API_KEY", ""),
		ResendAudienceID: envString("RESEND_AUDIENCE_ID", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 0), // 0: direct object URLs

		// Booking
		BookingTimezone:     envString("BOOKING_TIMEZONE", "UTC"),
		BookingSlotDuration: envDuration("BOOKING_SLOT_DURATION", 60*time.Minute),
		BookingHorizonDays:  envInt("BOOKING_HORIZON_DAYS", 28),

		SchedulerEnabled: envBool("SCHEDULER_ENABLED", true),
		RateLimitRPS:     envFloat("RATE_LIMIT_RPS", 0.2), // one request per 5s sustained
		RateLimitBurst:   envInt("RATE_LIMIT_BURST", 5),

		LoginRateLimitRPS:   envFloat("LOGIN_RATE_LIMIT_RPS", 1.0/60), // one attempt per minute sustained
		LoginRateLimitBurst: envInt("LOGIN_RATE_LIMIT_BURST", 3),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows email to run in log mode.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}

// BookingLocation resolves BOOKING_TIMEZONE, falling back to UTC for unknown names.
func (c *Config) BookingLocation() *time.Location {
	loc, err := time.LoadLocation(c.BookingTimezone)
	if err != nil {
		slog.Warn("config invalid booking timezone, using UTC", "value", c.BookingTimezone, "error", err)
		return time.UTC
	}
	return loc
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and sensitive data are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:             c.AppName,
		AppEnv:              c.AppEnv,
		AppURL:              c.AppURL,
		Port:                c.Port,
		EmailFrom:           c.EmailFrom,
		S3Endpoint:          c.S3Endpoint,
		BookingTimezone:     c.BookingTimezone,
		BookingSlotDuration: c.BookingSlotDuration,
		BookingHorizonDays:  c.BookingHorizonDays,
	}
}
