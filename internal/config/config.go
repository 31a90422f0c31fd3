package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AuthMode decides which catalog routes sit behind the auth guard.
type AuthMode string

const (
	AuthModeNone   AuthMode = "none"   // All catalog routes are public (default)
	AuthModeWrites AuthMode = "writes" // POST/PUT/DELETE require a session
	AuthModeAll    AuthMode = "all"    // Every catalog route requires a session
)

// DatabaseDriver selects the SQL backend.
type DatabaseDriver string

const (
	DriverSQLite DatabaseDriver = "sqlite"
	DriverMySQL  DatabaseDriver = "mysql"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type (
	Config struct {
		App
		HTTP
		Global
		Database
		Auth
		CORS
		CSRF
		RateLimit
		Logging
		Audit
		Tasks
	}

	App struct {
		Env      string // development or production
		ReadOnly bool   // maintenance mode, catalog writes return 403
	}
	HTTP struct {
		Port           int32
		Host           string
		RequestTimeout time.Duration
		TrustedProxies []string // IPs or CIDRs allowed to set X-Forwarded-For; empty trusts none
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver   DatabaseDriver
		Path     string // SQLite file
		DSN      string // MySQL DSN
		LogLevel string // silent, error, warn, info
	}
	Auth struct {
		Mode       AuthMode
		JWTSecret  string
		TokenTTL   time.Duration
		BcryptCost int

		// Sign-in lockout
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	CORS struct {
		AllowedOrigins []string
	}
	CSRF struct {
		Enabled bool
		Secret  string
	}
	RateLimit struct {
		RPS   float64 // 0 disables the per-IP limiter
		Burst int
	}
	Logging struct {
		Level  string
		Format string // text or json
	}
	Audit struct {
		RetentionDays   int
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

// loadEnvFile reads a dotenv file into the process environment without
// overriding variables that are already set.
func loadEnvFile() {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
}

func NewConfig() *Config {
	loadEnvFile()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("app_env", EnvDevelopment)
	v.SetDefault("read_only", false)
	v.SetDefault("port", 4000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("http_request_timeout", "30s")
	v.SetDefault("trusted_proxies", "")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", string(DriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_level", "warn")

	// Auth defaults
	v.SetDefault("catalog_auth", string(AuthModeNone))
	v.SetDefault("jwt_secret", "") // Generated in development if empty
	v.SetDefault("auth_token_ttl", "24h")
	v.SetDefault("auth_bcrypt_cost", 10)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	v.SetDefault("cors_allowed_origins", "http://localhost:4000,http://localhost:6969")
	v.SetDefault("csrf_enabled", false)
	v.SetDefault("csrf_secret", "")
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 20)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		App: App{
			Env:      strings.ToLower(v.GetString("APP_ENV")),
			ReadOnly: v.GetBool("READ_ONLY"),
		},
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			RequestTimeout: v.GetDuration("HTTP_REQUEST_TIMEOUT"),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   DatabaseDriver(strings.ToLower(v.GetString("DATABASE_DRIVER"))),
			Path:     v.GetString("DATABASE_PATH"),
			DSN:      v.GetString("DATABASE_DSN"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Auth: Auth{
			Mode:             AuthMode(strings.ToLower(v.GetString("CATALOG_AUTH"))),
			JWTSecret:        v.GetString("JWT_SECRET"),
			TokenTTL:         v.GetDuration("AUTH_TOKEN_TTL"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		CSRF: CSRF{
			Enabled: v.GetBool("CSRF_ENABLED"),
			Secret:  v.GetString("CSRF_SECRET"),
		},
		RateLimit: RateLimit{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}

var (
	ErrUnknownDriver   = errors.New("unknown database driver")
	ErrUnknownAuthMode = errors.New("unknown auth mode")
	ErrMissingSecret   = errors.New("JWT_SECRET is required in production")
	ErrMissingDSN      = errors.New("DATABASE_DSN is required for the mysql driver")
	ErrTrustedProxy    = errors.New("TRUSTED_PROXIES entry is not an IP or CIDR")
)

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverMySQL:
		if c.Database.DSN == "" {
			return ErrMissingDSN
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}

	switch c.Auth.Mode {
	case AuthModeNone, AuthModeWrites, AuthModeAll:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAuthMode, c.Auth.Mode)
	}

	for _, proxy := range c.HTTP.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("%w: %q", ErrTrustedProxy, proxy)
		}
	}

	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

// EnsureSecrets fills empty signing secrets with random values. Tokens and
// CSRF cookies signed with a generated secret do not survive a restart.
// It reports whether anything was generated.
func (c *Config) EnsureSecrets() (bool, error) {
	generated := false
	if c.Auth.JWTSecret == "" {
		s, err := randomHex(32)
		if err != nil {
			return false, err
		}
		c.Auth.JWTSecret = s
		generated = true
	}
	if c.CSRF.Enabled && c.CSRF.Secret == "" {
		s, err := randomHex(16)
		if err != nil {
			return false, err
		}
		c.CSRF.Secret = s
		generated = true
	}
	return generated, nil
}

func validProxy(s string) bool {
	if net.ParseIP(s) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(s)
	return err == nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
