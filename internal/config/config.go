// Package config provides application configuration loaded from environment
// variables (and optionally a config file or CLI flags bound through viper)
// with defaults and validation. It centralizes server timeouts, logging,
// database selection, sessions, pagination, rate limiting and observability.
package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tbourn/recettes/internal/sysutil"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// SessionConfig defines the signed session cookie.
type SessionConfig struct {
	Secret       string        // SESSION_SECRET; random per process when empty
	TTL          time.Duration // SESSION_TTL
	CookieSecure bool          // COOKIE_SECURE
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "recettes")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for the JSON API

	// Storage
	DBDriver    string // sqlite|postgres
	DBPath      string // SQLite path
	DatabaseURL string // Postgres DSN

	// Catalog
	PageSize   int // results per page in searches and the API
	BcryptCost int // password hashing cost

	Session SessionConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// defaults are registered on every viper instance built by NewViper.
var defaults = map[string]any{
	"PORT":                        "8080",
	"READ_TIMEOUT":                "15s",
	"READ_HEADER_TIMEOUT":         "10s",
	"WRITE_TIMEOUT":               "20s",
	"IDLE_TIMEOUT":                "60s",
	"MAX_HEADER_BYTES":            strconv.Itoa(1 << 20),
	"GIN_MODE":                    "release",
	"LOG_LEVEL":                   "info",
	"LOG_PRETTY":                  "false",
	"SWAGGER_ENABLED":             "false",
	"API_BASE_PATH":               "/api",
	"DB_DRIVER":                   "sqlite",
	"DB_PATH":                     "recettes.sqlite",
	"DATABASE_URL":                "",
	"PAGE_SIZE":                   "10",
	"BCRYPT_COST":                 "12",
	"SESSION_SECRET":              "",
	"SESSION_TTL":                 "24h",
	"COOKIE_SECURE":               "false",
	"RATE_RPS":                    "5",
	"RATE_BURST":                  "20",
	"CORS_ALLOWED_ORIGINS":        "",
	"ENABLE_HSTS":                 "false",
	"HSTS_MAX_AGE":                (180 * 24 * time.Hour).String(),
	"OTEL_ENABLED":                "false",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "localhost:4317",
	"OTEL_EXPORTER_OTLP_INSECURE": "true",
	"OTEL_SERVICE_NAME":           "recettes",
	"OTEL_TRACES_SAMPLER_ARG":     "1.0",
}

// NewViper returns a viper instance reading the environment, with every
// known key defaulted. Callers may bind flags or a config file on it before
// passing it to FromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()
	return v
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	return FromViper(NewViper())
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (Config, error) {
	r := reader{v: v}
	cfg := Config{
		// Server
		Port:              r.str("PORT"),
		ReadTimeout:       r.dur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: r.dur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      r.dur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       r.dur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    r.int("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(r.str("GIN_MODE")),

		// Logging / Docs
		LogLevel:       strings.ToLower(r.str("LOG_LEVEL")),
		LogPretty:      r.bool("LOG_PRETTY"),
		SwaggerEnabled: r.bool("SWAGGER_ENABLED"),
		APIBasePath:    normalizeBasePath(r.str("API_BASE_PATH")),

		// Storage
		DBDriver:    strings.ToLower(strings.TrimSpace(r.str("DB_DRIVER"))),
		DBPath:      r.str("DB_PATH"),
		DatabaseURL: r.str("DATABASE_URL"),

		// Catalog
		PageSize:   r.int("PAGE_SIZE", 10),
		BcryptCost: r.int("BCRYPT_COST", 12),

		Session: SessionConfig{
			Secret:       r.str("SESSION_SECRET"),
			TTL:          r.dur("SESSION_TTL", 24*time.Hour),
			CookieSecure: r.bool("COOKIE_SECURE"),
		},

		// Rate limiting
		RateRPS:   r.float("RATE_RPS", 5.0),
		RateBurst: r.int("RATE_BURST", 20),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(r.str("CORS_ALLOWED_ORIGINS")),
		},
		Security: SecurityConfig{
			EnableHSTS: r.bool("ENABLE_HSTS"),
			HSTSMaxAge: r.dur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     r.bool("OTEL_ENABLED"),
			Endpoint:    r.str("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure:    r.bool("OTEL_EXPORTER_OTLP_INSECURE"),
			ServiceName: sysutil.FirstNonEmpty(r.str("OTEL_SERVICE_NAME"), "recettes"),
			SampleRatio: r.float("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DBDriver == "postgresql" || cfg.DBDriver == "pg" {
		cfg.DBDriver = "postgres"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DBDriver {
	case "sqlite":
		if strings.TrimSpace(cfg.DBPath) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return cfg, errors.New("DATABASE_URL must not be empty when DB_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return cfg, errors.New("PAGE_SIZE must be between 1 and 100")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return cfg, errors.New("BCRYPT_COST must be between 4 and 31")
	}
	if s := cfg.Session.Secret; s != "" && len(s) < 16 {
		return cfg, errors.New("SESSION_SECRET must be at least 16 bytes")
	}
	if cfg.Session.TTL <= 0 {
		return cfg, errors.New("SESSION_TTL must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	if cfg.APIBasePath == "/" {
		return cfg, errors.New("API_BASE_PATH must not be the site root")
	}

	return cfg, nil
}

// reader parses viper values, falling back to a default when a value does
// not parse (viper's typed getters silently return zero values instead).
type reader struct{ v *viper.Viper }

func (r reader) str(k string) string { return strings.TrimSpace(r.v.GetString(k)) }

func (r reader) float(k string, def float64) float64 {
	if f, err := strconv.ParseFloat(r.str(k), 64); err == nil {
		return f
	}
	return def
}

func (r reader) int(k string, def int) int {
	if i, err := strconv.Atoi(r.str(k)); err == nil {
		return i
	}
	return def
}

func (r reader) bool(k string) bool { return sysutil.IsTruthy(r.str(k)) }

func (r reader) dur(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(r.str(k)); err == nil {
		return d
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
