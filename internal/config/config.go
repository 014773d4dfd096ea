package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	VendorAPI VendorAPIConfig
	Console   ConsoleConfig
	Session   SessionConfig
	DB        DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// VendorAPIConfig points at the remote vendor record backend.
type VendorAPIConfig struct {
	BaseURL  string
	Resource string // collection path, "/vendedoractivo" on the production backend
	Timeout  time.Duration
	Debug    bool
}

// ConsoleConfig identifies the operator and guards the local HTTP surface.
type ConsoleConfig struct {
	Operator        string
	PasswordHash    string // bcrypt; empty disables operator auth
	AllowedHosts    []string
	RefreshInterval time.Duration // 0 disables the refresh worker
}

// SessionConfig selects where the operator's bearer token is kept.
type SessionConfig struct {
	Store string // "memory" or "redis"
}

// DatabaseConfig contains PostgreSQL connection parameters for the audit log.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Enabled reports whether an audit database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN renders the lib/pq connection URL with credentials escaped.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   hostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr is the host:port go-redis dials.
func (r RedisConfig) Addr() string {
	return hostPort(r.Host, r.Port)
}

func hostPort(host, port string) string {
	if port == "" {
		return host
	}
	return net.JoinHostPort(host, port)
}

// RateLimitConfig bounds login attempts and mutations per client IP.
type RateLimitConfig struct {
	LoginPerMinute    int
	MutationPerSecond int
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Vendor API
	cfg.VendorAPI.BaseURL = getEnv("VENDOR_API_BASE_URL", "https://europadel-back.vercel.app/api")
	cfg.VendorAPI.Resource = getEnv("VENDOR_API_RESOURCE", "/vendedoractivo")
	var err error
	if cfg.VendorAPI.Timeout, err = parseDurationEnv("VENDOR_API_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid VENDOR_API_TIMEOUT: %w", err)
	}
	cfg.VendorAPI.Debug = getEnv("VENDOR_API_DEBUG", "false") == "true"

	// Console
	cfg.Console = ConsoleConfig{
		Operator:     getEnv("CONSOLE_OPERATOR", "admin"),
		PasswordHash: getEnv("CONSOLE_PASSWORD_HASH", ""),
		AllowedHosts: splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000")),
	}
	if cfg.Console.RefreshInterval, err = parseDurationEnv("CONSOLE_REFRESH_INTERVAL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid CONSOLE_REFRESH_INTERVAL: %w", err)
	}

	// Session
	cfg.Session.Store = strings.ToLower(getEnv("SESSION_STORE", "memory"))
	if cfg.Session.Store != "memory" && cfg.Session.Store != "redis" {
		return nil, fmt.Errorf("invalid SESSION_STORE %q: must be memory or redis", cfg.Session.Store)
	}

	// Audit database (optional)
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Rate limits
	cfg.RateLimit = RateLimitConfig{
		LoginPerMinute:    getEnvInt("LOGIN_RATE_PER_MIN", 5),
		MutationPerSecond: getEnvInt("MUTATION_RATE_PER_SEC", 5),
	}

	if cfg.DB.Enabled() && (cfg.DB.User == "" || cfg.DB.Name == "") {
		return nil, errors.New("database configuration incomplete: ensure DB_USER and DB_NAME are set when DB_HOST is set")
	}
	if cfg.RateLimit.LoginPerMinute <= 0 || cfg.RateLimit.MutationPerSecond <= 0 {
		return nil, errors.New("rate limits must be positive")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
