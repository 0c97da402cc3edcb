package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Port        string
	Environment string
	// SMTP Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPSecure   bool // Implicit TLS (port 465 style). STARTTLS is negotiated otherwise.
	SMTPUsername string
	SMTPPassword string
	// SMTPInsecureSkipVerify disables certificate validation towards the relay.
	// Enabled by default because the relays in use sit behind self-signed intermediates.
	SMTPInsecureSkipVerify bool
	// Message envelope
	EmailFrom     string
	EmailFromName string
	EmailTo       []string // Parsed once from a comma separated list
	// CORS
	AllowedOrigins []string
	// Rate Limiting Configuration
	RateLimitWindow      time.Duration
	RateLimitMaxRequests int
	// Redis Configuration (optional, shared rate limit counters)
	RedisURL      string
	RedisPassword string
	// Request body limit in bytes
	BodyLimitBytes int64
	// Reverse proxies (IPs or CIDRs) whose X-Forwarded-For is honoured. Empty trusts none.
	TrustedProxies []string
}

func LoadConfig() (*Config, error) {
	// Load .env file (only useful locally, missing file is ignored)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "3001"),
		Environment: resolveEnvironment(),
		// SMTP Configuration
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               getEnvInt("SMTP_PORT", 587),
		SMTPSecure:             getEnvBool("SMTP_SECURE", false),
		SMTPUsername:           getEnv("SMTP_USER", ""),
		SMTPPassword:           getEnv("SMTP_PASS", ""),
		SMTPInsecureSkipVerify: getEnvBool("SMTP_TLS_INSECURE_SKIP_VERIFY", true),
		// Envelope
		EmailFrom:     strings.TrimSpace(getEnv("EMAIL_FROM", "")),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "GX Services Contact Form"),
		EmailTo:       getEnvList("EMAIL_TO", nil),
		// CORS
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		// Rate Limiting Configuration (15 minutes / 10 requests)
		RateLimitWindow:      time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 15*60*1000)) * time.Millisecond,
		RateLimitMaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 10),
		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// 10 MiB, same as the JSON parser limit of the previous deployment
		BodyLimitBytes: int64(getEnvInt("BODY_LIMIT_BYTES", 10<<20)),
		// Proxies
		TrustedProxies: getEnvList("TRUSTED_PROXIES", nil),
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory counters.")
	}

	return cfg, nil
}

// Validate reports settings without which the contact endpoint cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.SMTPHost == "" {
		errs = append(errs, errors.New("SMTP_HOST is required"))
	}
	if c.EmailFrom == "" {
		errs = append(errs, errors.New("EMAIL_FROM is required"))
	}
	if len(c.EmailTo) == 0 {
		errs = append(errs, errors.New("EMAIL_TO must list at least one recipient"))
	}
	if c.RateLimitMaxRequests <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX_REQUESTS must be positive"))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW_MS must be positive"))
	}
	for _, p := range c.TrustedProxies {
		if !validProxy(p) {
			errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", p))
		}
	}
	return errors.Join(errs...)
}

func validProxy(p string) bool {
	if _, _, err := net.ParseCIDR(p); err == nil {
		return true
	}
	return net.ParseIP(p) != nil
}

// IsProduction reports whether diagnostic details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// IsDevelopment reports whether error details may be echoed back to clients.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// resolveEnvironment prefers ENVIRONMENT, then NODE_ENV for older deployments,
// then GIN_MODE=release.
func resolveEnvironment() string {
	if env := strings.ToLower(strings.TrimSpace(getEnv("ENVIRONMENT", getEnv("NODE_ENV", "")))); env != "" {
		return env
	}
	if os.Getenv("GIN_MODE") == "release" {
		return EnvProduction
	}
	return EnvDevelopment
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, trimming entries and dropping empty ones.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return SplitList(value)
}

// SplitList splits a comma separated list, trimming each entry.
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
