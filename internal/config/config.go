package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultMaxDocumentBytes = 10 * 1024 * 1024
	ServiceName             = "SeguraAssina API"
	ServiceVersion          = "1.0.0"
)

type Config struct {
	HTTPAddr string
	LogLevel string
	LogFile  string

	MaxDocumentBytes   int
	CORSAllowedOrigins []string
	MetricsEnabled     bool

	// RateLimitBudget is the number of cost units each client may spend per
	// window. A hash costs one unit; zero disables limiting.
	RateLimitBudget        int
	RateLimitWindowSeconds int
	RateLimitFailClosed    bool
	RateLimitMaxClients    int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ShutdownTimeoutSeconds int
}

// FromEnv reads configuration from the process environment.
func FromEnv() Config {
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("HTTP_ADDR", ":5000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("MAX_DOCUMENT_BYTES", defaultMaxDocumentBytes)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("RATE_LIMIT_BUDGET", 0)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("RATE_LIMIT_FAIL_CLOSED", false)
	v.SetDefault("RATE_LIMIT_MAX_CLIENTS", 50000)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) Config {
	return Config{
		HTTPAddr:               v.GetString("HTTP_ADDR"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		LogFile:                v.GetString("LOG_FILE"),
		MaxDocumentBytes:       intDefault(v, "MAX_DOCUMENT_BYTES", defaultMaxDocumentBytes, false),
		CORSAllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MetricsEnabled:         v.GetBool("METRICS_ENABLED"),
		RateLimitBudget:        intDefault(v, "RATE_LIMIT_BUDGET", 0, true),
		RateLimitWindowSeconds: intDefault(v, "RATE_LIMIT_WINDOW_SECONDS", 60, false),
		RateLimitFailClosed:    v.GetBool("RATE_LIMIT_FAIL_CLOSED"),
		RateLimitMaxClients:    intDefault(v, "RATE_LIMIT_MAX_CLIENTS", 50000, false),
		RedisAddr:              v.GetString("REDIS_ADDR"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RedisDB:                intDefault(v, "REDIS_DB", 0, true),
		ShutdownTimeoutSeconds: intDefault(v, "SHUTDOWN_TIMEOUT_SECONDS", 10, false),
	}
}

// intDefault returns def when the value does not parse, is negative, or is
// zero and zero is not allowed.
func intDefault(v *viper.Viper, key string, def int, allowZero bool) int {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 || (parsed == 0 && !allowZero) {
		return def
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) MaxDocumentSize() int64 {
	if c.MaxDocumentBytes <= 0 {
		return defaultMaxDocumentBytes
	}
	return int64(c.MaxDocumentBytes)
}

func (c Config) RateLimitWindow() time.Duration {
	if c.RateLimitWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
