package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string
	Port        string

	// Upstream product/order API
	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	// Session state
	RedisURL   string
	JWTSecret  string
	SessionTTL time.Duration
	CartTTL    time.Duration

	// Payments
	StripeSecretKey string

	// Order events (best-effort)
	KafkaBrokers    []string
	OrderEventTopic string

	// OTP login
	ResendCooldown time.Duration
}

// Load reads configuration from the environment with development defaults.
func Load() Config {
	return Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		Port:            getEnv("PORT", "8080"),
		UpstreamBaseURL: getEnv("UPSTREAM_API_URL", "http://localhost:5000"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		SessionTTL:      getDuration("SESSION_TTL", 24*time.Hour),
		CartTTL:         getDuration("CART_TTL", 7*24*time.Hour),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		KafkaBrokers:    getList("KAFKA_BROKERS", ""),
		OrderEventTopic: getEnv("ORDER_EVENT_TOPIC", "order.placed"),
		ResendCooldown:  getDuration("OTP_RESEND_COOLDOWN", 30*time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getList(key, defaultVal string) []string {
	val := getEnv(key, defaultVal)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
