package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig controls the per-IP token bucket applied to the auth
// endpoints.
type RateLimitConfig struct {
	Enabled bool
	RPS     float64       // steady-state requests per second per client
	Burst   int           // bucket size
	TTL     time.Duration // idle time before a client's bucket is dropped
}

// LoadRateLimitConfig reads the rate limit settings, defaulting to a
// modest per-IP budget.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		RPS:     envFloat("RATE_LIMIT_RPS", 5),
		Burst:   envInt("RATE_LIMIT_BURST", 10),
		TTL:     envDur("RATE_LIMIT_TTL", 10*time.Minute),
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	return cfg
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func envFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}
