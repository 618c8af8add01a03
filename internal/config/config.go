package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the runtime configuration read from the environment.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	ListenAddr  string

	// Reconciliation schedule: hourly passes, short retry backoff
	// after a failed run.
	ReconcileInterval time.Duration
	ReconcileRetry    time.Duration

	// Minimum Available batteries a station keeps per type before the
	// planner treats it as in deficit.
	RebalanceThreshold int
}

func Load() Config {
	return Config{
		DatabaseURL:        getEnv("DATABASE_URL", "swapnet.db"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		ReconcileInterval:  getDuration("RECONCILE_INTERVAL", time.Hour),
		ReconcileRetry:     getDuration("RECONCILE_RETRY", 5*time.Minute),
		RebalanceThreshold: getInt("REBALANCE_THRESHOLD", 3),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
