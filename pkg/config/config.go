// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"parkorder/pkg/logger"
)

// Config holds the service settings.
type Config struct {
	Addr    string
	TLSCert string
	TLSKey  string

	// DatabaseURL selects PostgreSQL; orders are kept in memory when empty.
	DatabaseURL string
	// RedisAddr selects Redis sessions; sessions are kept in memory when empty.
	RedisAddr string
	// NATSURL enables order change events when set.
	NATSURL     string
	NATSSubject string

	OTelHost         string
	TraceProbability float64

	SubmitTimeout time.Duration
	GracePeriod   time.Duration
	SessionTTL    time.Duration
	// SessionSweep is how often sessions expired in the store are dropped
	// from memory.
	SessionSweep time.Duration
	LogLevel     logger.Level

	// Admins maps staff user names to their passwords. Only they may use the
	// order endpoints.
	Admins map[string]string
}

// Load reads the configuration, applying defaults for unset variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:        stringOr(getenv("ADDR"), ":8443"),
		TLSCert:     getenv("TLS_CERT"),
		TLSKey:      getenv("TLS_KEY"),
		DatabaseURL: getenv("DATABASE_URL"),
		RedisAddr:   getenv("REDIS_ADDR"),
		NATSURL:     getenv("NATS_URL"),
		NATSSubject: stringOr(getenv("NATS_SUBJECT"), "orders"),
		OTelHost:    getenv("OTEL_HOST"),
	}

	var err error
	if cfg.TraceProbability, err = floatOr(getenv, "TRACE_PROBABILITY", 1.0); err != nil {
		return Config{}, err
	}
	if cfg.TraceProbability < 0 || cfg.TraceProbability > 1 {
		return Config{}, fmt.Errorf("TRACE_PROBABILITY must be within [0,1], got %v", cfg.TraceProbability)
	}
	if cfg.SubmitTimeout, err = durationOr(getenv, "SUBMIT_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.GracePeriod, err = durationOr(getenv, "GRACE_PERIOD", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationOr(getenv, "SESSION_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SessionSweep, err = durationOr(getenv, "SESSION_SWEEP", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Admins, err = parseAdmins(getenv("ADMIN_USERS")); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel, err = logger.ParseLevel(stringOr(getenv("LOG_LEVEL"), "info")); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return Config{}, fmt.Errorf("TLS_CERT and TLS_KEY must be set together")
	}
	return cfg, nil
}

// TLS reports whether the server should serve HTTPS.
func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// parseAdmins reads "name:password,name:password".
func parseAdmins(v string) (map[string]string, error) {
	admins := make(map[string]string)
	if strings.TrimSpace(v) == "" {
		return admins, nil
	}
	for _, pair := range strings.Split(v, ",") {
		name, password, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || name == "" || password == "" {
			return nil, fmt.Errorf("ADMIN_USERS: want name:password, got %q", pair)
		}
		admins[name] = password
	}
	return admins, nil
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func durationOr(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

func floatOr(getenv func(string) string, key string, def float64) (float64, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
