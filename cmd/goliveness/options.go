package main

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	goLiveness "github.com/MrEthical07/goLiveness"
)

const (
	backendRedis  = "redis"
	backendSQLite = "sqlite"
)

type options struct {
	Backend    string
	RedisAddr  string
	Prefix     string
	SQLitePath string

	Margin          time.Duration
	Interval        time.Duration
	LoginPath       string
	ContinueOnError bool

	MetricsAddr string
	Audit       bool

	JWTSecret      string
	SeedAccessTTL  time.Duration
	SeedRefreshTTL time.Duration
	SeedSubject    string

	ExitOnLogout bool
}

// parseOptions reads flags from args. Every flag falls back to an env var so
// the binary can be configured from a .env file.
func parseOptions(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("goliveness", flag.ContinueOnError)

	fs.StringVar(&o.Backend, "backend", envOr("LIVENESS_BACKEND", backendRedis), "token store backend: redis or sqlite")
	fs.StringVar(&o.RedisAddr, "redis-addr", os.Getenv("REDIS_ADDR"), "redis address; empty starts an in-process miniredis")
	fs.StringVar(&o.Prefix, "prefix", envOr("LIVENESS_PREFIX", "gl"), "redis key prefix")
	fs.StringVar(&o.SQLitePath, "sqlite-path", envOr("LIVENESS_SQLITE_PATH", "goliveness.db"), "sqlite credential file")

	fs.DurationVar(&o.Margin, "margin", envDuration("LIVENESS_MARGIN", goLiveness.DefaultMargin), "expiry margin")
	fs.DurationVar(&o.Interval, "interval", envDuration("LIVENESS_INTERVAL", 15*time.Second), "watch interval")
	fs.StringVar(&o.LoginPath, "login-path", envOr("LIVENESS_LOGIN_PATH", goLiveness.DefaultLoginPath), "route to navigate to after logout")
	fs.BoolVar(&o.ContinueOnError, "continue-on-error", envBool("LIVENESS_CONTINUE_ON_ERROR", false), "run every logout step even if one fails")

	fs.StringVar(&o.MetricsAddr, "metrics-addr", os.Getenv("LIVENESS_METRICS_ADDR"), "serve prometheus metrics on this address; empty disables")
	fs.BoolVar(&o.Audit, "audit", envBool("LIVENESS_AUDIT", true), "log audit events")

	fs.StringVar(&o.JWTSecret, "jwt-secret", os.Getenv("LIVENESS_JWT_SECRET"), "hs256 secret for seeding and verifying tokens")
	fs.DurationVar(&o.SeedAccessTTL, "seed-access-ttl", envDuration("LIVENESS_SEED_ACCESS_TTL", 0), "seed an access token with this ttl")
	fs.DurationVar(&o.SeedRefreshTTL, "seed-refresh-ttl", envDuration("LIVENESS_SEED_REFRESH_TTL", 0), "seed a refresh token with this ttl")
	fs.StringVar(&o.SeedSubject, "seed-subject", envOr("LIVENESS_SEED_SUBJECT", "demo"), "subject of seeded tokens")

	fs.BoolVar(&o.ExitOnLogout, "exit-on-logout", envBool("LIVENESS_EXIT_ON_LOGOUT", true), "stop after the session is terminated")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, o.validate()
}

func (o options) validate() error {
	if o.Backend != backendRedis && o.Backend != backendSQLite {
		return errors.New("backend must be redis or sqlite")
	}
	if o.SeedAccessTTL < 0 || o.SeedRefreshTTL < 0 {
		return errors.New("seed ttl must not be negative")
	}
	return nil
}

func (o options) seeding() bool {
	return o.SeedAccessTTL > 0 || o.SeedRefreshTTL > 0
}

func (o options) monitorConfig() goLiveness.Config {
	cfg := goLiveness.DefaultConfig()
	cfg.Margin = o.Margin
	cfg.LoginPath = o.LoginPath
	cfg.Termination.ContinueOnError = o.ContinueOnError
	cfg.Watch.Interval = o.Interval
	cfg.Audit.Enabled = o.Audit
	cfg.Metrics.Enabled = o.MetricsAddr != ""
	cfg.Metrics.EnableLatencyHistograms = o.MetricsAddr != ""
	return cfg
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return def
}

func envBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}
