// Package config builds the process configuration once at startup.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/firstpriority/website/pkg/mailer"
	"github.com/joho/godotenv"
)

const (
	defaultPort          = "8000"
	defaultDataDir       = "data"
	defaultSessionSecret = "dev-secret-change-in-production-32bytes"
	defaultRateLimit     = 10
)

// Config is the full process configuration.
type Config struct {
	Port          string
	DataDir       string
	SessionSecret string
	LogLevel      string
	SMTP          mailer.Config

	// HiringNotify routes hiring applications through the mail relay before
	// falling back to the applications file.
	HiringNotify bool

	RateLimitPerMinute int

	// CookieSecure marks the flash cookie Secure. Turn it on whenever the
	// site is served over HTTPS.
	CookieSecure bool

	// Warnings collects non-fatal problems found while loading.
	Warnings []string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary key lookup, which keeps
// tests off the real environment.
func FromLookup(lookup func(string) (string, bool)) *Config {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}
	// Credentials are taken verbatim; surrounding spaces may be part of them.
	getRaw := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	cfg := &Config{
		Port:          get("PORT", defaultPort),
		DataDir:       get("DATA_DIR", defaultDataDir),
		SessionSecret: get("SESSION_SECRET", defaultSessionSecret),
		LogLevel:      get("LOG_LEVEL", "INFO"),
		HiringNotify:  strings.EqualFold(get("HIRING_NOTIFY", "false"), "true"),
		SMTP: mailer.Config{
			Host:     get("SMTP_HOST", ""),
			Username: getRaw("SMTP_USER"),
			Password: getRaw("SMTP_PASSWORD"),
			Sender:   get("SMTP_SENDER", ""),
			Receiver: get("SMTP_RECEIVER", ""),
			UseTLS:   strings.EqualFold(get("SMTP_USE_TLS", "true"), "true"),
		},
		RateLimitPerMinute: defaultRateLimit,
		CookieSecure:       strings.EqualFold(get("COOKIE_SECURE", "false"), "true"),
	}

	if p := get("SMTP_PORT", ""); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 65535 {
			cfg.Warnings = append(cfg.Warnings, "SMTP_PORT is not a valid port: "+p)
		} else {
			cfg.SMTP.Port = n
		}
	}

	if v := get("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			cfg.Warnings = append(cfg.Warnings, "RATE_LIMIT_PER_MINUTE is not a positive integer: "+v)
		} else {
			cfg.RateLimitPerMinute = n
		}
	}

	return cfg
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
