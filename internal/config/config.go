package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds process-level settings shared by the api, worker and queuectl
// binaries. Database settings live in storage/postgres.Config.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR,default=:8080"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	AdminToken      string        `env:"ADMIN_TOKEN"`
	ProcessInterval time.Duration `env:"PROCESS_INTERVAL,default=45s"`
	WebhookTimeout  time.Duration `env:"WEBHOOK_TIMEOUT,default=0s"`
	WebhookBackoff  string        `env:"WEBHOOK_BACKOFF,default=linear"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB,default=0"`
	LeadRateLimit  int           `env:"LEAD_RATE_LIMIT,default=10"`
	LeadRateWindow time.Duration `env:"LEAD_RATE_WINDOW,default=1m"`

	EmailEndpoint    string `env:"EMAIL_ENDPOINT"`
	TrackingEndpoint string `env:"TRACKING_ENDPOINT"`
}

// to help with testing
var envProcess = func(ctx context.Context, cfg any) error {
	return envconfig.Process(ctx, cfg)
}

func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envProcess(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	var errors []string

	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		errors = append(errors, "HTTP_ADDR is required")
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, "LOG_LEVEL must be one of debug, info, warn, error")
	}

	if cfg.ProcessInterval <= 0 {
		errors = append(errors, "PROCESS_INTERVAL must be positive")
	}

	if cfg.WebhookTimeout < 0 {
		errors = append(errors, "WEBHOOK_TIMEOUT must be non-negative")
	}

	if cfg.WebhookBackoff != "linear" && cfg.WebhookBackoff != "exponential" {
		errors = append(errors, "WEBHOOK_BACKOFF must be linear or exponential")
	}

	if cfg.LeadRateLimit < 0 {
		errors = append(errors, "LEAD_RATE_LIMIT must be non-negative")
	}

	if cfg.LeadRateWindow <= 0 {
		errors = append(errors, "LEAD_RATE_WINDOW must be positive")
	}

	for name, endpoint := range map[string]string{
		"EMAIL_ENDPOINT":    cfg.EmailEndpoint,
		"TRACKING_ENDPOINT": cfg.TrackingEndpoint,
	} {
		if endpoint == "" {
			continue
		}
		if u, err := url.Parse(endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, name+" must be an absolute URL")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
