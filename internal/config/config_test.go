package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	original := envProcess
	envProcess = func(ctx context.Context, v any) error {
		return envconfig.ProcessWith(ctx, &envconfig.Config{
			Target:   v,
			Lookuper: envconfig.MapLookuper(env),
		})
	}
	t.Cleanup(func() { envProcess = original })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		expectError   bool
		errorContains string
		validate      func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":8080", cfg.HTTPAddr)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 45*time.Second, cfg.ProcessInterval)
				assert.Zero(t, cfg.WebhookTimeout)
				assert.Equal(t, "linear", cfg.WebhookBackoff)
				assert.Equal(t, 10, cfg.LeadRateLimit)
				assert.Equal(t, time.Minute, cfg.LeadRateWindow)
				assert.Empty(t, cfg.RedisAddr)
			},
		},
		{
			name: "custom values override defaults",
			env: map[string]string{
				"HTTP_ADDR":         ":9090",
				"LOG_LEVEL":         "debug",
				"ADMIN_TOKEN":       "secret",
				"PROCESS_INTERVAL":  "30s",
				"WEBHOOK_TIMEOUT":   "10s",
				"REDIS_ADDR":        "localhost:6379",
				"TRACKING_ENDPOINT": "https://tracking.example.com/events",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":9090", cfg.HTTPAddr)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "secret", cfg.AdminToken)
				assert.Equal(t, 30*time.Second, cfg.ProcessInterval)
				assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
				assert.Equal(t, "localhost:6379", cfg.RedisAddr)
				assert.Equal(t, "https://tracking.example.com/events", cfg.TrackingEndpoint)
			},
		},
		{
			name:          "invalid log level",
			env:           map[string]string{"LOG_LEVEL": "loud"},
			expectError:   true,
			errorContains: "LOG_LEVEL",
		},
		{
			name:          "non positive process interval",
			env:           map[string]string{"PROCESS_INTERVAL": "0s"},
			expectError:   true,
			errorContains: "PROCESS_INTERVAL must be positive",
		},
		{
			name:          "unknown backoff",
			env:           map[string]string{"WEBHOOK_BACKOFF": "fibonacci"},
			expectError:   true,
			errorContains: "WEBHOOK_BACKOFF must be linear or exponential",
		},
		{
			name:          "relative tracking endpoint",
			env:           map[string]string{"TRACKING_ENDPOINT": "/events"},
			expectError:   true,
			errorContains: "TRACKING_ENDPOINT must be an absolute URL",
		},
		{
			name:          "unparsable duration",
			env:           map[string]string{"WEBHOOK_TIMEOUT": "soon"},
			expectError:   true,
			errorContains: "failed to process env config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withEnv(t, tt.env)

			cfg, err := Load(context.Background())
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestLoad_ProcessError(t *testing.T) {
	original := envProcess
	envProcess = func(ctx context.Context, v any) error {
		return errors.New("env: lookup failed")
	}
	t.Cleanup(func() { envProcess = original })

	cfg, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process env config")
	assert.Nil(t, cfg)
}
