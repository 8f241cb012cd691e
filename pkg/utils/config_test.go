package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Env: "production", Port: "8080"},
		Telegram:  TelegramConfig{BotToken: "123456:ABC"},
		RateLimit: RateLimitConfig{RPS: 20, Burst: 40},
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{
			name:    "zero burst with rate limit",
			mutate:  func(c *Config) { c.RateLimit.Burst = 0 },
			message: "RATE_LIMIT_BURST must be at least 1 when RATE_LIMIT_RPS is set",
		},
		{
			name:    "negative rps",
			mutate:  func(c *Config) { c.RateLimit.RPS = -1 },
			message: "RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative",
		},
		{
			name:    "skip auth in production",
			mutate:  func(c *Config) { c.Telegram.SkipAuth = true },
			message: "SKIP_TG_AUTH cannot be enabled when APP_ENV is production",
		},
		{
			name:    "missing bot token",
			mutate:  func(c *Config) { c.Telegram.BotToken = "" },
			message: "BOT_TOKEN is required unless SKIP_TG_AUTH is enabled",
		},
		{
			name:    "non numeric port",
			mutate:  func(c *Config) { c.App.Port = "http" },
			message: "PORT must be numeric",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)
			assert.EqualError(t, config.Validate(), tt.message)
		})
	}
}

func TestConfigValidate_RateLimitDisabled(t *testing.T) {
	config := validConfig()
	config.RateLimit = RateLimitConfig{RPS: 0, Burst: 0}
	assert.NoError(t, config.Validate())
}
