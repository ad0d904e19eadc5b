package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:             "8080",
		Env:              "development",
		MongoURI:         "mongodb://localhost:27017",
		JWTSecret:        defaultJWTSecret,
		Timezone:         "UTC",
		ReportRateWindow: "1h",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are fine outside production", mutate: func(c *Config) {}},
		{name: "missing mongo uri", mutate: func(c *Config) { c.MongoURI = "" }, wantErr: "MONGO_URI"},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: "TIMEZONE"},
		{name: "local timezone rejected", mutate: func(c *Config) { c.Timezone = "Local" }, wantErr: "IANA"},
		{name: "zone with daylight saving", mutate: func(c *Config) { c.Timezone = "Europe/Berlin" }},
		{name: "bad rate window", mutate: func(c *Config) { c.ReportRateWindow = "soon" }, wantErr: "REPORT_RATE_WINDOW"},
		{
			name:    "default secret rejected in production",
			mutate:  func(c *Config) { c.Env = "production" },
			wantErr: "default value",
		},
		{
			name: "short secret rejected in production",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "short-but-custom"
			},
			wantErr: "at least 32",
		},
		{
			name: "long custom secret accepted in production",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "0123456789abcdef0123456789abcdef"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ADMIN_EMAILS", " Root@Example.com, ,mod@example.com")
	t.Setenv("TIMEZONE", "Asia/Dhaka")
	t.Setenv("REPORT_RATE_WINDOW", "15m")
	t.Setenv("CLEANUP_MAX_TRIES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, []string{"root@example.com", "mod@example.com"}, cfg.AdminEmailList())
	assert.Equal(t, "Asia/Dhaka", cfg.Location().String())
	assert.Equal(t, 15*time.Minute, cfg.RateWindow())
	assert.Equal(t, uint(5), cfg.CleanupMaxTries)
	assert.Equal(t, 72, cfg.JWTTTLHours)
	assert.False(t, cfg.IsProduction())
}
