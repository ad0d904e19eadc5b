package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "supersecretjwtkey"

type Config struct {
	Port                    string `mapstructure:"PORT"`
	Env                     string `mapstructure:"ENV"`
	MongoURI                string `mapstructure:"MONGO_URI"`
	MongoDB                 string `mapstructure:"MONGO_DB"`
	MongoTransactions       bool   `mapstructure:"MONGO_TRANSACTIONS"`
	PostgresURL             string `mapstructure:"POSTGRES_CONN_STR"`
	RedisURL                string `mapstructure:"REDIS_URL"`
	JWTSecret               string `mapstructure:"JWT_SECRET"`
	JWTTTLHours             int    `mapstructure:"JWT_TTL_HOURS"`
	AdminEmails             string `mapstructure:"ADMIN_EMAILS"`
	Timezone                string `mapstructure:"TIMEZONE"`
	LogLevel                string `mapstructure:"LOG_LEVEL"`
	LogFormat               string `mapstructure:"LOG_FORMAT"`
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	FirebaseBucket          string `mapstructure:"FIREBASE_BUCKET"`
	SMTPHost                string `mapstructure:"SMTP_HOST"`
	SMTPPort                string `mapstructure:"SMTP_PORT"`
	SMTPUser                string `mapstructure:"SMTP_USER"`
	SMTPPass                string `mapstructure:"SMTP_PASS"`
	SMTPFrom                string `mapstructure:"SMTP_FROM"`
	AppBaseURL              string `mapstructure:"APP_BASE_URL"`
	SentryDSN               string `mapstructure:"SENTRY_DSN"`
	ReportRateLimit         int    `mapstructure:"REPORT_RATE_LIMIT"`
	ReportRateWindow        string `mapstructure:"REPORT_RATE_WINDOW"`
	CleanupMaxTries         uint   `mapstructure:"CLEANUP_MAX_TRIES"`
}

var defaults = map[string]interface{}{
	"PORT":                      "8080",
	"ENV":                       "development",
	"MONGO_URI":                 "mongodb://localhost:27017",
	"MONGO_DB":                  "linkup",
	"MONGO_TRANSACTIONS":        false,
	"POSTGRES_CONN_STR":         "",
	"REDIS_URL":                 "localhost:6379",
	"JWT_SECRET":                defaultJWTSecret,
	"JWT_TTL_HOURS":             72,
	"ADMIN_EMAILS":              "",
	"TIMEZONE":                  "UTC",
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "console",
	"FIREBASE_CREDENTIALS_PATH": "",
	"FIREBASE_BUCKET":           "",
	"SMTP_HOST":                 "",
	"SMTP_PORT":                 "587",
	"SMTP_USER":                 "",
	"SMTP_PASS":                 "",
	"SMTP_FROM":                 "",
	"APP_BASE_URL":              "http://localhost:8080",
	"SENTRY_DSN":                "",
	"REPORT_RATE_LIMIT":         10,
	"REPORT_RATE_WINDOW":        "1h",
	"CLEANUP_MAX_TRIES":         3,
}

// Load reads .env (if present) and the environment into a validated Config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, assuming environment variables are set.")
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate ensures required values are present and production secrets are not defaults
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.MongoURI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	// Mongo's $dateToString takes IANA names; "Local" would pin today's offset onto every past date
	if strings.EqualFold(c.Timezone, "Local") {
		return errors.New("TIMEZONE must be an IANA zone name such as Asia/Dhaka, not Local")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	if _, err := time.ParseDuration(c.ReportRateWindow); err != nil {
		return fmt.Errorf("REPORT_RATE_WINDOW %q: %w", c.ReportRateWindow, err)
	}
	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Location is the server-local day boundary used by dashboard aggregation
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RateWindow is REPORT_RATE_WINDOW as a duration
func (c *Config) RateWindow() time.Duration {
	d, err := time.ParseDuration(c.ReportRateWindow)
	if err != nil {
		return time.Hour
	}
	return d
}

// AdminEmailList splits ADMIN_EMAILS into lowercase addresses
func (c *Config) AdminEmailList() []string {
	if c.AdminEmails == "" {
		return nil
	}
	parts := strings.Split(c.AdminEmails, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
			emails = append(emails, trimmed)
		}
	}
	return emails
}
