// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"codemasters_backend/platform/validator"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetStaticDir() string
	GetMaxBodyBytes() int64
	GetTrustedProxies() []string
}

// AdminConfig provides the shared secret guarding the admin endpoints.
type AdminConfig interface {
	GetAdminToken() string
}

// MongoConfig provides document store connection settings.
type MongoConfig interface {
	GetMongoURI() string
	GetMongoDatabase() string
	GetMongoCollection() string
	GetMongoConnectTimeout() time.Duration
	IsMongoEnabled() bool
}

// SheetsConfig provides spreadsheet sink settings. Credential problems are
// reported through GetServiceAccountError instead of failing startup.
type SheetsConfig interface {
	GetSheetsSpreadsheetID() string
	GetSheetsTabName() string
	GetServiceAccountJSON() []byte
	GetServiceAccountError() string
}

// RateLimitConfig provides submission throttling settings.
type RateLimitConfig interface {
	GetRateLimitMax() int
	GetRateLimitWindow() time.Duration
	GetRedisURL() string
}

// NotificationConfig provides settings for staff notification emails.
type NotificationConfig interface {
	GetNotifyEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromAddress() string
	GetEmailFromName() string
	GetNotifyEmailTo() string
	GetPhoneRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env          string `validate:"required"`
	HTTPAddr     string `validate:"required"`
	StaticDir    string `validate:"required"`
	MaxBodyBytes int64  `validate:"gte=1024"`

	CORSAllowAll   bool
	CORSOrigins    []string
	TrustedProxies []string `validate:"dive,cidr|ip"`

	AdminToken string

	MongoURI            string        `validate:"omitempty,startswith=mongodb"`
	MongoDatabase       string        `validate:"required"`
	MongoCollection     string        `validate:"required"`
	MongoConnectTimeout time.Duration `validate:"gt=0"`

	SheetsSpreadsheetID string
	SheetsTabName       string `validate:"required"`
	ServiceAccountJSON  []byte
	ServiceAccountError string

	RateLimitMax    int           `validate:"gte=1"`
	RateLimitWindow time.Duration `validate:"gt=0"`
	RedisURL        string        `validate:"omitempty,startswith=redis"`

	NotifyEmailEnabled bool
	SMTPHost           string
	SMTPPort           int    `validate:"gte=1,lte=65535"`
	SMTPUsername       string
	SMTPPassword       string
	EmailFromAddress   string `validate:"omitempty,email"`
	EmailFromName      string
	NotifyEmailTo      string `validate:"omitempty,email"`
	PhoneRegion        string `validate:"omitempty,iso3166_1_alpha2"`
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetStaticDir() string     { return c.StaticDir }
func (c *Config) GetMaxBodyBytes() int64   { return c.MaxBodyBytes }
func (c *Config) GetTrustedProxies() []string {
	return c.TrustedProxies
}

// AdminConfig implementation
func (c *Config) GetAdminToken() string { return c.AdminToken }

// MongoConfig implementation
func (c *Config) GetMongoURI() string                   { return c.MongoURI }
func (c *Config) GetMongoDatabase() string              { return c.MongoDatabase }
func (c *Config) GetMongoCollection() string            { return c.MongoCollection }
func (c *Config) GetMongoConnectTimeout() time.Duration { return c.MongoConnectTimeout }
func (c *Config) IsMongoEnabled() bool                  { return c.MongoURI != "" }

// SheetsConfig implementation
func (c *Config) GetSheetsSpreadsheetID() string { return c.SheetsSpreadsheetID }
func (c *Config) GetSheetsTabName() string       { return c.SheetsTabName }
func (c *Config) GetServiceAccountJSON() []byte  { return c.ServiceAccountJSON }
func (c *Config) GetServiceAccountError() string { return c.ServiceAccountError }

// RateLimitConfig implementation
func (c *Config) GetRateLimitMax() int              { return c.RateLimitMax }
func (c *Config) GetRateLimitWindow() time.Duration { return c.RateLimitWindow }
func (c *Config) GetRedisURL() string               { return c.RedisURL }

// NotificationConfig implementation
func (c *Config) GetNotifyEmailEnabled() bool { return c.NotifyEmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetNotifyEmailTo() string    { return c.NotifyEmailTo }
func (c *Config) GetPhoneRegion() string      { return c.PhoneRegion }

// IsDevelopment reports whether the process runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from the environment (and an optional .env file)
// and validates it once.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	tabName := strings.TrimSpace(getEnv("GOOGLE_SHEETS_SHEET_NAME", "Inquiries"))
	if tabName == "" {
		tabName = "Sheet1"
	}

	credentials, credentialsErr := loadServiceAccount(
		getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
	)

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            ":" + getEnv("PORT", "3000"),
		StaticDir:           getEnv("STATIC_DIR", "public"),
		MaxBodyBytes:        mustInt64(getEnv("MAX_BODY_BYTES", "65536")),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		TrustedProxies:      splitCSV(getEnv("TRUSTED_PROXIES", "")),
		AdminToken:          getEnv("ADMIN_TOKEN", ""),
		MongoURI:            strings.TrimSpace(getEnv("MONGODB_URI", "")),
		MongoDatabase:       getEnv("MONGODB_DB", "codemasters"),
		MongoCollection:     getEnv("MONGODB_COLLECTION", "inquiries"),
		MongoConnectTimeout: mustDuration(getEnv("MONGODB_CONNECT_TIMEOUT", "10s")),
		SheetsSpreadsheetID: strings.TrimSpace(getEnv("GOOGLE_SHEETS_SPREADSHEET_ID", "")),
		SheetsTabName:       tabName,
		ServiceAccountJSON:  credentials,
		ServiceAccountError: credentialsErr,
		RateLimitMax:        int(mustInt64(getEnv("RATE_LIMIT_MAX", "15"))),
		RateLimitWindow:     mustDuration(getEnv("RATE_LIMIT_WINDOW", "15m")),
		RedisURL:            strings.TrimSpace(getEnv("REDIS_URL", "")),
		NotifyEmailEnabled:  strings.EqualFold(getEnv("NOTIFY_EMAIL_ENABLED", "false"), "true"),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            int(mustInt64(getEnv("SMTP_PORT", "587"))),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		EmailFromAddress:    getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Codemasters"),
		NotifyEmailTo:       getEnv("NOTIFY_EMAIL_TO", ""),
		PhoneRegion:         strings.ToUpper(strings.TrimSpace(getEnv("PHONE_DEFAULT_REGION", ""))),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(validator.Describe(err), "; "))
	}
	if cfg.NotifyEmailEnabled {
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP_HOST is required when NOTIFY_EMAIL_ENABLED is true")
		}
		if cfg.EmailFromAddress == "" || cfg.NotifyEmailTo == "" {
			return nil, fmt.Errorf("EMAIL_FROM_ADDRESS and NOTIFY_EMAIL_TO are required when NOTIFY_EMAIL_ENABLED is true")
		}
	}
	return cfg, nil
}

// loadServiceAccount returns normalized service-account JSON, or an empty
// slice and the reason the spreadsheet sink must be skipped. A credential
// file takes precedence over inline JSON.
func loadServiceAccount(filePath, inline string) ([]byte, string) {
	var raw []byte
	switch {
	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Sprintf("failed to load GOOGLE_SERVICE_ACCOUNT_FILE %s: %v", filePath, err)
		}
		raw = data
	case inline != "":
		raw = []byte(inline)
	default:
		return nil, "Service account not configured"
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Sprintf("failed to parse service account credentials: %v", err)
	}
	if key, ok := fields["private_key"].(string); ok {
		fields["private_key"] = strings.ReplaceAll(key, `\n`, "\n")
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Sprintf("failed to encode service account credentials: %v", err)
	}
	return normalized, ""
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
