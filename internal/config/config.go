package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Credential mode constants
const (
	CredentialModeFixed      = "fixed"       // client id/secret from server configuration
	CredentialModePerRequest = "per_request" // client id/secret supplied by the caller
)

// Ban verdict status constants
const (
	BanStatusBanned = "banned"
	BanStatusFail   = "fail"
)

// Audit sink constants
const (
	AuditSinkDatabase = "database"
	AuditSinkSheet    = "sheet"
)

type Config struct {
	// Server settings
	ServerAddr string
	Env        string // "development" or "production"

	// Credential handling
	CredentialMode string // "fixed" or "per_request"

	// Reddit API settings
	RedditClientID     string
	RedditClientSecret string // empty is valid for installed apps
	RedditRedirectURI  string
	RedditTokenURL     string
	RedditProfileURL   string
	RedditUserAgent    string
	RedditTimeout      time.Duration

	// Eligibility rule
	MinKarma            int64
	MinAccountAgeMonths int
	BanStatus           string // "banned" or "fail"

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string

	// Audit logging
	AuditEnabled    bool
	AuditSinks      []string // "database", "sheet"
	AuditBufferSize int
	AuditRetention  time.Duration
	AuditSplitAge   bool // true: age gets its own column; false: folded into reason

	// Sheet webhook sink
	SheetWebhookURL string
	SheetID         string
	SheetName       string
	SheetAuthMode   string // "none", "simple", or "hmac"
	SheetAuthSecret string
	SheetAuthHeader string
	SheetTimeout    time.Duration

	// Metrics
	MetricsEnabled bool
	MetricsToken   string

	// Admin API
	AdminToken string
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		ServerAddr: ":" + getEnv("PORT", "3000"),
		Env:        getEnv("ENV", "development"),

		CredentialMode: getEnv("CREDENTIAL_MODE", CredentialModeFixed),

		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		RedditRedirectURI:  getEnv("REDDIT_REDIRECT_URI", ""),
		RedditTokenURL: getEnv(
			"REDDIT_TOKEN_URL",
			"https://www.reddit.com/api/v1/access_token",
		),
		RedditProfileURL: getEnv("REDDIT_PROFILE_URL", "https://oauth.reddit.com/api/v1/me"),
		RedditUserAgent:  getEnv("REDDIT_USER_AGENT", "FancyKarmaVerifier/1.0"),
		RedditTimeout:    getEnvDuration("REDDIT_TIMEOUT", 10*time.Second),

		MinKarma:            getEnvInt64("MIN_KARMA", 200),
		MinAccountAgeMonths: getEnvInt("MIN_ACCOUNT_AGE_MONTHS", 8),
		BanStatus:           getEnv("BAN_STATUS", BanStatusBanned),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "verifications.db"),

		AuditEnabled:    getEnvBool("AUDIT_ENABLED", true),
		AuditSinks:      getEnvSlice("AUDIT_SINKS", []string{AuditSinkDatabase}),
		AuditBufferSize: getEnvInt("AUDIT_BUFFER_SIZE", 1000),
		AuditRetention:  getEnvDuration("AUDIT_RETENTION", 90*24*time.Hour),
		AuditSplitAge:   getEnvBool("AUDIT_SPLIT_AGE", false),

		SheetWebhookURL: getEnv("SHEET_WEBHOOK_URL", ""),
		SheetID:         getEnv("SHEET_ID", ""),
		SheetName:       getEnv("SHEET_NAME", "karmaLog"),
		SheetAuthMode:   getEnv("SHEET_AUTH_MODE", "none"),
		SheetAuthSecret: getEnv("SHEET_AUTH_SECRET", ""),
		SheetAuthHeader: getEnv("SHEET_AUTH_HEADER", "X-API-Secret"),
		SheetTimeout:    getEnvDuration("SHEET_TIMEOUT", 10*time.Second),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),

		AdminToken: getEnv("ADMIN_TOKEN", ""),
	}
}

// Validate checks that the configuration is internally consistent
func (c *Config) Validate() error {
	switch c.CredentialMode {
	case CredentialModeFixed:
		// Installed apps use a blank secret, so only the client ID is
		// required. The redirect URI may instead arrive per request, so
		// an empty configured default is checked at request time.
		if c.RedditClientID == "" {
			return fmt.Errorf("REDDIT_CLIENT_ID is required in fixed credential mode")
		}
	case CredentialModePerRequest:
		// Credentials come from the caller; nothing to require here
	default:
		return fmt.Errorf(
			"invalid CREDENTIAL_MODE: %s (must be %q or %q)",
			c.CredentialMode,
			CredentialModeFixed,
			CredentialModePerRequest,
		)
	}

	switch c.BanStatus {
	case BanStatusBanned, BanStatusFail:
	default:
		return fmt.Errorf(
			"invalid BAN_STATUS: %s (must be %q or %q)",
			c.BanStatus,
			BanStatusBanned,
			BanStatusFail,
		)
	}

	for _, sink := range c.AuditSinks {
		switch sink {
		case AuditSinkDatabase, AuditSinkSheet:
		default:
			return fmt.Errorf("invalid audit sink: %s", sink)
		}
	}

	if c.AuditEnabled && c.hasSink(AuditSinkSheet) && c.SheetWebhookURL == "" {
		return fmt.Errorf("SHEET_WEBHOOK_URL is required when the sheet audit sink is enabled")
	}

	if c.RedditTimeout <= 0 {
		return fmt.Errorf("REDDIT_TIMEOUT must be positive")
	}

	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DatabaseSinkEnabled reports whether audit rows are written to the database
func (c *Config) DatabaseSinkEnabled() bool {
	return c.AuditEnabled && c.hasSink(AuditSinkDatabase)
}

// SheetSinkEnabled reports whether audit rows are appended to the sheet webhook
func (c *Config) SheetSinkEnabled() bool {
	return c.AuditEnabled && c.hasSink(AuditSinkSheet)
}

func (c *Config) hasSink(name string) bool {
	for _, sink := range c.AuditSinks {
		if sink == name {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		var i int64
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := []string{}
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
