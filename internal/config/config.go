package config

import (
	"os"
	"strings"
)

// Store backend identifiers for ConversationStore.
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Lead failure policies applied when the external sink rejects a lead.
const (
	FailurePolicyDiscard = "discard"
	FailurePolicyKeep    = "keep"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Meta webhook + Graph API
	VerifyToken     string
	PageAccessToken string
	AppSecret       string

	// Lead sink (Google Sheets)
	GoogleCredsFile string
	SheetID         string
	SheetTab        string

	// Conversation store
	ConversationStore string
	DatabaseURL       string
	RedisAddr         string
	RedisPassword     string
	RedisTLS          bool

	// Terminal-step behavior when the sheet append fails
	LeadFailurePolicy string

	// Admin surface
	AdminJWTSecret string

	// Operator notification (optional)
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	LeadNotifyEmail   string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:     getEnv("PORT", "3000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		VerifyToken:     getEnv("VERIFY_TOKEN", ""),
		PageAccessToken: getEnv("PAGE_ACCESS_TOKEN", ""),
		AppSecret:       getEnv("APP_SECRET", ""),

		GoogleCredsFile: getEnv("GOOGLE_CREDS", "google-creds.json"),
		SheetID:         getEnv("SHEET_ID", ""),
		SheetTab:        getEnv("SHEET_TAB", "leads"),

		ConversationStore: strings.ToLower(strings.TrimSpace(getEnv("CONVERSATION_STORE", "auto"))),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisTLS:          getEnvAsBool("REDIS_TLS", false),

		LeadFailurePolicy: strings.ToLower(strings.TrimSpace(getEnv("LEAD_FAILURE_POLICY", FailurePolicyDiscard))),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "GymLead AI"),
		LeadNotifyEmail:   getEnv("LEAD_NOTIFY_EMAIL", ""),
	}

	cfg.ConversationStore = resolveStoreBackend(cfg)
	if cfg.LeadFailurePolicy != FailurePolicyKeep {
		cfg.LeadFailurePolicy = FailurePolicyDiscard
	}

	return cfg
}

// resolveStoreBackend maps the "auto" selector to a concrete backend based on
// which connection settings are present.
func resolveStoreBackend(cfg *Config) string {
	switch cfg.ConversationStore {
	case StorePostgres, StoreRedis, StoreMemory:
		return cfg.ConversationStore
	}
	if cfg.DatabaseURL != "" {
		return StorePostgres
	}
	if cfg.RedisAddr != "" {
		return StoreRedis
	}
	return StoreMemory
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "1", "t", "true", "yes":
		return true
	case "0", "f", "false", "no":
		return false
	}
	return defaultValue
}
