package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	DatabaseURL    string
	SessionSecret  string
	SessionIssuer  string
	HTTPListenAddr string
	LogLevel       string
	ServiceName    string
	CORSOrigins    []string
	SecureCookies  bool
	MigrationsDir  string
	PlansFile      string
	RedisURL       string

	// Acronis credentials are only checked when a token is first requested.
	AcronisBaseURL        string
	AcronisClientID       string
	AcronisClientSecret   string
	AcronisParentTenantID string

	BitdefenderBaseURL   string
	BitdefenderAPIKey    string
	BitdefenderCompanyID string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SessionSecret:  getEnv("SESSION_SECRET", ""),
		SessionIssuer:  getEnv("SESSION_ISSUER", "clinicguard-api"),
		HTTPListenAddr: getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServiceName:    getEnv("SERVICE_NAME", "clinicguard-api"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		SecureCookies:  getEnv("SECURE_COOKIES", "true") != "false",
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "migrations"),
		PlansFile:      getEnv("PLANS_FILE", ""),
		RedisURL:       getEnv("REDIS_URL", ""),

		AcronisBaseURL:        strings.TrimRight(getEnv("ACRONIS_BASE_URL", "https://eu2-cloud.acronis.com"), "/"),
		AcronisClientID:       getEnv("ACRONIS_CLIENT_ID", ""),
		AcronisClientSecret:   getEnv("ACRONIS_CLIENT_SECRET", ""),
		AcronisParentTenantID: getEnv("ACRONIS_PARENT_TENANT_ID", ""),

		BitdefenderBaseURL:   strings.TrimRight(getEnv("BITDEFENDER_BASE_URL", "https://cloud.gravityzone.bitdefender.com/api"), "/"),
		BitdefenderAPIKey:    getEnv("BITDEFENDER_API_KEY", ""),
		BitdefenderCompanyID: getEnv("BITDEFENDER_COMPANY_ID", ""),
	}

	return cfg, nil
}

// Validate reports every missing required key at once. Acronis keys are not
// required here; the client fails on first use instead.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if c.BitdefenderAPIKey == "" {
		missing = append(missing, "BITDEFENDER_API_KEY")
	}
	if c.BitdefenderCompanyID == "" {
		missing = append(missing, "BITDEFENDER_COMPANY_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
