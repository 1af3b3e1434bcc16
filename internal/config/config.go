// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port       string
	DBPath     string
	BcryptCost int
	SeedDB     bool

	// SendGrid settings. An empty API key disables outbound email without
	// failing startup.
	SendGridAPIKey    string
	SendGridFromEmail string
}

func Load() *Config {
	return &Config{
		Port:              getenv("PORT", "8000"),
		DBPath:            getenv("DB_PATH", "invoice.db"),
		BcryptCost:        getenvInt("BCRYPT_COST", bcrypt.DefaultCost),
		SeedDB:            getenv("SEED_DB", "false") == "true",
		SendGridAPIKey:    getenv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getenv("SENDGRID_FROM_EMAIL", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
