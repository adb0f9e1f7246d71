package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Reporting window in days, counted back from now.
	ReportWindowDays int

	// Demo search parameters for the pipeline run. Search is skipped when
	// neither location nor guests is set. RateLimitMs paces the category
	// queries against the hosted store; 0 disables pacing.
	SearchLocation string
	SearchGuests   int
	SearchType     string
	RateLimitMs    int

	CSVOutputDir string

	// SMTP settings for the report summary email. An empty host means the
	// provider is not configured and the summary is skipped.
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	SMTPFromName    string
	SMTPFromEmail   string
	ReportRecipient string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "pingpe"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "pingpe123"),
		PostgresDB:       getEnv("POSTGRES_DB", "marketplace_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ReportWindowDays: getEnvInt("REPORT_WINDOW_DAYS", 30),

		SearchLocation: getEnv("SEARCH_LOCATION", ""),
		SearchGuests:   getEnvInt("SEARCH_GUESTS", 0),
		SearchType:     getEnv("SEARCH_TYPE", "all"),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 0),

		CSVOutputDir: getEnv("CSV_OUTPUT_DIR", "./output"),

		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnvInt("SMTP_PORT", 587),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SMTPFromName:    getEnv("SMTP_FROM_NAME", "PingPe Reports"),
		SMTPFromEmail:   getEnv("SMTP_FROM_EMAIL", "reports@pingpe.local"),
		ReportRecipient: getEnv("REPORT_RECIPIENT", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
