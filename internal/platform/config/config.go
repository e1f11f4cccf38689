package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string

	JWTSecret string
	JWTIssuer string

	LedgerCurrency     string
	CurrencyScale      int32
	LedgerLocation     *time.Location
	PostingMaxAttempts int

	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "bukubesar")
	viper.SetDefault("LEDGER_CURRENCY", "IDR")
	viper.SetDefault("CURRENCY_SCALE", 2)
	viper.SetDefault("LEDGER_TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("POSTING_MAX_ATTEMPTS", 3)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.LedgerCurrency = strings.ToUpper(viper.GetString("LEDGER_CURRENCY"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	if cfg.StorageDriver != StorageDriverPostgres && cfg.StorageDriver != StorageDriverMemory {
		log.Printf("Warning: unknown STORAGE_DRIVER '%s'. Defaulting to %s.\n", cfg.StorageDriver, StorageDriverPostgres)
		cfg.StorageDriver = StorageDriverPostgres
	}
	if cfg.StorageDriver == StorageDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	scale := viper.GetInt("CURRENCY_SCALE")
	if scale < 0 || scale > 6 {
		log.Printf("Warning: CURRENCY_SCALE %d out of range. Defaulting to 2.\n", scale)
		scale = 2
	}
	cfg.CurrencyScale = int32(scale)

	tz := viper.GetString("LEDGER_TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: invalid LEDGER_TIMEZONE '%s'. Defaulting to UTC.\n", tz)
		loc = time.UTC
	}
	cfg.LedgerLocation = loc

	cfg.PostingMaxAttempts = viper.GetInt("POSTING_MAX_ATTEMPTS")
	if cfg.PostingMaxAttempts < 1 {
		log.Printf("Warning: POSTING_MAX_ATTEMPTS must be at least 1. Defaulting to 3.\n")
		cfg.PostingMaxAttempts = 3
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
