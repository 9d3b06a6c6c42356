package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// defaultJWTSecret is public; LoadConfig refuses it in production.
const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	StorageDriver  string
	RunMigrations  bool
	MigrationsPath string
	SeedDemoData   bool

	JWTSecret string
	JWTIssuer string

	// Transfer engine
	TransferMaxRetries     int
	TransferRetryBaseDelay time.Duration
	TransferRateLimit      string

	// Event publication; empty KafkaBrokers disables Kafka
	KafkaBrokers       []string
	KafkaTransferTopic string

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "simple-bank")
	v.SetDefault("TRANSFER_MAX_RETRIES", 3)
	v.SetDefault("TRANSFER_RETRY_BASE_DELAY", "20ms")
	v.SetDefault("TRANSFER_RATE_LIMIT", "30-M")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TRANSFER_TOPIC", "transfer_completed")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		StorageDriver:      strings.ToLower(v.GetString("STORAGE_DRIVER")),
		RunMigrations:      v.GetBool("RUN_MIGRATIONS"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		SeedDemoData:       v.GetBool("SEED_DEMO_DATA"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		TransferMaxRetries: v.GetInt("TRANSFER_MAX_RETRIES"),
		TransferRateLimit:  v.GetString("TRANSFER_RATE_LIMIT"),
		KafkaBrokers:       splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTransferTopic: v.GetString("KAFKA_TRANSFER_TOPIC"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when STORAGE_DRIVER is %q", StorageDriverPostgres)
		}
	case StorageDriverMemory:
		log.Println("Warning: using in-memory storage. Balances and ledger entries are lost on restart.")
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set when IS_PRODUCTION is true")
		}
		log.Println("Warning: JWT_SECRET is the built-in default. THIS IS NOT FOR PRODUCTION.")
	}

	retryDelayStr := v.GetString("TRANSFER_RETRY_BASE_DELAY")
	retryDelay, err := time.ParseDuration(retryDelayStr)
	if err != nil || retryDelay <= 0 {
		retryDelay = 20 * time.Millisecond
		log.Printf("Warning: Invalid value for TRANSFER_RETRY_BASE_DELAY ('%s'). Defaulting to %s.\n", retryDelayStr, retryDelay)
	}
	cfg.TransferRetryBaseDelay = retryDelay

	if cfg.TransferMaxRetries < 0 {
		log.Printf("Warning: TRANSFER_MAX_RETRIES is negative (%d). Defaulting to 0.\n", cfg.TransferMaxRetries)
		cfg.TransferMaxRetries = 0
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
