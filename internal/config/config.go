package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	StoreDriver      string
	DatabaseURL      string
	MongoURI         string
	MongoDatabase    string
	DBConnectTimeout time.Duration

	// AdminJWTSecret guards the feature toggle when set.
	AdminJWTSecret   string
	AdminTokenExpiry time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	connectTimeout, err := time.ParseDuration(getEnv("DB_CONNECT_TIMEOUT", "5s"))
	if err != nil {
		connectTimeout = 5 * time.Second
	}

	adminExpiry, err := time.ParseDuration(getEnv("ADMIN_TOKEN_EXPIRY", "24h"))
	if err != nil {
		adminExpiry = 24 * time.Hour
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver:      getEnv("STORE_DRIVER", DriverPostgres),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "fanmint"),
		DBConnectTimeout: connectTimeout,

		AdminJWTSecret:   getEnv("ADMIN_JWT_SECRET", ""),
		AdminTokenExpiry: adminExpiry,
	}

	switch cfg.StoreDriver {
	case DriverPostgres, DriverMongo:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) AdminAuthEnabled() bool {
	return c.AdminJWTSecret != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
