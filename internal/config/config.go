package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	ClientURL   string `json:"client_url"`

	// Storage configuration
	StoreDriver          string        `json:"store_driver"`
	MongoURI             string        `json:"mongo_uri"`
	MongoDatabase        string        `json:"mongo_database"`
	RestaurantCollection string        `json:"mongo_restaurant_collection"`
	QueryTimeout         time.Duration `json:"query_timeout"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// Rate limiting
	RateLimitEnabled bool          `json:"rate_limit_enabled"`
	RateLimitMax     int           `json:"rate_limit_max"`
	RateLimitWindow  time.Duration `json:"rate_limit_window"`

	// Tracing
	TracingEnabled     bool    `json:"tracing_enabled"`
	TracingEndpoint    string  `json:"tracing_endpoint"`
	TracingSampleRatio float64 `json:"tracing_sample_ratio"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from a .env file (when present) and
// environment variables
func LoadConfig() error {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	queryTimeout, err := time.ParseDuration(getEnvOrDefault("QUERY_TIMEOUT", "10s"))
	if err != nil {
		return fmt.Errorf("invalid QUERY_TIMEOUT: %w", err)
	}

	environment := getEnvOrDefault("ENVIRONMENT", "development")

	// Production keeps the tighter limit the API has always shipped with
	defaultRateLimitMax := "1000"
	if environment == "production" {
		defaultRateLimitMax = "100"
	}
	rateLimitMax, err := strconv.Atoi(getEnvOrDefault("RATE_LIMIT_MAX", defaultRateLimitMax))
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_MAX: %w", err)
	}
	if rateLimitMax < 1 {
		return fmt.Errorf("invalid RATE_LIMIT_MAX: must be at least 1")
	}

	rateLimitWindow, err := time.ParseDuration(getEnvOrDefault("RATE_LIMIT_WINDOW", "15m"))
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}

	rateLimitEnabled, err := strconv.ParseBool(getEnvOrDefault("RATE_LIMIT_ENABLED", strconv.FormatBool(environment == "production")))
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_ENABLED: %w", err)
	}

	tracingEnabled, err := strconv.ParseBool(getEnvOrDefault("TRACING_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}

	tracingSampleRatio, err := strconv.ParseFloat(getEnvOrDefault("TRACING_SAMPLE_RATIO", "1"), 64)
	if err != nil {
		return fmt.Errorf("invalid TRACING_SAMPLE_RATIO: %w", err)
	}
	if tracingSampleRatio < 0 || tracingSampleRatio > 1 {
		return fmt.Errorf("invalid TRACING_SAMPLE_RATIO: must be between 0 and 1")
	}

	storeDriver := getEnvOrDefault("STORE_DRIVER", StoreDriverMongo)
	if storeDriver != StoreDriverMongo && storeDriver != StoreDriverMemory {
		return fmt.Errorf("invalid STORE_DRIVER %q: must be %q or %q", storeDriver, StoreDriverMongo, StoreDriverMemory)
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: environment,
		Version:     getEnvOrDefault("APP_VERSION", "1.0.0"),
		ClientURL:   getEnvOrDefault("CLIENT_URL", "http://localhost:3000"),

		// Storage configuration
		StoreDriver:          storeDriver,
		MongoURI:             getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:        getEnvOrDefault("MONGODB_DATABASE", "restaurant-app"),
		RestaurantCollection: getEnvOrDefault("MONGODB_RESTAURANT_COLLECTION", "restaurants"),
		QueryTimeout:         queryTimeout,

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		// Rate limiting
		RateLimitEnabled: rateLimitEnabled,
		RateLimitMax:     rateLimitMax,
		RateLimitWindow:  rateLimitWindow,

		// Tracing
		TracingEnabled:     tracingEnabled,
		TracingEndpoint:    getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
		TracingSampleRatio: tracingSampleRatio,
	}

	return nil
}

// IsDevelopment reports whether error details may be exposed to clients
func (c *Config) IsDevelopment() bool {
	return c != nil && c.Environment == "development"
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
