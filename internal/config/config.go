package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Profile selects which DynamoDB target the store client connects to
type Profile string

const (
	// ProfileDev targets a local DynamoDB endpoint with static credentials
	ProfileDev Profile = "dev"
	// ProfileProd targets the managed service with credentials from the environment
	ProfileProd Profile = "prod"
)

// Store backends
const (
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// DefaultLocalEndpoint is where DynamoDB Local is reachable from a SAM container
const DefaultLocalEndpoint = "http://host.docker.internal:8000"

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Store       StoreConfig
	Log         LogConfig
	RateLimit   RateLimitConfig
}

// StoreConfig holds the key-value table configuration
type StoreConfig struct {
	Backend    string
	Profile    Profile
	TableName  string
	Region     string
	Endpoint   string
	SQLitePath string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig holds limits for the local HTTP server
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PROFILE", string(ProfileProd))
	v.SetDefault("STORE_BACKEND", BackendDynamoDB)
	v.SetDefault("TABLE_NAME", "users")
	v.SetDefault("AWS_REGION", "ap-northeast-2")
	v.SetDefault("SQLITE_PATH", "./data/users.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Store: StoreConfig{
			Backend:    strings.ToLower(v.GetString("STORE_BACKEND")),
			Profile:    Profile(strings.ToLower(v.GetString("PROFILE"))),
			TableName:  v.GetString("TABLE_NAME"),
			Region:     v.GetString("AWS_REGION"),
			Endpoint:   v.GetString("DYNAMODB_ENDPOINT"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if config.Store.Profile == ProfileDev && config.Store.Endpoint == "" {
		config.Store.Endpoint = DefaultLocalEndpoint
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendDynamoDB, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unsupported store backend: %q", c.Store.Backend)
	}

	if strings.TrimSpace(c.Store.TableName) == "" {
		return fmt.Errorf("table name is required")
	}

	if c.Store.Backend == BackendDynamoDB && c.Store.Region == "" {
		return fmt.Errorf("AWS region is required for the dynamodb backend")
	}

	return nil
}

// IsLocalProfile reports whether the store client should target a local endpoint
func (s StoreConfig) IsLocalProfile() bool {
	return s.Profile == ProfileDev
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsBool gets an environment variable as boolean with a fallback value
func GetEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
