package config

import (
	"os"
	"strconv"
	"sync"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	SQLitePath string

	// Server
	ServerPort string

	// Redis (optional cache)
	RedisHost string
	RedisPort string
	RedisDB   int

	// Doorman shared password
	PorteroPassword string

	// Jitsi deployment hosting the call rooms
	JitsiDomain string

	// Maximum number of departments that can be registered (0 = unlimited)
	MaxDepartments int
}

// LoadConfig loads config from environment variables
func LoadConfig() *Config {
	return &Config{
		EnvType: getEnv("ENV_TYPE", "LOCAL"),

		// Database config
		SQLitePath: getEnv("SQLITE_PATH", "./data/portero.db"),

		// Server config
		ServerPort: getEnv("SERVER_PORT", "3001"),

		// Redis config
		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		// Auth config
		PorteroPassword: getEnv("PORTERO_PASSWORD", "admin"),

		// Jitsi config
		JitsiDomain: getEnv("JITSI_DOMAIN", "meet.jit.si"),

		// Limits
		MaxDepartments: getEnvAsInt("MAX_DEPARTMENTS", 0),
	}
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// GetSQLiteDSN returns the SQLite connection string. WAL keeps reads concurrent
// while SQLite serializes the single writer.
func (c *Config) GetSQLiteDSN() string {
	return c.SQLitePath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
