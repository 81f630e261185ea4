package config

import (
	"os"
	"strings"
)

// Config holds application configuration
type Config struct {
	// MariaDB connection settings
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Server settings
	ServerPort string
	Env        string

	// CORS / websocket origin settings
	AllowedOrigins []string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load loads configuration from environment variables
func Load() Config {
	cfg := Config{
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "3306"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		ServerPort: getenv("SERVER_PORT", "8080"),
		Env:        getenv("ENV", "development"),
	}

	origins := getenv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	cfg.AllowedOrigins = strings.Split(origins, ",")
	for i := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(cfg.AllowedOrigins[i])
	}

	return cfg
}

// HasDatabase reports whether enough settings are present to open the
// relational store. Without them the server runs on the in-memory
// store only.
func (c Config) HasDatabase() bool {
	return c.DBName != "" && c.DBUser != ""
}
