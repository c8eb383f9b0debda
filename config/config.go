package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "development"
	EnvProd  = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env string
	// ServerPort is where the agenda UI listens; StorePort is for cmd/store.
	ServerPort string
	StorePort  string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// RabbitURL empty disables change-event publishing.
	RabbitURL string

	StoreURL     string
	StoreTimeout time.Duration
}

// Load reads a .env file if one is present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	return &Config{
		Env:          getEnv("ENV", EnvLocal),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		StorePort:    getEnv("STORE_PORT", "8081"),
		DBDriver:     getEnv("DB_DRIVER", DriverPostgres),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBName:       getEnv("DB_NAME", "enoteca"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),
		SQLitePath:   getEnv("SQLITE_PATH", "enoteca.db"),
		RabbitURL:    os.Getenv("RABBITMQ_URL"),
		StoreURL:     getEnv("STORE_URL", "http://localhost:8081"),
		StoreTimeout: getDuration("STORE_TIMEOUT", 10*time.Second),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go duration strings ("5s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	log.Printf("invalid %s=%q, using %s", key, v, fallback)
	return fallback
}
