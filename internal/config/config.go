package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	LogMode              string
	JWTSecret            string
	JWTExpirationMinutes int
	MetricsEnabled       bool
	Database             DatabaseConfig
	Redis                RedisConfig
	Checker              CheckerConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	Username   string
	Password   string
	Name       string
	SQLitePath string
	DSN        string
}

// RedisConfig holds the optional Redis connection used for search throttling.
// An empty Addr keeps throttling in process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CheckerConfig holds symptom checker tunables.
type CheckerConfig struct {
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	SearchDebounce       time.Duration
	SearchDebounceSweep  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		Host:       getEnv("DB_HOST", "localhost"),
		Username:   getEnv("DB_USERNAME", "root"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "symptom_checker"),
		SQLitePath: getEnv("DB_SQLITE_PATH", "symptom_checker.db"),
	}

	dsn, port, err := buildDSN(dbConfig)
	if err != nil {
		return nil, err
	}
	dbConfig.DSN = getEnv("DB_DSN", dsn)
	dbConfig.Port = port

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	sessionTTLHours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))
	if err != nil || sessionTTLHours <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %q", os.Getenv("SESSION_TTL_HOURS"))
	}

	sweepMinutes, err := strconv.Atoi(getEnv("SESSION_SWEEP_INTERVAL_MINUTES", "10"))
	if err != nil || sweepMinutes < 0 {
		return nil, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL_MINUTES: %q", os.Getenv("SESSION_SWEEP_INTERVAL_MINUTES"))
	}

	debounceMs, err := strconv.Atoi(getEnv("SEARCH_DEBOUNCE_MS", "400"))
	if err != nil || debounceMs < 0 {
		return nil, fmt.Errorf("invalid SEARCH_DEBOUNCE_MS: %q", os.Getenv("SEARCH_DEBOUNCE_MS"))
	}

	debounceSweepSeconds, err := strconv.Atoi(getEnv("SEARCH_DEBOUNCE_SWEEP_SECONDS", "60"))
	if err != nil || debounceSweepSeconds <= 0 {
		return nil, fmt.Errorf("invalid SEARCH_DEBOUNCE_SWEEP_SECONDS: %q", os.Getenv("SEARCH_DEBOUNCE_SWEEP_SECONDS"))
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid METRICS_ENABLED: %w", err)
	}

	environment := getEnv("APP_ENV", getEnv("NODE_ENV", "development"))

	return &Config{
		Port:                 getEnv("PORT", "3001"),
		Origin:               getEnv("ORIGIN", "http://localhost:5173"),
		Environment:          environment,
		LogMode:              getEnv("LOG_MODE", environment),
		JWTSecret:            getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes: jwtExpMinutes,
		MetricsEnabled:       metricsEnabled,
		Database:             dbConfig,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Checker: CheckerConfig{
			SessionTTL:           time.Duration(sessionTTLHours) * time.Hour,
			SessionSweepInterval: time.Duration(sweepMinutes) * time.Minute,
			SearchDebounce:       time.Duration(debounceMs) * time.Millisecond,
			SearchDebounceSweep:  time.Duration(debounceSweepSeconds) * time.Second,
		},
	}, nil
}

// buildDSN builds the Data Source Name for the configured driver and
// returns it along with the effective port.
func buildDSN(db DatabaseConfig) (string, string, error) {
	switch db.Driver {
	case "mysql":
		port := getEnv("DB_PORT", "3306")
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			db.Username, db.Password, db.Host, port, db.Name), port, nil
	case "postgres", "postgresql":
		port := getEnv("DB_PORT", "5432")
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			db.Username, db.Password, db.Host, port, db.Name, getEnv("DB_SSLMODE", "disable")), port, nil
	case "sqlite", "sqlite3":
		return db.SQLitePath, "", nil
	default:
		return "", "", fmt.Errorf("invalid DB_DRIVER: %q", db.Driver)
	}
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
