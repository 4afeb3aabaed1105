package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string
	RunOnce      bool
	// RunMode "token" prints a signed operator token for the refresh endpoint and exits.
	RunMode string

	// Reference data (actor tiers, committee sectors, ticker sectors, exclusions).
	// Empty means the embedded default tables.
	ReferenceDataPath string

	// Source page
	TradesURL     string
	TradesBaseURL string

	// Fetch behaviour
	FetchTimeout       time.Duration
	FetchMaxRetries    int
	FetchBackoff       time.Duration
	FetchMaxBackoff    time.Duration
	FetchRatePerSecond float64
	FetchBurst         int
	FetchUserAgent     string
	FetchMaxBodyBytes  int64

	// Caching
	HTMLCacheTTL   time.Duration
	DigestCacheTTL time.Duration

	// Structural anomaly detection: documents at least this large are expected to contain data.
	AnomalyMinDocBytes int

	// Operator API. The refresh endpoint is disabled when empty.
	APIJWTSecret     string
	OperatorSubject  string
	OperatorTokenTTL time.Duration
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() {
	// 1. Try loading from the current directory (standard behavior)
	errEnv := godotenv.Load()

	// 2. If not found, try loading from the parent directory
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")
	Cfg = FromEnv()

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, TradesURL=%s, RunOnce=%t",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.TradesURL, Cfg.RunOnce)
	if Cfg.APIJWTSecret == "" {
		log.Println("WARNING: API_JWT_SECRET not set. The refresh endpoint is disabled.")
	}
}

// FromEnv builds an AppConfig from the current process environment.
func FromEnv() *AppConfig {
	baseURL := strings.TrimRight(getEnv("TRADES_BASE_URL", "https://www.capitoltrades.com"), "/")

	return &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./morning-briefing.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		RunOnce:      getEnvAsBool("RUN_ONCE", false),
		RunMode:      strings.ToLower(strings.TrimSpace(getEnv("RUN_MODE", "serve"))),

		ReferenceDataPath: getEnv("REFERENCE_DATA_PATH", ""),

		TradesBaseURL: baseURL,
		TradesURL:     getEnv("TRADES_URL", baseURL+"/trades?pageSize=96"),

		FetchTimeout:       getEnvAsDuration("FETCH_TIMEOUT", 20*time.Second),
		FetchMaxRetries:    getEnvAsInt("FETCH_MAX_RETRIES", 3),
		FetchBackoff:       getEnvAsDuration("FETCH_BACKOFF", 500*time.Millisecond),
		FetchMaxBackoff:    getEnvAsDuration("FETCH_MAX_BACKOFF", 5*time.Second),
		FetchRatePerSecond: getEnvAsFloat("FETCH_RATE_PER_SECOND", 1),
		FetchBurst:         getEnvAsInt("FETCH_BURST", 2),
		FetchUserAgent:     getEnv("FETCH_USER_AGENT", defaultUserAgent),
		FetchMaxBodyBytes:  int64(getEnvAsInt("FETCH_MAX_BODY_BYTES", 5*1024*1024)),

		HTMLCacheTTL:   getEnvAsDuration("HTML_CACHE_TTL", 30*time.Minute),
		DigestCacheTTL: getEnvAsDuration("DIGEST_CACHE_TTL", 15*time.Minute),

		AnomalyMinDocBytes: getEnvAsInt("ANOMALY_MIN_DOC_BYTES", 5000),

		APIJWTSecret:     getEnv("API_JWT_SECRET", ""),
		OperatorSubject:  getEnv("OPERATOR_SUBJECT", "operator"),
		OperatorTokenTTL: getEnvAsDuration("OPERATOR_TOKEN_TTL", 15*time.Minute),
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsFloat retrieves an environment variable as a float64 or returns a fallback.
func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

// getEnvAsBool retrieves an environment variable as a bool or returns a fallback.
func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %t", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
