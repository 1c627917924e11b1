// Package config provides configuration management for the R&D credit service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache backends.
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
	CacheBackendNone   = "none"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Airtable AirtableConfig
	Auth     AuthConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	Backend      string
	MemorySize   int
	SingleFlight bool
	// NegativeTTL enables caching of not-found lookups when positive.
	NegativeTTL time.Duration
	// FetchTimeout bounds an upstream fetch shared by single-flight callers.
	FetchTimeout time.Duration
	KeyPrefix    string
	// CircuitBreaker configuration for the cache backend
	CircuitBreakerFailureThreshold int
	CircuitBreakerTimeout          time.Duration
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	DialTimeout time.Duration
	OpTimeout   time.Duration
	PoolSize    int
}

// Addr returns host:port, or an empty string when no host is configured.
func (c RedisConfig) Addr() string {
	if c.Host == "" {
		return ""
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// AirtableConfig holds upstream record store configuration.
type AirtableConfig struct {
	APIKey    string
	BaseID    string
	BaseURL   string
	RateLimit float64
	Timeout   time.Duration
	Tables    AirtableTables
	// CircuitBreaker configuration for the upstream API
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// AirtableTables names the tables of the Airtable base.
type AirtableTables struct {
	Customers string
	Companies string
	Expenses  string
	Wages     string
	Documents string
}

// AuthConfig holds session token configuration.
type AuthConfig struct {
	JWTSecretKey   string
	AccessTokenTTL time.Duration
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimit:      getEnvInt("RATE_LIMIT", 100),
			RateWindow:     getEnvDuration("RATE_WINDOW", time.Minute),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
			CORSOrigins:    parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:    getEnv("SWAGGER_USER", ""),
			SwaggerPass:    getEnv("SWAGGER_PASS", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Cache: CacheConfig{
			Backend:                        parseCacheBackend(os.Getenv("CACHE_BACKEND")),
			MemorySize:                     getEnvInt("CACHE_MEMORY_SIZE", 10000),
			SingleFlight:                   getEnvBool("CACHE_SINGLE_FLIGHT", true),
			NegativeTTL:                    getEnvDuration("CACHE_NEGATIVE_TTL", 0),
			FetchTimeout:                   getEnvDuration("CACHE_FETCH_TIMEOUT", 30*time.Second),
			KeyPrefix:                      getEnv("CACHE_KEY_PREFIX", ""),
			CircuitBreakerFailureThreshold: getEnvInt("CACHE_CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerTimeout:          getEnvDuration("CACHE_CIRCUIT_BREAKER_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", ""),
			Port:        getEnvInt("REDIS_PORT", 6379),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			DialTimeout: getEnvDuration("REDIS_DIAL_TIMEOUT", 2*time.Second),
			OpTimeout:   getEnvDuration("REDIS_OP_TIMEOUT", 500*time.Millisecond),
			PoolSize:    getEnvInt("REDIS_POOL_SIZE", 10),
		},
		Airtable: AirtableConfig{
			APIKey:    getEnv("AIRTABLE_API_KEY", ""),
			BaseID:    getEnv("AIRTABLE_BASE_ID", ""),
			BaseURL:   getEnv("AIRTABLE_BASE_URL", "https://api.airtable.com/v0"),
			RateLimit: getEnvFloat("AIRTABLE_RATE_LIMIT", 5),
			Timeout:   getEnvDuration("AIRTABLE_TIMEOUT", 10*time.Second),
			Tables: AirtableTables{
				Customers: getEnv("AIRTABLE_TABLE_CUSTOMERS", "Customers"),
				Companies: getEnv("AIRTABLE_TABLE_COMPANIES", "Companies"),
				Expenses:  getEnv("AIRTABLE_TABLE_EXPENSES", "Expenses"),
				Wages:     getEnv("AIRTABLE_TABLE_WAGES", "Wages"),
				Documents: getEnv("AIRTABLE_TABLE_DOCUMENTS", "Documents"),
			},
			CircuitBreakerFailureThreshold: getEnvInt("AIRTABLE_CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("AIRTABLE_CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("AIRTABLE_CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			JWTSecretKey:   getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TOKEN_TTL", 30*time.Minute),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "rdcredit_service"),
			LogsTTL:                        getEnvDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseCacheBackend(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case CacheBackendMemory:
		return CacheBackendMemory
	case CacheBackendNone:
		return CacheBackendNone
	default:
		return CacheBackendRedis
	}
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
