// Package config provides configuration management for the graph gateway.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config holds the complete application configuration.
type Config struct {
	Server         ServerConfig
	Log            LogConfig
	Cache          CacheConfig
	Redis          RedisConfig
	Mongo          MongoConfig
	Graph          GraphConfig
	CircuitBreaker CircuitBreakerConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string
	CORSOrigins     []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	SwaggerUser     string
	SwaggerPass     string
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// CacheConfig holds query cache configuration.
type CacheConfig struct {
	Size            int
	TTL             time.Duration
	VolatileTTL     time.Duration
	CleanupInterval time.Duration
	// Backend selects the storage strategy: memory, redis or mongo.
	Backend       string
	RemoteTimeout time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	URL      string
	Timeout  time.Duration
	PoolSize int
}

// MongoConfig holds MongoDB configuration.
type MongoConfig struct {
	URI             string
	DatabaseName    string
	CacheCollection string
}

// GraphConfig holds Neo4j configuration.
type GraphConfig struct {
	URI         string
	User        string
	Password    string
	Database    string
	Enabled     bool
	MaxPoolSize int
}

// CircuitBreakerConfig holds defaults for breakers created by the registry.
type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
	HalfOpenMaxCalls int
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			CORSOrigins:     parseList(os.Getenv("CORS_ORIGINS")),
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			SwaggerUser:     getEnv("SWAGGER_USER", ""),
			SwaggerPass:     getEnv("SWAGGER_PASS", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Cache: CacheConfig{
			Size:            getEnvInt("CACHE_SIZE", 1000),
			TTL:             getEnvDuration("CACHE_TTL", 5*time.Minute),
			VolatileTTL:     getEnvDuration("CACHE_VOLATILE_TTL", time.Minute),
			CleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),
			Backend:         strings.ToLower(getEnv("CACHE_BACKEND", BackendMemory)),
			RemoteTimeout:   getEnvDuration("CACHE_REMOTE_TIMEOUT", 2*time.Second),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
			Timeout:  getEnvDuration("REDIS_TIMEOUT", 2*time.Second),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 20),
		},
		Mongo: MongoConfig{
			URI:             getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:    getEnv("MONGODB_DATABASE", "graph_guard"),
			CacheCollection: getEnv("MONGODB_CACHE_COLLECTION", "query_cache"),
		},
		Graph: GraphConfig{
			URI:         getEnv("NEO4J_URI", "bolt://localhost:7687"),
			User:        getEnv("NEO4J_USER", "neo4j"),
			Password:    getEnv("NEO4J_PASSWORD", "password"),
			Database:    getEnv("NEO4J_DATABASE", ""),
			Enabled:     getEnvBool("NEO4J_ENABLED", true),
			MaxPoolSize: getEnvInt("NEO4J_MAX_POOL_SIZE", 50),
		},
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			SuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			Timeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
			HalfOpenMaxCalls: getEnvInt("CIRCUIT_BREAKER_HALF_OPEN_MAX_CALLS", 1),
		},
	}
}

// Validate reports settings that cannot be used to start the service.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: want memory, redis or mongo", c.Cache.Backend)
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("invalid CACHE_SIZE %d: must be positive", c.Cache.Size)
	}
	if c.Cache.TTL <= 0 || c.Cache.VolatileTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
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

// parseList splits a comma separated value, dropping blanks.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			result = append(result, v)
		}
	}
	return result
}
