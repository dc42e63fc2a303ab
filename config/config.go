// Package config loads application configuration from environment variables.
// Every setting has a default that works for local development; only the
// credentials (ADMIN_PASSWORD, DEEPSEEK_API_KEY) change behavior when absent.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// HTTP server
	Server ServerConfig

	// Student API backend
	Backend BackendConfig

	// DeepSeek LLM provider
	DeepSeek DeepSeekConfig

	// Background task pool
	Tasks TasksConfig

	// Optional snapshot cache
	Redis RedisConfig

	// Optional assessment audit log
	Database DatabaseConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string
	Port int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	EnableCORS     bool
	AllowedOrigins []string
}

// BackendConfig holds student API backend settings.
type BackendConfig struct {
	// BaseURL of the student API (e.g. http://localhost:8080).
	BaseURL string

	// Username for the admin login. The backend only exposes one account.
	Username string

	// Password for the admin login. Empty means authenticated requests
	// will fail until it is set.
	Password string

	// Timeout for a single backend request.
	Timeout time.Duration
}

// DeepSeekConfig holds LLM provider settings.
type DeepSeekConfig struct {
	// APIKey enables LLM-backed analysis. Empty selects the heuristic
	// analyzer.
	APIKey string

	// APIURL is the chat completions endpoint.
	APIURL string

	// Model is the chat model name.
	Model string

	// Timeout for a single completion request.
	Timeout time.Duration
}

// TasksConfig holds background task pool settings.
type TasksConfig struct {
	// PoolSize is the number of concurrent background workers.
	PoolSize int
}

// RedisConfig holds snapshot cache settings. Disabled unless Enabled is set.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int

	// SnapshotTTL bounds how stale a cached snapshot may be.
	SnapshotTTL time.Duration
}

// DatabaseConfig holds assessment audit log settings. Disabled unless a URL
// is set.
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		App:      loadAppConfig(),
		Server:   loadServerConfig(),
		Backend:  loadBackendConfig(),
		DeepSeek: loadDeepSeekConfig(),
		Tasks:    loadTasksConfig(),
		Redis:    loadRedisConfig(),
		Database: loadDatabaseConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadAppConfig() AppConfig {
	env := Environment(getEnv("APP_ENV", "development"))
	return AppConfig{
		Name:            getEnv("APP_NAME", "student-mentor"),
		Environment:     env,
		Debug:           env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
		Version:         getEnv("APP_VERSION", "0.1.0"),
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           getEnvInt("PORT", 5000),
		ReadTimeout:    getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:    getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		EnableCORS:     getEnvBool("SERVER_ENABLE_CORS", true),
		AllowedOrigins: getEnvSlice("SERVER_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func loadBackendConfig() BackendConfig {
	return BackendConfig{
		BaseURL:  strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		Username: getEnv("ADMIN_USERNAME", "admin"),
		Password: getEnv("ADMIN_PASSWORD", ""),
		Timeout:  getEnvDuration("API_TIMEOUT", 10*time.Second),
	}
}

func loadDeepSeekConfig() DeepSeekConfig {
	return DeepSeekConfig{
		APIKey:  getEnv("DEEPSEEK_API_KEY", ""),
		APIURL:  getEnv("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		Model:   getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
		Timeout: getEnvDuration("DEEPSEEK_TIMEOUT", 15*time.Second),
	}
}

func loadTasksConfig() TasksConfig {
	return TasksConfig{
		PoolSize: getEnvInt("WORKER_POOL_SIZE", 4),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:     getEnvBool("REDIS_ENABLED", false),
		Host:        getEnv("REDIS_HOST", "localhost"),
		Port:        getEnvInt("REDIS_PORT", 6379),
		Password:    getEnv("REDIS_PASSWORD", ""),
		DB:          getEnvInt("REDIS_DB", 0),
		SnapshotTTL: getEnvDuration("REDIS_SNAPSHOT_TTL", 5*time.Minute),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:             getEnv("DATABASE_URL", ""),
		MaxConns:        getEnvInt("DB_MAX_CONNS", 10),
		MinConns:        getEnvInt("DB_MIN_CONNS", 1),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
	}
}

// Validate checks configuration consistency. Missing credentials are not
// errors: the service degrades instead of refusing to start.
func (c *Config) Validate() error {
	var errs []string

	if c.Backend.BaseURL == "" {
		errs = append(errs, "API_BASE_URL must not be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "PORT must be 1-65535")
	}
	if c.Tasks.PoolSize < 1 {
		errs = append(errs, "WORKER_POOL_SIZE must be at least 1")
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		errs = append(errs, "REDIS_HOST is required when REDIS_ENABLED is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
