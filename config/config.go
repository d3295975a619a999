package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Directory holding the exported model artifacts
	ModelDir string

	// Database configuration. DBDriver is "postgres" or "sqlite".
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Append every forecast run to the forecast_runs table (postgres only)
	RecordForecasts bool

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Third-party APIs
	OpenWeatherAPIKey string
	OpenWeatherURL    string
	WeatherCacheTTL   time.Duration
	GoogleAPIKey      string
	GeminiModel       string
	GeminiURL         string

	// Features the forecast endpoint does not receive from clients
	ForecastPressure   float64
	ForecastWindSpeed  float64
	ForecastVisibility float64
	ForecastCloudCover float64

	// Requests per client per minute on prediction endpoints
	RateLimitPerMinute int

	CORSOrigins []string

	// Proxies whose X-Forwarded-For is believed when resolving the client IP.
	// Empty means only the connection's remote address counts.
	TrustedProxies []string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	var problems []string
	loadDefaults(cfg, &problems)

	// Sensitive values come from a different place per environment
	switch env {
	case CI, Development, Test:
		loadEnvSecrets(cfg)
	case Production:
		loadProdSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration:\n%s", strings.Join(problems, "\n"))
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDefaults reads the non-sensitive settings shared by every environment
func loadDefaults(cfg *Config, problems *[]string) {
	cfg.ServerPort = getEnv("SERVER_PORT", "5000")
	cfg.ServerHost = getEnv("SERVER_HOST", "")
	cfg.ModelDir = getEnv("MODEL_DIR", "models")

	defaultDriver := "sqlite"
	if GetEnvironment() == Production {
		defaultDriver = "postgres"
	}
	cfg.DBDriver = getEnv("DB_DRIVER", defaultDriver)
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBName = getEnv("DB_NAME", "agropredictor")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "agropredictor.db")
	cfg.RecordForecasts = parseBool("RECORD_FORECASTS", false, problems)

	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisDB = parseInt("REDIS_DB", 0, problems)
	cfg.RedisURL = os.Getenv("REDIS_URL")

	cfg.OpenWeatherURL = getEnv("OPENWEATHER_API_URL", "https://api.openweathermap.org/data/2.5/weather")
	cfg.WeatherCacheTTL = parseDuration("WEATHER_CACHE_TTL", 10*time.Minute, problems)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", "gemini-1.5-flash")
	cfg.GeminiURL = getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta")

	cfg.ForecastPressure = parseFloat("FORECAST_PRESSURE", 1010, problems)
	cfg.ForecastWindSpeed = parseFloat("FORECAST_WIND_SPEED", 2.5, problems)
	cfg.ForecastVisibility = parseFloat("FORECAST_VISIBILITY", 8000, problems)
	cfg.ForecastCloudCover = parseFloat("FORECAST_CLOUD_COVER", 40, problems)

	cfg.RateLimitPerMinute = parseInt("RATE_LIMIT_PER_MINUTE", 60, problems)

	cfg.CORSOrigins = []string{"*"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}
	cfg.TrustedProxies = splitList(os.Getenv("TRUSTED_PROXIES"))
}

// loadEnvSecrets reads API keys and passwords from environment variables
func loadEnvSecrets(cfg *Config) {
	cfg.DBPassword = getEnv("DB_PASSWORD", "postgres")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
}

// loadProdSecrets reads API keys and passwords from Docker secrets
func loadProdSecrets(cfg *Config) {
	cfg.DBPassword = readSecret("db_password")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.OpenWeatherAPIKey = readSecret("openweather_api_key")
	cfg.GoogleAPIKey = readSecret("google_api_key")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// splitList splits a comma-separated value, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseInt(key string, fallback int, problems *[]string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be an integer, got %q", key, raw))
		return fallback
	}
	return v
}

func parseFloat(key string, fallback float64, problems *[]string) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be a number, got %q", key, raw))
		return fallback
	}
	return v
}

func parseBool(key string, fallback bool, problems *[]string) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be a boolean, got %q", key, raw))
		return fallback
	}
	return v
}

func parseDuration(key string, fallback time.Duration, problems *[]string) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be a duration, got %q", key, raw))
		return fallback
	}
	return v
}

// PostgresDSN returns the connection string for the configured postgres database
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// ListenAddr is the address the HTTP server binds to
func (c *Config) ListenAddr() string {
	return c.ServerHost + ":" + c.ServerPort
}
