package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequirePostgres bool
	RequiredSecrets []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI:          {},
		Production: {
			RequirePostgres: true,
			RequiredSecrets: []string{"db_password"},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []ValidationError

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "must not be empty"})
	}
	if cfg.ModelDir == "" {
		errs = append(errs, ValidationError{"MODEL_DIR", "must not be empty"})
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_HOST", "postgres requires DB_HOST and DB_NAME"})
		}
	case "sqlite":
		if reqs.RequirePostgres {
			errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("sqlite is not allowed in %s", env)})
		}
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "must not be empty"})
		}
		if cfg.RecordForecasts {
			errs = append(errs, ValidationError{"RECORD_FORECASTS", "forecast recording requires postgres"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	// Validate secrets
	for _, secret := range reqs.RequiredSecrets {
		if value := readSecret(secret); value == "" {
			errs = append(errs, ValidationError{secret, "required secret is not set"})
		}
	}

	if cfg.RateLimitPerMinute < 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_PER_MINUTE", "must not be negative"})
	}
	if cfg.WeatherCacheTTL < 0 {
		errs = append(errs, ValidationError{"WEATHER_CACHE_TTL", "must not be negative"})
	}
	for _, proxy := range cfg.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				errs = append(errs, ValidationError{"TRUSTED_PROXIES", fmt.Sprintf("%q is not an IP address or CIDR", proxy)})
			}
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		errs = append(errs, ValidationError{"CORS_ORIGINS", "must list at least one origin"})
	}

	if len(errs) > 0 {
		lines := make([]string, len(errs))
		for i, e := range errs {
			lines[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
	}

	return nil
}
