package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// insecureQRSecret is the placeholder shipped in sample configs. Starting with
// it would silently defeat forgery resistance, so validation refuses it.
const insecureQRSecret = "change-me"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Security struct {
		// QRSecret signs the scannable credentials. The process refuses to
		// start when it is missing or still the shipped placeholder.
		QRSecret        string `yaml:"qr_secret" env:"QR_SECRET"`
		CooldownMinutes int    `yaml:"cooldown_minutes" env:"EXIT_COOLDOWN_MINUTES"`
		Timezone        string `yaml:"timezone" env:"APP_TIMEZONE"`
		// MealWindowStart/End bound the serving window shown on reports.
		// Informational only, never enforced by the gates.
		MealWindowStart string `yaml:"meal_window_start" env:"MEAL_WINDOW_START"`
		MealWindowEnd   string `yaml:"meal_window_end" env:"MEAL_WINDOW_END"`
	} `yaml:"security"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Config file is optional; env vars can carry everything.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "schoolguard"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "8h"
	config.JWT.Issuer = "schoolguard.app"

	config.Security.CooldownMinutes = 15
	config.Security.Timezone = "America/Bogota"
	config.Security.MealWindowStart = "11:30"
	config.Security.MealWindowEnd = "14:00"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if config.Security.QRSecret == "" {
		return fmt.Errorf("QR signing secret is required")
	}
	if config.Security.QRSecret == insecureQRSecret {
		return fmt.Errorf("QR signing secret is still the insecure placeholder, set QR_SECRET")
	}

	if config.Security.CooldownMinutes <= 0 {
		return fmt.Errorf("exit cooldown must be a positive number of minutes")
	}

	if _, err := time.LoadLocation(config.Security.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", config.Security.Timezone, err)
	}

	return nil
}

// Location returns the authoritative time zone for attendance decisions.
// Validity is checked at load time.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Security.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CooldownWindow returns the exit re-scan suppression window as a duration.
func (c *Config) CooldownWindow() time.Duration {
	return time.Duration(c.Security.CooldownMinutes) * time.Minute
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
