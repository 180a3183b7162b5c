package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// EnvName is the environment variable for the environment name.
	EnvName = "ENV"

	// PortEnv is the environment variable for the HTTP server port.
	PortEnv = "PORT"

	// DatabaseURIEnv is the environment variable for the store connection URI.
	DatabaseURIEnv = "DATABASE_URI"

	// DBNameEnv is the environment variable for the database name.
	DBNameEnv = "DB_NAME"

	// MetricsServerPortEnv is the environment variable for the metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// EnvFilePath is the environment variable for the .env file path.
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"

	// EnvProduction is the environment name that suppresses stack traces in
	// error responses.
	EnvProduction = "production"

	// EnvDevelopment is the default environment name.
	EnvDevelopment = "development"

	defaultPort              = "3000"
	defaultMetricsServerPort = "9090"
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")
)

// Config represents the application configuration.
type Config struct {
	Env           string
	Database      DB
	HTTPServer    Server
	MetricsServer Server
}

// DB represents store connection settings.
type DB struct {
	URI  string
	Name string
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DSN composes the store connection string from the URI and database name.
// The database name becomes the URI path, so DATABASE_URI carries only the
// scheme, credentials and host.
func (d DB) DSN() (string, error) {
	u, err := url.Parse(d.URI)
	if err != nil {
		return "", fmt.Errorf("invalid database URI: %w", err)
	}
	u.Path = "/" + d.Name
	return u.String(), nil
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func validPort(key, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid port number for key %s: %w", key, err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port for key %s must be between 1 and 65535, got %d", key, port)
	}
	return nil
}

func (c *Config) validate() error {
	if err := allNonEmpty(map[string]string{
		DatabaseURIEnv: c.Database.URI,
		DBNameEnv:      c.Database.Name,
	}); err != nil {
		return fmt.Errorf("database configuration incomplete: %w", err)
	}

	if err := validPort(PortEnv, c.HTTPServer.Port); err != nil {
		return err
	}
	if err := validPort(MetricsServerPortEnv, c.MetricsServer.Port); err != nil {
		return err
	}

	return nil
}

func getEnv(name, defaultValue string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return defaultValue
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	envPath := getEnv(EnvFilePath, DefaultEnvFilePath)
	if err := ApplyEnvFile(envPath); err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}

	conf := &Config{
		Env: getEnv(EnvName, EnvDevelopment),
		Database: DB{
			URI:  os.Getenv(DatabaseURIEnv),
			Name: os.Getenv(DBNameEnv),
		},
		HTTPServer: Server{
			Port: getEnv(PortEnv, defaultPort),
		},
		MetricsServer: Server{
			Port: getEnv(MetricsServerPortEnv, defaultMetricsServerPort),
		},
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}
