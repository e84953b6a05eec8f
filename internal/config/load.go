package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TASKTRACKER_SERVER_PORT.
const EnvPrefix = "TASKTRACKER"

// ConfigFileEnv names the environment variable holding an explicit config file path.
const ConfigFileEnv = EnvPrefix + "_CONFIG"

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadClient loads only the client section. The client binary has no database
// or signing secret, so the server sections are not required here.
func LoadClient() (*ClientConfig, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	var cfg ClientConfig
	if err := v.UnmarshalKey("client", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal client config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("client config validation failed: %w", err)
	}

	return &cfg, nil
}

// newViper builds a viper instance with defaults, the optional config file
// and environment overrides applied.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setDefaults registers every key so that AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)

	v.SetDefault("database.url", "")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.require_token", false)

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.list_path", "/api/tasks")
	v.SetDefault("client.tasks_path", "/tasks")
	v.SetDefault("client.login_path", "/login")
	v.SetDefault("client.register_path", "/register")
	v.SetDefault("client.timeout_seconds", 10)
	v.SetDefault("client.cache_dir", defaultCacheDir())
	v.SetDefault("client.log_level", "warn")
	v.SetDefault("client.token", "")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".tasktracker"
	}
	return filepath.Join(dir, "tasktracker")
}
