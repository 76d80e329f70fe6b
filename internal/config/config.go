package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Content  ContentConfig  `mapstructure:"content"`
	Playback PlaybackConfig `mapstructure:"playback"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	API      APIConfig      `mapstructure:"api"`
}

// ContentConfig holds content API settings
type ContentConfig struct {
	// BaseURL is the content API base up to the version segment, e.g.
	// https://admin.lush.co.uk/lush-dashboard/api/v2
	BaseURL string `mapstructure:"base_url"`

	// PolicyKey is the HLS policy key handed to downstream playback
	PolicyKey string `mapstructure:"policy_key"`

	TimeoutSeconds int `mapstructure:"timeout_seconds"`

	// RetryAttempts above 1 enables transport-level retries
	RetryAttempts int `mapstructure:"retry_attempts"`
}

// PlaybackConfig holds playback catalogue feed settings
type PlaybackConfig struct {
	// BaseURL is the playlist feed base. Empty disables live schedule
	// resolution; /api/v1/live/now then reports the feature unavailable.
	BaseURL string `mapstructure:"base_url"`

	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// DatabaseConfig holds snapshot store settings
type DatabaseConfig struct {
	// Driver selects the snapshot store backend: postgres, sqlite, or
	// empty to disable snapshots
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`

	// Path is the sqlite database file
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`

	App LogLevelConfig `mapstructure:"app"`
	API LogLevelConfig `mapstructure:"api"`
}

// LogLevelConfig represents log level configuration for a specific component
type LogLevelConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// APIConfig holds API server settings
type APIConfig struct {
	Port int `mapstructure:"port"`
}

var (
	cfg        *Config
	configFile string
)

// SetFile points Load at an explicit config file instead of the search paths
func SetFile(path string) {
	configFile = path
}

// bindEnvWithAlternatives binds a viper key to environment variables with
// alternative names, so both LUSHPLAYER_API_PORT and API_PORT work
func bindEnvWithAlternatives(key string, alternatives ...string) {
	viper.BindEnv(key)
	for _, alt := range alternatives {
		if value := os.Getenv(alt); value != "" {
			viper.Set(key, value)
			break
		}
	}
}

// Load reads configuration from file and environment variables
func Load() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/lushplayer")
	}

	setDefaults()

	viper.SetEnvPrefix("LUSHPLAYER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvWithAlternatives("content.base_url", "CONTENT_BASE_URL")
	bindEnvWithAlternatives("content.policy_key", "CONTENT_POLICY_KEY")
	viper.BindEnv("content.timeout_seconds")
	viper.BindEnv("content.retry_attempts")

	bindEnvWithAlternatives("playback.base_url", "PLAYBACK_BASE_URL")
	viper.BindEnv("playback.timeout_seconds")

	bindEnvWithAlternatives("database.driver", "DB_DRIVER")
	bindEnvWithAlternatives("database.host", "DB_HOST")
	bindEnvWithAlternatives("database.port", "DB_PORT")
	bindEnvWithAlternatives("database.user", "DB_USER")
	bindEnvWithAlternatives("database.password", "DB_PASSWORD")
	bindEnvWithAlternatives("database.dbname", "DB_NAME")
	bindEnvWithAlternatives("database.sslmode", "DB_SSLMODE")
	bindEnvWithAlternatives("database.path", "DB_PATH")

	bindEnvWithAlternatives("logging.level", "LOG_LEVEL")
	viper.BindEnv("logging.app.level")
	viper.BindEnv("logging.api.level")

	bindEnvWithAlternatives("api.port", "API_PORT")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		return &Config{}
	}
	return cfg
}

func setDefaults() {
	viper.SetDefault("content.base_url", "http://admin.lush.co.uk/lush-dashboard/api/v2")
	viper.SetDefault("content.timeout_seconds", 10)
	viper.SetDefault("content.retry_attempts", 1)

	viper.SetDefault("playback.base_url", "")
	viper.SetDefault("playback.timeout_seconds", 10)

	viper.SetDefault("database.driver", "")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.path", "./data/catalogue.db")

	viper.SetDefault("logging.level", "info")

	viper.SetDefault("api.port", 8080)
}

func validate() error {
	if cfg.Content.BaseURL == "" {
		return fmt.Errorf("content.base_url is required")
	}
	if cfg.Content.TimeoutSeconds <= 0 {
		return fmt.Errorf("content.timeout_seconds must be positive")
	}
	if cfg.Playback.TimeoutSeconds <= 0 {
		return fmt.Errorf("playback.timeout_seconds must be positive")
	}

	switch cfg.Database.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be one of: postgres, sqlite")
	}
	if cfg.Database.Driver == "postgres" {
		if cfg.Database.User == "" {
			return fmt.Errorf("database.user is required for the postgres driver")
		}
		if cfg.Database.DBName == "" {
			return fmt.Errorf("database.dbname is required for the postgres driver")
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	for name, level := range map[string]string{
		"logging.level":     cfg.Logging.Level,
		"logging.app.level": cfg.Logging.App.Level,
		"logging.api.level": cfg.Logging.API.Level,
	} {
		if level != "" && !validLevels[level] {
			return fmt.Errorf("%s must be one of: debug, info, warn, error", name)
		}
	}

	return nil
}

// AppLogLevel returns the log level for application logging.
// Priority: logging.app.level, then logging.level, then info.
func (c *Config) AppLogLevel() string {
	if c.Logging.App.Level != "" {
		return c.Logging.App.Level
	}
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	return "info"
}

// APILogLevel returns the log level for API server logging.
// Priority: logging.api.level, then logging.level, then info.
func (c *Config) APILogLevel() string {
	if c.Logging.API.Level != "" {
		return c.Logging.API.Level
	}
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	return "info"
}
