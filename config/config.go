package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Extraction ExtractionConfig
	Search     SearchConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// StoreConfig holds document store configuration
type StoreConfig struct {
	Driver         string `mapstructure:"driver"` // "mongo", "postgres" or "memory"
	URI            string `mapstructure:"uri"`
	Database       string `mapstructure:"database"`
	Collection     string `mapstructure:"collection"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// ExtractionConfig holds vision model configuration
type ExtractionConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	PromptPath        string        `mapstructure:"prompt_path"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`

	// Prompt is read from PromptPath by Load
	Prompt string `mapstructure:"-"`
}

// SearchConfig holds fuzzy search configuration
type SearchConfig struct {
	Parallelism int `mapstructure:"parallelism"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files,
// then reads the extraction prompt. A missing prompt is an error: the
// service must not start without one.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/consumewise/")

	// Environment variable settings
	v.SetEnvPrefix("CONSUMEWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy variable names are accepted as aliases
	_ = v.BindEnv("store.uri", "CONSUMEWISE_STORE_URI", "MONGODB_URL")
	_ = v.BindEnv("extraction.api_key", "CONSUMEWISE_EXTRACTION_API_KEY", "OPENAI_API_KEY")

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	prompt, err := LoadPrompt(config.Extraction.PromptPath)
	if err != nil {
		return nil, err
	}
	config.Extraction.Prompt = prompt

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.request_timeout", "120s")

	// Store defaults
	v.SetDefault("store.driver", StoreDriverMongo)
	v.SetDefault("store.database", "consumeWise")
	v.SetDefault("store.collection", "products")
	v.SetDefault("store.max_connections", 10)

	// Extraction defaults
	v.SetDefault("extraction.base_url", "")
	v.SetDefault("extraction.model", "gpt-4o")
	v.SetDefault("extraction.prompt_path", "label_prompt.txt")
	v.SetDefault("extraction.timeout", "90s")
	v.SetDefault("extraction.requests_per_minute", 60)

	// Search defaults
	v.SetDefault("search.parallelism", 1)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Extraction.APIKey == "" {
		return fmt.Errorf("extraction API key is required (set CONSUMEWISE_EXTRACTION_API_KEY or OPENAI_API_KEY)")
	}

	if config.Extraction.Model == "" {
		return fmt.Errorf("extraction model is required")
	}

	if config.Extraction.PromptPath == "" {
		return fmt.Errorf("extraction prompt path is required")
	}

	switch config.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverMongo:
		if config.Store.URI == "" {
			return fmt.Errorf("store URI is required for mongo (set CONSUMEWISE_STORE_URI or MONGODB_URL)")
		}
		if config.Store.Database == "" || config.Store.Collection == "" {
			return fmt.Errorf("store database and collection are required for mongo")
		}
	case StoreDriverPostgres:
		if config.Store.URI == "" {
			return fmt.Errorf("store URI is required for postgres (set CONSUMEWISE_STORE_URI)")
		}
	default:
		return fmt.Errorf("store driver must be 'mongo', 'postgres' or 'memory', got: %s", config.Store.Driver)
	}

	if config.Search.Parallelism < 1 {
		return fmt.Errorf("search parallelism must be at least 1, got: %d", config.Search.Parallelism)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}

// loadEnvFile loads variables from ./.env without overriding the ones
// already set. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
