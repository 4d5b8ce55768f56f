package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Stats  StatsConfig  `mapstructure:"stats"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Output OutputConfig `mapstructure:"output"`
	Debug  bool         `mapstructure:"debug"`
}

// StatsConfig locates the stats document to analyze
type StatsConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig contains snapshot cache settings
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Dir        string `mapstructure:"dir"` // empty selects the user cache directory
	MaxEntries int    `mapstructure:"max_entries"`
}

// OutputConfig contains default output settings
type OutputConfig struct {
	Format string `mapstructure:"format"` // table, json or yaml
}

// Load loads configuration from file and environment variables. An
// explicit cfgFile skips the search paths.
func Load(cfgFile string) (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("statlens")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/.config/statlens")
	}

	setDefaults()

	// Enable environment variable support with underscore replacer
	viper.AutomaticEnv()
	viper.SetEnvPrefix("STATLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file (if it exists)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults and environment variables
		log.Debug().Msg("No config file found, using environment variables and defaults")
	} else {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("Config file loaded")
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads environment variables from .env file
func loadEnvFile() error {
	locations := []string{
		".env",
		".env.local",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			if err := godotenv.Load(location); err != nil {
				return fmt.Errorf("error loading .env file from %s: %w", location, err)
			}
			log.Debug().Str("file", location).Msg(".env file loaded")
			return nil
		}
	}

	return fmt.Errorf("no .env file found")
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("stats.path", "stats.json")

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dir", "")
	viper.SetDefault("cache.max_entries", 32)

	viper.SetDefault("output.format", "table")

	viper.SetDefault("debug", false)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Stats.Path == "" {
		return fmt.Errorf("stats.path cannot be empty")
	}

	switch c.Output.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output format must be 'table', 'json' or 'yaml'")
	}

	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive")
	}

	return nil
}
