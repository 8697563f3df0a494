// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/sms-ledger/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "SMSLEDGER"

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	DefaultUser string `mapstructure:"default_user" yaml:"default_user"`
}

// StoreConfig selects where stored transactions live.
type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// ParserConfig controls SMS parsing.
type ParserConfig struct {
	// Timezone is the IANA zone SMS dates and default dates are expressed in.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// CategorizerConfig controls keyword categorization.
type CategorizerConfig struct {
	// RulesFile replaces the built-in keyword table when it names a readable file.
	RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
}

// BatchConfig controls CSV batch processing.
type BatchConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Config represents the complete application configuration
type Config struct {
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Store       StoreConfig       `mapstructure:"store" yaml:"store"`
	Parser      ParserConfig      `mapstructure:"parser" yaml:"parser"`
	Categorizer CategorizerConfig `mapstructure:"categorizer" yaml:"categorizer"`
	Batch       BatchConfig       `mapstructure:"batch" yaml:"batch"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// FlagKeys maps command-line flag names to the configuration keys they override.
var FlagKeys = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"timezone":      "parser.timezone",
	"store-driver":  "store.driver",
	"store-path":    "store.path",
	"rules-file":    "categorizer.rules_file",
	"addr":          "server.addr",
	"default-user":  "server.default_user",
	"csv-delimiter": "batch.delimiter",
}

// LoadConfig loads configuration from defaults, an optional config file and
// the environment. An empty configFile searches the standard locations.
func LoadConfig(configFile string) (*Config, error) {
	return Load(configFile, nil)
}

// Load is LoadConfig with command-line flags layered on top. Only flags named
// in FlagKeys that were set explicitly take precedence over the environment.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.sms-ledger")
		v.AddConfigPath(".sms-ledger")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration built from defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.default_user", "default")

	// Store defaults
	v.SetDefault("store.driver", store.DriverSQLite)
	v.SetDefault("store.path", "sms-ledger.db")

	// Parser defaults
	v.SetDefault("parser.timezone", "Asia/Kolkata")

	// Categorizer defaults
	v.SetDefault("categorizer.rules_file", "")

	// Batch defaults
	v.SetDefault("batch.delimiter", ",")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if strings.TrimSpace(config.Server.DefaultUser) == "" {
		return fmt.Errorf("server.default_user must not be empty")
	}

	switch config.Store.Driver {
	case store.DriverSQLite:
		if config.Store.Path == "" {
			return fmt.Errorf("store.path required for the %s driver", store.DriverSQLite)
		}
	case store.DriverMemory:
	default:
		return fmt.Errorf("invalid store driver: %s (must be '%s' or '%s')",
			config.Store.Driver, store.DriverSQLite, store.DriverMemory)
	}

	if _, err := time.LoadLocation(config.Parser.Timezone); err != nil {
		return fmt.Errorf("invalid parser timezone: %s", config.Parser.Timezone)
	}

	// Validate CSV delimiter
	if len([]rune(config.Batch.Delimiter)) != 1 {
		return fmt.Errorf("batch delimiter must be a single character, got: %s", config.Batch.Delimiter)
	}

	return nil
}

// Location returns the configured parser time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Parser.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", c.Parser.Timezone, err)
	}
	return loc, nil
}

// DelimiterRune returns the batch CSV delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r := []rune(c.Batch.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
