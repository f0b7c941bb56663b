// Copyright 2024 World Journey AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	// ErrMissingRequiredField is returned when a required configuration field is missing
	ErrMissingRequiredField = errors.New("missing required configuration field")
	// ErrInvalidConfigValue is returned when a configuration value is invalid
	ErrInvalidConfigValue = errors.New("invalid configuration value")
)

// Config represents the complete application configuration. The matching,
// relevance, and cache thresholds were tuned empirically; they are exposed
// here rather than hard-coded so product can re-tune them.
type Config struct {
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Relevance RelevanceConfig `mapstructure:"relevance"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Session   SessionConfig   `mapstructure:"session"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// OpenAIConfig contains the generation client configuration.
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"apikey"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// CatalogConfig points at the destination catalog and alias documents.
type CatalogConfig struct {
	Path        string `mapstructure:"path"`
	AliasesPath string `mapstructure:"aliases_path"`
}

// MatchingConfig contains the fuzzy matching thresholds.
type MatchingConfig struct {
	FuzzyCutoff         float64 `mapstructure:"fuzzy_cutoff"`
	DidYouMeanCutoff    float64 `mapstructure:"did_you_mean_cutoff"`
	AliasMinSubstring   int     `mapstructure:"alias_min_substring"`
	AliasHighSimilarity float64 `mapstructure:"alias_high_similarity"`
	AliasHighLead       float64 `mapstructure:"alias_high_lead"`
	AliasLowSimilarity  float64 `mapstructure:"alias_low_similarity"`
	AliasLowLead        float64 `mapstructure:"alias_low_lead"`
}

// RelevanceConfig contains the travel-relevance gate thresholds.
type RelevanceConfig struct {
	RefuseBelow     float64 `mapstructure:"refuse_below"`
	CategoriesBelow float64 `mapstructure:"categories_below"`
}

// CacheConfig contains the response cache policy.
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// SessionConfig contains conversation memory policy.
type SessionConfig struct {
	MaxTurns     int           `mapstructure:"max_turns"`
	ReplayWindow time.Duration `mapstructure:"replay_window"`
}

// ChatConfig contains request validation and result sizing.
type ChatConfig struct {
	MaxMessageLength int `mapstructure:"max_message_length"`
	MaxSuggestions   int `mapstructure:"max_suggestions"`
}

// StorageConfig contains the places database configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// ServerConfig contains the HTTP listener configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed for field '%s': %s", e.Field, e.Message)
}

// LoadOptions contains options for configuration loading.
type LoadOptions struct {
	ConfigPath       string
	ValidateRequired bool
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over config file values.
func Load(configPath string) (*Config, error) {
	return LoadWithOptions(LoadOptions{ConfigPath: configPath, ValidateRequired: true})
}

// LoadWithOptions loads configuration with additional options.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if err := setConfigFile(v, opts.ConfigPath); err != nil {
		return nil, fmt.Errorf("failed to set config file: %w", err)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("WORLD_JOURNEY")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is not an error if env vars are set
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	setEnvironmentMappings(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if opts.ValidateRequired {
		if err := validateConfig(&config); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// OpenAI defaults
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("openai.max_tokens", 800)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.timeout", 30*time.Second)

	// Catalog defaults
	v.SetDefault("catalog.path", "./configs/destinations.json")
	v.SetDefault("catalog.aliases_path", "./configs/aliases.json")

	// Matching defaults
	v.SetDefault("matching.fuzzy_cutoff", 0.55)
	v.SetDefault("matching.did_you_mean_cutoff", 0.7)
	v.SetDefault("matching.alias_min_substring", 4)
	v.SetDefault("matching.alias_high_similarity", 0.8)
	v.SetDefault("matching.alias_high_lead", 0.1)
	v.SetDefault("matching.alias_low_similarity", 0.7)
	v.SetDefault("matching.alias_low_lead", 0.2)

	// Relevance gate defaults
	v.SetDefault("relevance.refuse_below", 0.1)
	v.SetDefault("relevance.categories_below", 0.2)

	// Cache defaults
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.max_entries", 1000)

	// Session defaults
	v.SetDefault("session.max_turns", 10)
	v.SetDefault("session.replay_window", 15*time.Second)

	// Chat defaults
	v.SetDefault("chat.max_message_length", 1000)
	v.SetDefault("chat.max_suggestions", 5)

	// Storage defaults
	v.SetDefault("storage.db_path", "./places.db")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// setConfigFile sets the configuration file path with fallback logic.
func setConfigFile(v *viper.Viper, configPath string) error {
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return fmt.Errorf("config file specified by CONFIG_PATH does not exist: %s", envPath)
		}
		v.SetConfigFile(envPath)
		return nil
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("config file does not exist: %s", configPath)
		}
		v.SetConfigFile(configPath)
		return nil
	}

	// Default fallback locations; running on env vars alone is supported.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	return nil
}

// setEnvironmentMappings sets explicit environment variable mappings.
func setEnvironmentMappings(v *viper.Viper) {
	envMappings := map[string]string{
		"OPENAI_API_KEY": "openai.apikey",
		"OPENAI_MODEL":   "openai.model",
		"CATALOG_PATH":   "catalog.path",
		"ALIASES_PATH":   "catalog.aliases_path",
		"PLACES_DB_PATH": "storage.db_path",
		"LOG_LEVEL":      "logging.level",
		"LOG_FORMAT":     "logging.format",
		"LOG_OUTPUT":     "logging.output",
	}

	for envVar, configKey := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			v.Set(configKey, value)
		}
	}
}

// validateConfig validates the configuration for required fields and valid values.
func validateConfig(config *Config) error {
	var errs []ValidationError

	if config.OpenAI.APIKey == "" {
		errs = append(errs, ValidationError{
			Field:   "openai.apikey",
			Message: "OpenAI API key is required. Set via config file or OPENAI_API_KEY environment variable",
		})
	}
	if config.OpenAI.MaxTokens <= 0 {
		errs = append(errs, ValidationError{
			Field:   "openai.max_tokens",
			Message: "max_tokens must be greater than 0",
		})
	}
	if config.OpenAI.Temperature < 0 || config.OpenAI.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "openai.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	for field, value := range map[string]float64{
		"matching.fuzzy_cutoff":          config.Matching.FuzzyCutoff,
		"matching.did_you_mean_cutoff":   config.Matching.DidYouMeanCutoff,
		"matching.alias_high_similarity": config.Matching.AliasHighSimilarity,
		"matching.alias_low_similarity":  config.Matching.AliasLowSimilarity,
		"relevance.refuse_below":         config.Relevance.RefuseBelow,
		"relevance.categories_below":     config.Relevance.CategoriesBelow,
	} {
		if value < 0 || value > 1 {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "value must be between 0 and 1",
			})
		}
	}

	if config.Relevance.RefuseBelow > config.Relevance.CategoriesBelow {
		errs = append(errs, ValidationError{
			Field:   "relevance.refuse_below",
			Message: "refuse_below must not exceed categories_below",
		})
	}

	if config.Cache.TTL <= 0 {
		errs = append(errs, ValidationError{
			Field:   "cache.ttl",
			Message: "ttl must be greater than 0",
		})
	}
	if config.Cache.MaxEntries <= 0 {
		errs = append(errs, ValidationError{
			Field:   "cache.max_entries",
			Message: "max_entries must be greater than 0",
		})
	}

	if config.Chat.MaxMessageLength <= 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.max_message_length",
			Message: "max_message_length must be greater than 0",
		})
	}

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: "port must be between 1 and 65535",
		})
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, config.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("log level must be one of: %s", strings.Join(validLogLevels, ", ")),
		})
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, config.Logging.Format) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("log format must be one of: %s", strings.Join(validLogFormats, ", ")),
		})
	}

	if len(errs) > 0 {
		var errorMessages []string
		for _, err := range errs {
			errorMessages = append(errorMessages, err.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errorMessages, "\n"))
	}
	return nil
}

// MaskSensitiveValues returns a copy of the config with sensitive values masked.
func (c *Config) MaskSensitiveValues() *Config {
	masked := *c
	if masked.OpenAI.APIKey != "" {
		masked.OpenAI.APIKey = maskValue(masked.OpenAI.APIKey)
	}
	return &masked
}

// maskValue masks sensitive values, showing only the first 8 characters.
func maskValue(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:8] + strings.Repeat("*", len(value)-8)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// WatchConfig enables configuration hot-reloading for development.
func WatchConfig(configPath string, callback func(*Config)) error {
	v := viper.New()

	if err := setConfigFile(v, configPath); err != nil {
		return err
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		config, err := LoadWithOptions(LoadOptions{
			ConfigPath:       configPath,
			ValidateRequired: true,
		})
		if err != nil {
			fmt.Printf("Failed to reload config %s: %v\n", e.Name, err)
			return
		}
		callback(config)
	})
	return nil
}
