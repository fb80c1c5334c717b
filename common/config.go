// Package common provides configuration loading and small helpers shared
// by the scraper components.
package common

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every tunable for the scraper. It is loaded once at startup
// and passed by value into each component so components stay independently
// testable.
type Config struct {
	// YouTube API
	APIKey               string `mapstructure:"api_key"`
	MaxResultsPerRequest int    `mapstructure:"max_results_per_request"`
	MaxTotalComments     int    `mapstructure:"max_total_comments"`

	// Rate limiting and quota
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	QuotaLimitPerDay  int     `mapstructure:"quota_limit_per_day"`

	// Validation
	MinCommentLength   int      `mapstructure:"min_comment_length"`
	MaxCommentLength   int      `mapstructure:"max_comment_length"`
	ExcludeSpam        bool     `mapstructure:"exclude_spam"`
	Languages          []string `mapstructure:"languages"`
	SpamPunctuationRun int      `mapstructure:"spam_punctuation_run"`
	SpamCharRun        int      `mapstructure:"spam_char_run"`

	// Storage and exports
	DatabasePath string `mapstructure:"database_path"`
	ExportsPath  string `mapstructure:"exports_path"`

	// Dashboard
	ListenAddr string `mapstructure:"listen_addr"`
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		MaxResultsPerRequest: 100,
		MaxTotalComments:     1000,
		RequestsPerSecond:    1,
		QuotaLimitPerDay:     10000,
		MinCommentLength:     1,
		MaxCommentLength:     10000,
		ExcludeSpam:          true,
		SpamPunctuationRun:   5,
		SpamCharRun:          10,
		DatabasePath:         "data/comments.db",
		ExportsPath:          "data/exports",
		ListenAddr:           ":8080",
	}
}

// LoadConfig reads the configuration from the given YAML file. When path
// is empty it looks for config.yaml in the working directory. Environment
// variables prefixed with YTSCRAPER_ override file values.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("max_results_per_request", def.MaxResultsPerRequest)
	v.SetDefault("max_total_comments", def.MaxTotalComments)
	v.SetDefault("requests_per_second", def.RequestsPerSecond)
	v.SetDefault("quota_limit_per_day", def.QuotaLimitPerDay)
	v.SetDefault("min_comment_length", def.MinCommentLength)
	v.SetDefault("max_comment_length", def.MaxCommentLength)
	v.SetDefault("exclude_spam", def.ExcludeSpam)
	v.SetDefault("spam_punctuation_run", def.SpamPunctuationRun)
	v.SetDefault("spam_char_run", def.SpamCharRun)
	v.SetDefault("database_path", def.DatabasePath)
	v.SetDefault("exports_path", def.ExportsPath)
	v.SetDefault("listen_addr", def.ListenAddr)

	v.SetEnvPrefix("YTSCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only surfaces env values through Unmarshal for keys
	// viper already knows; these two have no default, so bind them.
	v.BindEnv("api_key")
	v.BindEnv("languages")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("failed to read config: %w", err)
			}
			// No config file is fine; defaults plus env apply.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and clamps values the API caps anyway.
func (c *Config) Validate() error {
	if c.MaxResultsPerRequest < 1 {
		return fmt.Errorf("max_results_per_request must be at least 1, got %d", c.MaxResultsPerRequest)
	}
	// API caps page size at 100.
	if c.MaxResultsPerRequest > 100 {
		c.MaxResultsPerRequest = 100
	}
	if c.MaxTotalComments < 1 {
		return fmt.Errorf("max_total_comments must be at least 1, got %d", c.MaxTotalComments)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %v", c.RequestsPerSecond)
	}
	if c.QuotaLimitPerDay < 1 {
		return fmt.Errorf("quota_limit_per_day must be at least 1, got %d", c.QuotaLimitPerDay)
	}
	if c.MinCommentLength < 0 {
		return fmt.Errorf("min_comment_length must not be negative, got %d", c.MinCommentLength)
	}
	if c.MaxCommentLength < c.MinCommentLength {
		return fmt.Errorf("max_comment_length (%d) must not be below min_comment_length (%d)",
			c.MaxCommentLength, c.MinCommentLength)
	}
	if c.SpamPunctuationRun < 2 {
		return fmt.Errorf("spam_punctuation_run must be at least 2, got %d", c.SpamPunctuationRun)
	}
	if c.SpamCharRun < 2 {
		return fmt.Errorf("spam_char_run must be at least 2, got %d", c.SpamCharRun)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	return nil
}

// RequireAPIKey fails when no usable API key is configured.
func (c Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is not configured; set it in the config file or YTSCRAPER_API_KEY")
	}
	if c.APIKey == "YOUR_YOUTUBE_API_KEY_HERE" {
		return fmt.Errorf("api_key is still the placeholder; set a real YouTube API key")
	}
	return nil
}
