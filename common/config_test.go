package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.MaxResultsPerRequest)
	assert.Equal(t, 1000, cfg.MaxTotalComments)
	assert.True(t, cfg.ExcludeSpam)
	assert.Empty(t, cfg.Languages)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api_key: test-key-123
max_results_per_request: 50
max_total_comments: 200
requests_per_second: 2
min_comment_length: 5
languages:
  - en
  - de
database_path: /tmp/test.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test-key-123", cfg.APIKey)
	assert.Equal(t, 50, cfg.MaxResultsPerRequest)
	assert.Equal(t, 200, cfg.MaxTotalComments)
	assert.Equal(t, float64(2), cfg.RequestsPerSecond)
	assert.Equal(t, 5, cfg.MinCommentLength)
	assert.Equal(t, []string{"en", "de"}, cfg.Languages)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10000, cfg.QuotaLimitPerDay)
	assert.Equal(t, "data/exports", cfg.ExportsPath)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("YTSCRAPER_API_KEY", "env-key-123")
	t.Setenv("YTSCRAPER_LANGUAGES", "en,de")
	t.Setenv("YTSCRAPER_MAX_TOTAL_COMMENTS", "42")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "env-key-123", cfg.APIKey)
	assert.Equal(t, []string{"en", "de"}, cfg.Languages)
	assert.Equal(t, 42, cfg.MaxTotalComments)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateClampsPageSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxResultsPerRequest = 500
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.MaxResultsPerRequest)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero page size", func(c *Config) { c.MaxResultsPerRequest = 0 }},
		{"zero max comments", func(c *Config) { c.MaxTotalComments = 0 }},
		{"zero rate", func(c *Config) { c.RequestsPerSecond = 0 }},
		{"negative rate", func(c *Config) { c.RequestsPerSecond = -1 }},
		{"zero quota", func(c *Config) { c.QuotaLimitPerDay = 0 }},
		{"negative min length", func(c *Config) { c.MinCommentLength = -1 }},
		{"max below min length", func(c *Config) { c.MinCommentLength = 10; c.MaxCommentLength = 5 }},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }},
		{"tiny punctuation run", func(c *Config) { c.SpamPunctuationRun = 1 }},
		{"tiny char run", func(c *Config) { c.SpamCharRun = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.RequireAPIKey())

	cfg.APIKey = "YOUR_YOUTUBE_API_KEY_HERE"
	assert.Error(t, cfg.RequireAPIKey())

	cfg.APIKey = "real-key"
	assert.NoError(t, cfg.RequireAPIKey())
}
