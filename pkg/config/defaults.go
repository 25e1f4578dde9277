package config

import (
	_ "embed"
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultMediaPlaceholder = "<Media omitted>"
	DefaultTopUsers         = 5
	DefaultTopWords         = 20
	DefaultWebhookTimeout   = 10 * time.Second
)

// Environment variable names.
const (
	EnvMediaPlaceholder = "CHATSTAT_MEDIA_PLACEHOLDER"
	EnvStopWordsFile    = "CHATSTAT_STOP_WORDS_FILE"
)

//go:embed stopwords.txt
var defaultStopWords string

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MediaPlaceholder: DefaultMediaPlaceholder,
		TopUsers:         DefaultTopUsers,
		TopWords:         DefaultTopWords,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvMediaPlaceholder); v != "" {
		c.MediaPlaceholder = v
	}
	if v := os.Getenv(EnvStopWordsFile); v != "" {
		c.StopWordsFile = v
	}
}
