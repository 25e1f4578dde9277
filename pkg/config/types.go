// Package config provides configuration loading and validation for chatstat.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// MediaPlaceholder is the text WhatsApp writes in place of an omitted attachment.
	MediaPlaceholder string `yaml:"media_placeholder" validate:"required"`

	// StopWordsFile points to a whitespace-separated stop-word list.
	// Relative paths are resolved against the config file's directory.
	// The embedded default list is used when empty.
	StopWordsFile string `yaml:"stop_words_file,omitempty"`

	// StopWords are extra stop words merged with the file list.
	StopWords []string `yaml:"stop_words,omitempty"`

	// TopUsers is how many senders the busiest-users ranking keeps.
	TopUsers int `yaml:"top_users" validate:"min=1,max=1000"`

	// TopWords is how many entries the most-common-words table keeps.
	TopWords int `yaml:"top_words" validate:"min=1,max=10000"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" validate:"dive"`

	// stopWords is the resolved, lower-cased stop-word list (populated during validation).
	stopWords []string
}

// ResolvedStopWords returns the stop words loaded during validation.
func (c *Config) ResolvedStopWords() []string {
	return c.stopWords
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnMessages fires only when the export contained messages (default).
	WebhookTriggerOnMessages WebhookTrigger = "on_messages"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint that receives JSON analysis reports.
type WebhookConfig struct {
	Name    string         `yaml:"name,omitempty"`
	URL     string         `yaml:"url" validate:"required,url"`
	Token   string         `yaml:"token,omitempty"`
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout. Defaults to 10s.
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"omitempty,min=1s,max=5m"`
}
