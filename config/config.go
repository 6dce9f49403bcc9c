// Package config provides YAML configuration parsing for GradePulse.
//
// This package enables running GradePulse as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
// Secrets (API token, bot credentials) come from the environment; the
// file holds everything else and may reference environment variables.
//
// Example configuration:
//
//	poll_interval: 10m
//	port: 8080
//	notify_on_first_status: false
//
//	notifiers:
//	  - type: telegram
//	    bot_token: ${TELEGRAM_TOKEN}
//	    chat_id: ${TELEGRAM_CHAT_ID}
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultEndpoint is the homework status API polled when no endpoint
	// is configured.
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

	// DefaultPollInterval is the fixed sleep between poll cycles.
	DefaultPollInterval = 600 * time.Second

	// DefaultRequestTimeout bounds a single fetch against the status API.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultPort is the status server port.
	DefaultPort = 8080
)

// minPollInterval is the minimum allowed polling interval.
// This prevents accidental DoS of the status API with overly
// aggressive polling.
const minPollInterval = 1 * time.Second

// Config is the root configuration structure for GradePulse.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML, or [Default]
// for an environment-only setup without a file.
type Config struct {
	// Endpoint is the homework status API URL.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Endpoint string `yaml:"endpoint"`

	// PollInterval is the fixed sleep between poll cycles.
	// Accepts duration strings like "600s", "10m". Defaults to 600s.
	PollInterval Duration `yaml:"poll_interval"`

	// RequestTimeout is the per-fetch timeout. Defaults to 10s.
	RequestTimeout Duration `yaml:"request_timeout"`

	// Port is the status server port. Defaults to 8080.
	Port int `yaml:"port"`

	// NotifyOnFirstStatus controls the startup policy: when true, the
	// very first observed status triggers a notification even though
	// there is no prior state to compare against. Defaults to false
	// (the first status is adopted silently).
	NotifyOnFirstStatus bool `yaml:"notify_on_first_status"`

	// Notifiers defines the outbound notification channels.
	Notifiers []NotifierConfig `yaml:"notifiers"`
}

// NotifierConfig defines a single notification channel.
type NotifierConfig struct {
	// Type is the channel type: "telegram" or "webhook".
	Type string `yaml:"type"`

	// BotToken is the Telegram bot token (type: telegram).
	// Values support environment variable substitution.
	BotToken string `yaml:"bot_token"`

	// ChatID is the Telegram chat identity (type: telegram).
	// Values support environment variable substitution.
	ChatID string `yaml:"chat_id"`

	// URL is the webhook target (type: webhook).
	// Values support environment variable substitution.
	URL string `yaml:"url"`

	// Method is the webhook HTTP method. Defaults to POST.
	Method string `yaml:"method"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Default returns a Config with all defaults applied and no notifiers.
//
// This is the configuration used when no file is given; the caller is
// expected to add notifiers built from environment secrets.
func Default() *Config {
	return &Config{
		Endpoint:       DefaultEndpoint,
		PollInterval:   Duration(DefaultPollInterval),
		RequestTimeout: Duration(DefaultRequestTimeout),
		Port:           DefaultPort,
	}
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in Endpoint and notifier credential
// values. Defaults are applied for Endpoint, PollInterval (600s),
// RequestTimeout (10s), and Port (8080).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(DefaultPollInterval)
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = Duration(DefaultRequestTimeout)
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}
	if c.RequestTimeout.Duration() < time.Second {
		return fmt.Errorf("request_timeout must be at least 1s, got %s", c.RequestTimeout.Duration())
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	expanded, err := expandEnvVars(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	c.Endpoint = expanded

	parsedURL, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("endpoint scheme must be http or https, got %q", parsedURL.Scheme)
	}

	for i := range c.Notifiers {
		n := &c.Notifiers[i]

		switch n.Type {
		case "telegram":
			if n.BotToken, err = expandEnvVars(n.BotToken); err != nil {
				return fmt.Errorf("notifiers[%d] (telegram): bot_token: %w", i, err)
			}
			if n.ChatID, err = expandEnvVars(n.ChatID); err != nil {
				return fmt.Errorf("notifiers[%d] (telegram): chat_id: %w", i, err)
			}
			if n.BotToken == "" {
				return fmt.Errorf("notifiers[%d] (telegram): bot_token is required", i)
			}
			if n.ChatID == "" {
				return fmt.Errorf("notifiers[%d] (telegram): chat_id is required", i)
			}
		case "webhook":
			if n.URL, err = expandEnvVars(n.URL); err != nil {
				return fmt.Errorf("notifiers[%d] (webhook): url: %w", i, err)
			}
			if n.URL == "" {
				return fmt.Errorf("notifiers[%d] (webhook): url is required", i)
			}
			if n.Method == "" {
				n.Method = "POST"
			}
			if n.Method != "POST" && n.Method != "PUT" {
				return fmt.Errorf("notifiers[%d] (webhook): method must be POST or PUT, got %q", i, n.Method)
			}
		case "":
			return fmt.Errorf("notifiers[%d]: type is required", i)
		default:
			return fmt.Errorf("notifiers[%d]: unknown type %q (expected 'telegram' or 'webhook')", i, n.Type)
		}
	}

	return nil
}
