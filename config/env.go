package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Secrets holds credentials read from the environment.
//
// Secrets never come from the config file so they stay out of version
// control; the file may still reference the same variables via ${VAR}
// expansion.
type Secrets struct {
	// APIToken authenticates against the homework status API.
	APIToken string `env:"PRACTICUM_TOKEN"`

	// TelegramToken is the Telegram bot token.
	TelegramToken string `env:"TELEGRAM_TOKEN"`

	// TelegramChatID is the Telegram chat to notify.
	TelegramChatID string `env:"TELEGRAM_CHAT_ID"`
}

// ParseSecrets loads credentials from environment variables.
//
// The API token is always required: without it the monitor cannot fetch
// anything and must exit before entering the loop. The Telegram pair is
// required together; it may be omitted entirely when a config file
// defines other notifiers.
func ParseSecrets() (*Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if s.APIToken == "" {
		return nil, errors.New("PRACTICUM_TOKEN is required")
	}
	if (s.TelegramToken == "") != (s.TelegramChatID == "") {
		return nil, errors.New("TELEGRAM_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}

	return &s, nil
}

// HasTelegram reports whether the Telegram credential pair is present.
func (s *Secrets) HasTelegram() bool {
	return s.TelegramToken != "" && s.TelegramChatID != ""
}
