package config

import (
	"fmt"

	"github.com/jpalmerr/gradepulse"
	"github.com/jpalmerr/gradepulse/notify"
)

// BuildNotifiers converts parsed notifier configuration into notify
// channel implementations.
func BuildNotifiers(cfg *Config) ([]notify.Notifier, error) {
	notifiers := make([]notify.Notifier, 0, len(cfg.Notifiers))

	for i, nc := range cfg.Notifiers {
		switch nc.Type {
		case "telegram":
			notifiers = append(notifiers, notify.NewTelegramNotifier(nc.BotToken, nc.ChatID))
		case "webhook":
			notifiers = append(notifiers, notify.NewWebhookNotifier(nc.URL, nc.Method))
		default:
			// validation should catch this, but fail loudly as a fallback
			return nil, fmt.Errorf("notifiers[%d]: unknown type %q", i, nc.Type)
		}
	}

	return notifiers, nil
}

// BuildOptions converts parsed configuration and environment secrets into
// SDK options for [gradepulse.New].
//
// When the config file defines no notifiers, a Telegram channel is built
// from the environment credential pair so that an env-only setup works
// without a file.
func BuildOptions(cfg *Config, secrets *Secrets) ([]gradepulse.Option, error) {
	notifiers, err := BuildNotifiers(cfg)
	if err != nil {
		return nil, err
	}

	if len(notifiers) == 0 && secrets.HasTelegram() {
		notifiers = append(notifiers, notify.NewTelegramNotifier(secrets.TelegramToken, secrets.TelegramChatID))
	}

	opts := []gradepulse.Option{
		gradepulse.WithToken(secrets.APIToken),
		gradepulse.WithEndpoint(cfg.Endpoint),
		gradepulse.WithPollInterval(cfg.PollInterval.Duration()),
		gradepulse.WithRequestTimeout(cfg.RequestTimeout.Duration()),
		gradepulse.WithPort(cfg.Port),
		gradepulse.WithNotifyOnFirstStatus(cfg.NotifyOnFirstStatus),
	}
	for _, n := range notifiers {
		opts = append(opts, gradepulse.WithNotifier(n))
	}

	return opts, nil
}
