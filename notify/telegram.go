package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultTelegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends events via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string

	// apiBase overrides the Telegram API host in tests.
	apiBase string
}

// NewTelegramNotifier creates a Telegram notifier for the given bot and chat.
func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{BotToken: botToken, ChatID: chatID}
}

func (t *TelegramNotifier) Type() string { return "telegram" }

// Validate checks that the bot token and chat id are present.
func (t *TelegramNotifier) Validate() error {
	if t.BotToken == "" {
		return errors.New("telegram: bot token is required")
	}
	if t.ChatID == "" {
		return errors.New("telegram: chat id is required")
	}
	return nil
}

// Send delivers the event as a single sendMessage call.
func (t *TelegramNotifier) Send(ctx context.Context, event Event) error {
	payload := map[string]any{
		"chat_id":    t.ChatID,
		"text":       FormatText(event),
		"parse_mode": "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	base := t.apiBase
	if base == "" {
		base = defaultTelegramAPIBase
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", base, t.BotToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// FormatText renders an event as a plain message suitable for chat channels.
func FormatText(event Event) string {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	switch event.Kind {
	case KindStartup:
		return fmt.Sprintf("👋 Homework monitoring started at %s", ts.UTC().Format("2006-01-02 15:04"))
	case KindStatusChange:
		return fmt.Sprintf("The review status of %q changed to %s.\n%s",
			event.Name, event.Status, event.Verdict)
	case KindFailure:
		msg := fmt.Sprintf("🚨 Monitoring failure: %s", event.Reason)
		if event.CorrelationID != "" {
			msg += fmt.Sprintf("\nCorrelation ID: %s", event.CorrelationID)
		}
		return msg
	default:
		return event.Reason
	}
}
