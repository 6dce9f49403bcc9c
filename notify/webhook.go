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

// WebhookNotifier sends events as JSON to an HTTP endpoint.
type WebhookNotifier struct {
	URL    string
	Method string
}

// NewWebhookNotifier creates a webhook notifier. Method defaults to POST.
func NewWebhookNotifier(url, method string) *WebhookNotifier {
	if method == "" {
		method = http.MethodPost
	}
	return &WebhookNotifier{URL: url, Method: method}
}

func (w *WebhookNotifier) Type() string { return "webhook" }

// Validate checks that the webhook target is present.
func (w *WebhookNotifier) Validate() error {
	if w.URL == "" {
		return errors.New("webhook: url is required")
	}
	if w.Method == "" {
		return errors.New("webhook: method is required")
	}
	return nil
}

// Send delivers the event as a single JSON request.
func (w *WebhookNotifier) Send(ctx context.Context, event Event) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	payload := map[string]any{
		"kind":      string(event.Kind),
		"text":      FormatText(event),
		"timestamp": ts.Unix(),
	}
	if event.Name != "" {
		payload["homework_name"] = event.Name
	}
	if event.Status != "" {
		payload["status"] = event.Status
	}
	if event.Reason != "" {
		payload["reason"] = event.Reason
	}
	if event.CorrelationID != "" {
		payload["correlation_id"] = event.CorrelationID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, w.Method, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}
