package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTelegramNotifier_Validate(t *testing.T) {
	tests := []struct {
		name     string
		botToken string
		chatID   string
		wantErr  bool
	}{
		{"valid", "123:abc", "42", false},
		{"missing bot token", "", "42", true},
		{"missing chat id", "123:abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewTelegramNotifier(tt.botToken, tt.chatID)
			err := n.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTelegramNotifier_Send(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewTelegramNotifier("123:abc", "42")
	n.apiBase = server.URL

	event := Event{
		Kind:      KindStatusChange,
		Name:      "hw1",
		Status:    "accepted",
		Verdict:   "✅ Review finished: the reviewer liked everything. Hooray!",
		Timestamp: time.Now(),
	}
	if err := n.Send(context.Background(), event); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("path = %q, want %q", gotPath, "/bot123:abc/sendMessage")
	}
	if gotPayload["chat_id"] != "42" {
		t.Errorf("chat_id = %v, want %q", gotPayload["chat_id"], "42")
	}
	if gotPayload["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %v, want HTML", gotPayload["parse_mode"])
	}
	text, _ := gotPayload["text"].(string)
	if !strings.Contains(text, "hw1") || !strings.Contains(text, "accepted") {
		t.Errorf("text = %q, want the homework name and status", text)
	}
}

func TestTelegramNotifier_Send_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	n := NewTelegramNotifier("bad-token", "42")
	n.apiBase = server.URL

	err := n.Send(context.Background(), Event{Kind: KindStartup})
	if err == nil {
		t.Fatal("Send() expected error for 401 response, got nil")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q does not name the status code", err)
	}
}

func TestFormatText(t *testing.T) {
	change := FormatText(Event{
		Kind:    KindStatusChange,
		Name:    "hw1",
		Status:  "rejected",
		Verdict: "⚠️ Review finished: the reviewer left remarks.",
	})
	for _, want := range []string{`"hw1"`, "rejected", "remarks"} {
		if !strings.Contains(change, want) {
			t.Errorf("status change text %q does not contain %q", change, want)
		}
	}

	failure := FormatText(Event{
		Kind:          KindFailure,
		Reason:        "transport: connection refused",
		CorrelationID: "abc-123",
	})
	for _, want := range []string{"connection refused", "abc-123"} {
		if !strings.Contains(failure, want) {
			t.Errorf("failure text %q does not contain %q", failure, want)
		}
	}

	startup := FormatText(Event{Kind: KindStartup, Timestamp: time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)})
	if !strings.Contains(startup, "2025-01-02 03:04") {
		t.Errorf("startup text %q does not contain the timestamp", startup)
	}
}
