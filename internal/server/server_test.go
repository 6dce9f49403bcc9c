package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jpalmerr/gradepulse/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleHealthz(t *testing.T) {
	s := NewServer(store.NewMemoryStore(), 0, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok\n" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok\n")
	}
}

func TestHandleHealthz_MethodNotAllowed(t *testing.T) {
	s := NewServer(store.NewMemoryStore(), 0, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealthz(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	st := store.NewMemoryStore()
	st.RecordCycle(store.CycleResult{State: "accepted", Cursor: 1700000000, CheckedAt: time.Now()})
	st.RecordNotification(store.Notification{Name: "hw1", Status: "accepted", SentAt: time.Now()})

	s := NewServer(st, 0, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	s.handleStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if snap.State != "accepted" || snap.Cursor != 1700000000 {
		t.Errorf("snapshot = %+v, want the recorded state", snap)
	}
	if len(snap.Notifications) != 1 || snap.Notifications[0].Name != "hw1" {
		t.Errorf("Notifications = %+v, want the recorded notification", snap.Notifications)
	}
}

func TestServer_Start_BindsAndShutsDown(t *testing.T) {
	s := NewServer(store.NewMemoryStore(), 0, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// cancellation triggers graceful shutdown; just verify it does not hang
	cancel()
	time.Sleep(50 * time.Millisecond)
}
