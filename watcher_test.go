package gradepulse

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jpalmerr/gradepulse/notify"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryNotifier collects events in memory for assertions.
type memoryNotifier struct {
	mu       sync.Mutex
	events   []notify.Event
	validErr error
}

func (m *memoryNotifier) Type() string    { return "memory" }
func (m *memoryNotifier) Validate() error { return m.validErr }

func (m *memoryNotifier) Send(ctx context.Context, event notify.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *memoryNotifier) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(WithNotifier(&memoryNotifier{}))
	if err == nil {
		t.Fatal("New() expected error without a token, got nil")
	}
}

func TestNew_RequiresNotifier(t *testing.T) {
	_, err := New(WithToken("tok"))
	if err == nil {
		t.Fatal("New() expected error without notifiers, got nil")
	}
}

func TestNew_ValidatesNotifiers(t *testing.T) {
	bad := &memoryNotifier{validErr: errors.New("misconfigured")}

	_, err := New(WithToken("tok"), WithNotifier(bad))
	if err == nil {
		t.Fatal("New() expected error for an invalid notifier, got nil")
	}
}

func TestNew_Defaults(t *testing.T) {
	w, err := New(WithToken("tok"), WithNotifier(&memoryNotifier{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if w.PollInterval() != defaultPollInterval {
		t.Errorf("PollInterval() = %s, want %s", w.PollInterval(), defaultPollInterval)
	}
	if w.Port() != defaultPort {
		t.Errorf("Port() = %d, want %d", w.Port(), defaultPort)
	}
	if len(w.Notifiers()) != 1 {
		t.Errorf("len(Notifiers()) = %d, want 1", len(w.Notifiers()))
	}
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty token", WithToken("")},
		{"endpoint without scheme", WithEndpoint("practicum.yandex.ru/api")},
		{"zero poll interval", WithPollInterval(0)},
		{"negative request timeout", WithRequestTimeout(-time.Second)},
		{"port out of range", WithPort(70000)},
		{"nil notifier", WithNotifier(nil)},
		{"nil logger", WithLogger(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt, WithToken("tok"), WithNotifier(&memoryNotifier{}))
			if err == nil {
				t.Error("New() expected option validation error, got nil")
			}
		})
	}
}

func TestWithCycleCallback_NilIsIgnored(t *testing.T) {
	_, err := New(
		WithToken("tok"),
		WithNotifier(&memoryNotifier{}),
		WithCycleCallback(nil),
	)
	if err != nil {
		t.Fatalf("New() error = %v, want nil callbacks accepted as no-ops", err)
	}
}

func TestStart_CancelledContextReturnsImmediately(t *testing.T) {
	w, err := New(
		WithToken("tok"),
		WithNotifier(&memoryNotifier{}),
		WithoutServer(),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v, want nil on cancelled context", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return for an already-cancelled context")
	}
}

func TestStart_EndToEnd(t *testing.T) {
	cursor := time.Now().Unix() + 3600
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"homeworks": [{"homework_name": "hw1", "status": "accepted"}], "current_date": ` + strconv.FormatInt(cursor, 10) + `}`))
	}))
	defer apiServer.Close()

	notifier := &memoryNotifier{}
	results := make(chan CycleResult, 16)

	w, err := New(
		WithToken("tok"),
		WithEndpoint(apiServer.URL),
		WithPollInterval(20*time.Millisecond),
		WithNotifier(notifier),
		WithNotifyOnFirstStatus(true),
		WithoutServer(),
		WithLogger(testLogger()),
		WithCycleCallback(func(r CycleResult) {
			select {
			case results <- r:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	var first CycleResult
	select {
	case first = <-results:
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("no cycle result observed")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v, want nil on graceful shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after cancellation")
	}

	if first.Err != nil {
		t.Fatalf("first cycle error = %v", first.Err)
	}
	if first.ChangedTo != StatusAccepted || !first.Notified {
		t.Errorf("first cycle = %+v, want a notified change to accepted", first)
	}
	if first.Name != "hw1" {
		t.Errorf("Name = %q, want hw1", first.Name)
	}
	if first.Cursor != cursor {
		t.Errorf("Cursor = %d, want %d", first.Cursor, cursor)
	}

	// startup announcement plus at least one status change
	if notifier.eventCount() < 2 {
		t.Errorf("delivered events = %d, want the startup announcement and a change", notifier.eventCount())
	}
}

func TestStart_CallbackPanicIsContained(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"homeworks": [], "current_date": 1}`))
	}))
	defer apiServer.Close()

	sawSecond := make(chan struct{}, 1)
	calls := 0

	w, err := New(
		WithToken("tok"),
		WithEndpoint(apiServer.URL),
		WithPollInterval(20*time.Millisecond),
		WithNotifier(&memoryNotifier{}),
		WithoutServer(),
		WithLogger(testLogger()),
		WithCycleCallback(func(r CycleResult) {
			calls++
			if calls == 1 {
				panic("callback exploded")
			}
			select {
			case sawSecond <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	select {
	case <-sawSecond:
		// panic in cycle one did not kill the consumer
	case <-time.After(5 * time.Second):
		t.Error("consumer never reached the second callback invocation")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after cancellation")
	}
}
