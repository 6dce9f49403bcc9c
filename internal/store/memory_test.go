package store

import (
	"fmt"
	"testing"
	"time"
)

func TestMemoryStore_EmptySnapshot(t *testing.T) {
	s := NewMemoryStore()

	snap := s.Snapshot()
	if snap.State != "unknown" {
		t.Errorf("State = %q, want %q before the first cycle", snap.State, "unknown")
	}
	if snap.Cycles != 0 || snap.Failures != 0 {
		t.Errorf("Cycles/Failures = %d/%d, want 0/0", snap.Cycles, snap.Failures)
	}
	if snap.LastCycle != nil {
		t.Errorf("LastCycle = %+v, want nil", snap.LastCycle)
	}
	if snap.StartedAt.IsZero() {
		t.Error("StartedAt is zero, want the construction time")
	}
}

func TestMemoryStore_RecordCycle(t *testing.T) {
	s := NewMemoryStore()

	errMsg := "transport: connection refused"
	s.RecordCycle(CycleResult{State: "pending", Cursor: 100, CheckedAt: time.Now()})
	s.RecordCycle(CycleResult{State: "pending", Cursor: 100, Error: &errMsg})
	s.RecordCycle(CycleResult{State: "accepted", Cursor: 200, ChangedTo: "accepted"})

	snap := s.Snapshot()
	if snap.Cycles != 3 {
		t.Errorf("Cycles = %d, want 3", snap.Cycles)
	}
	if snap.Failures != 1 {
		t.Errorf("Failures = %d, want 1", snap.Failures)
	}
	if snap.State != "accepted" || snap.Cursor != 200 {
		t.Errorf("State/Cursor = %q/%d, want accepted/200", snap.State, snap.Cursor)
	}
	if snap.LastError != nil {
		t.Errorf("LastError = %v, want nil after a successful cycle", *snap.LastError)
	}
	if snap.LastCycle == nil || snap.LastCycle.ChangedTo != "accepted" {
		t.Errorf("LastCycle = %+v, want the third cycle", snap.LastCycle)
	}
}

func TestMemoryStore_NotificationHistoryBounded(t *testing.T) {
	s := NewMemoryStore()

	for i := 0; i < maxNotifications+10; i++ {
		s.RecordNotification(Notification{
			Name:   fmt.Sprintf("hw%d", i),
			Status: "accepted",
			SentAt: time.Now(),
		})
	}

	snap := s.Snapshot()
	if len(snap.Notifications) != maxNotifications {
		t.Fatalf("len(Notifications) = %d, want %d", len(snap.Notifications), maxNotifications)
	}
	// newest first
	if snap.Notifications[0].Name != fmt.Sprintf("hw%d", maxNotifications+9) {
		t.Errorf("Notifications[0].Name = %q, want the most recent entry", snap.Notifications[0].Name)
	}
}

func TestMemoryStore_SnapshotIsACopy(t *testing.T) {
	s := NewMemoryStore()
	s.RecordCycle(CycleResult{State: "pending", Cursor: 1})
	s.RecordNotification(Notification{Name: "hw1", Status: "pending"})

	snap := s.Snapshot()
	snap.LastCycle.State = "mutated"
	snap.Notifications[0].Name = "mutated"

	fresh := s.Snapshot()
	if fresh.LastCycle.State != "pending" {
		t.Error("mutating a snapshot's LastCycle changed the store")
	}
	if fresh.Notifications[0].Name != "hw1" {
		t.Error("mutating a snapshot's notifications changed the store")
	}
}
