package log

import (
	"sync"
	"testing"
	"time"
)

// recordingLogger collects events for assertions.
type recordingLogger struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingLogger) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingLogger) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Log(Event{Category: CategoryError})
}

func TestMultiLoggerFansOut(t *testing.T) {
	a := &recordingLogger{}
	b := &recordingLogger{}
	m := NewMultiLogger(a, nil, b)

	m.Log(Event{ObjectID: 42})

	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Fatalf("expected one event per logger, got %d and %d", len(a.Events()), len(b.Events()))
	}
	if a.Events()[0].ObjectID != 42 {
		t.Errorf("ObjectID = %d, want 42", a.Events()[0].ObjectID)
	}
}

func TestSessionStampsEvents(t *testing.T) {
	rec := &recordingLogger{}
	s := NewSession(rec)

	if len(s.ID()) != 36 {
		t.Errorf("expected a UUID session id, got %q", s.ID())
	}

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.Log(Event{ObjectID: 1})
	s.Log(Event{ObjectID: 2, SessionID: "other", Timestamp: fixed.Add(time.Second)})

	events := rec.Events()
	if events[0].SessionID != s.ID() {
		t.Errorf("SessionID = %q, want %q", events[0].SessionID, s.ID())
	}
	if !events[0].Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want %v", events[0].Timestamp, fixed)
	}
	if events[1].SessionID != "other" {
		t.Errorf("existing SessionID overwritten: %q", events[1].SessionID)
	}
	if !events[1].Timestamp.Equal(fixed.Add(time.Second)) {
		t.Errorf("existing Timestamp overwritten: %v", events[1].Timestamp)
	}
}

func TestSessionNilLogger(t *testing.T) {
	s := NewSessionWithID("fixed", nil)
	s.Log(Event{})
	if s.ID() != "fixed" {
		t.Errorf("ID = %q, want fixed", s.ID())
	}
}
