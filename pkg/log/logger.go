package log

import (
	"time"

	"github.com/google/uuid"
)

// Logger is the interface applications implement to receive engine events.
// Pass nil or NoopLogger to disable capture.
type Logger interface {
	// Log records an event. Implementations must be thread-safe, and must
	// not call back into the engine.
	Log(event Event)
}

// NoopLogger discards all events.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// MultiLogger sends events to multiple loggers in order.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger. Nil loggers are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

// Log sends the event to all configured loggers.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Session stamps every event with a session id and, when missing, a
// timestamp before forwarding it.
type Session struct {
	id   string
	next Logger
	now  func() time.Time
}

// NewSession creates a Session with a fresh random id.
func NewSession(next Logger) *Session {
	return NewSessionWithID(uuid.NewString(), next)
}

// NewSessionWithID creates a Session with a caller-chosen id.
func NewSessionWithID(id string, next Logger) *Session {
	if next == nil {
		next = NoopLogger{}
	}
	return &Session{id: id, next: next, now: time.Now}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Log stamps and forwards the event.
func (s *Session) Log(event Event) {
	if event.SessionID == "" {
		event.SessionID = s.id
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.next.Log(event)
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = NoopLogger{}
	_ Logger = (*MultiLogger)(nil)
	_ Logger = (*Session)(nil)
)
