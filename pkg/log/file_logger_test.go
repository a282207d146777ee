package log

import (
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture"+FileExtension)

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	muted := true
	route := int32(3)
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)

	logger.Log(Event{
		Timestamp: ts,
		SessionID: "s1",
		Direction: DirectionIn,
		Layer:     LayerAudio,
		Category:  CategoryEvent,
		ObjectID:  40,
		Param:     NewParamEventData(2, 0, []byte{1, 2, 3}),
	})
	logger.Log(Event{
		Timestamp: ts.Add(time.Millisecond),
		SessionID: "s1",
		Direction: DirectionOut,
		Layer:     LayerDevice,
		Category:  CategoryCommand,
		ObjectID:  41,
		Command: &CommandEventData{
			Method:      CommandSetParam,
			ParamID:     13,
			RouteDevice: &route,
			Muted:       &muted,
		},
	})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	logger.Log(Event{}) // ignored after close

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	events, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	if !events[0].Timestamp.Equal(ts) {
		t.Errorf("timestamp lost precision: %v", events[0].Timestamp)
	}
	if events[0].Param == nil || events[0].Param.Size != 3 {
		t.Errorf("unexpected param payload: %+v", events[0].Param)
	}
	cmd := events[1].Command
	if cmd == nil || cmd.RouteDevice == nil || *cmd.RouteDevice != 3 || cmd.Muted == nil || !*cmd.Muted {
		t.Errorf("unexpected command payload: %+v", cmd)
	}
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter"+FileExtension)

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Log(Event{ObjectID: 1, Category: CategoryEvent})
	logger.Log(Event{ObjectID: 1, Category: CategoryError, Error: &ErrorEventData{Kind: ErrorMalformed, Message: "bad pod"}})
	logger.Log(Event{ObjectID: 2, Category: CategoryError, Error: &ErrorEventData{Kind: ErrorNotReady, Message: "not bound"}})
	logger.Log(Event{ObjectID: 2, Category: CategoryState, StateChange: &StateChangeEvent{Field: StateFieldMuted, NewValue: "true"}})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	objectID := uint32(2)
	kind := ErrorMalformed
	category := CategoryError

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"object", Filter{ObjectID: &objectID}, 2},
		{"category", Filter{Category: &category}, 2},
		{"error kind", Filter{ErrorKind: &kind}, 1},
		{"object and category", Filter{ObjectID: &objectID, Category: &category}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer r.Close()

			events, err := r.ReadAll()
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent"+FileExtension)

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				logger.Log(Event{ObjectID: id})
			}
		}(uint32(i))
	}
	wg.Wait()
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	events, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 200 {
		t.Errorf("expected 200 events, got %d", len(events))
	}
}
