package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeSlogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestSlogAdapterLogsStateChange(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	adapter.Log(Event{
		SessionID:  "s1",
		Direction:  DirectionLocal,
		Layer:      LayerAudio,
		Category:   CategoryState,
		ObjectID:   40,
		ObjectName: "alsa_output.pci",
		StateChange: &StateChangeEvent{
			Field:    StateFieldVolumes,
			OldValue: "[]",
			NewValue: "[0.5 0.5]",
		},
	})

	entry := decodeSlogLine(t, &buf)
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
	if entry["field"] != "VOLUMES" {
		t.Errorf("field = %v, want VOLUMES", entry["field"])
	}
	if entry["name"] != "alsa_output.pci" {
		t.Errorf("name = %v, want alsa_output.pci", entry["name"])
	}
	if entry["object"] != float64(40) {
		t.Errorf("object = %v, want 40", entry["object"])
	}
}

func TestSlogAdapterLogsCommand(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	route := int32(1)
	adapter.Log(Event{
		Direction: DirectionOut,
		Layer:     LayerDevice,
		Category:  CategoryCommand,
		Command: &CommandEventData{
			Method:      CommandSetParam,
			ParamID:     13,
			RouteDevice: &route,
			Volumes:     []float32{0.5},
		},
	})

	entry := decodeSlogLine(t, &buf)
	if entry["level"] != "DEBUG" {
		t.Errorf("level = %v, want DEBUG", entry["level"])
	}
	if entry["method"] != "SET_PARAM" {
		t.Errorf("method = %v, want SET_PARAM", entry["method"])
	}
	if entry["route_device"] != float64(1) {
		t.Errorf("route_device = %v, want 1", entry["route_device"])
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  slog.Level
	}{
		{"event", Event{Category: CategoryEvent}, slog.LevelDebug},
		{"command", Event{Category: CategoryCommand}, slog.LevelDebug},
		{"state", Event{Category: CategoryState}, slog.LevelInfo},
		{"malformed", Event{Category: CategoryError, Error: &ErrorEventData{Kind: ErrorMalformed}}, slog.LevelWarn},
		{"inconsistent", Event{Category: CategoryError, Error: &ErrorEventData{Kind: ErrorInconsistent}}, slog.LevelError},
		{"not ready", Event{Category: CategoryError, Error: &ErrorEventData{Kind: ErrorNotReady}}, slog.LevelDebug},
		{"rejected", Event{Category: CategoryError, Error: &ErrorEventData{Kind: ErrorRejected}}, slog.LevelWarn},
		{"error without payload", Event{Category: CategoryError}, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Level(tt.event); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlogAdapterRespectsHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	adapter.Log(Event{Category: CategoryError, Error: &ErrorEventData{Kind: ErrorNotReady, Message: "not bound"}})
	if buf.Len() != 0 {
		t.Errorf("expected debug-level event to be filtered, got %q", buf.String())
	}
}
