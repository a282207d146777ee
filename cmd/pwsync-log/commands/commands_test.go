package commands

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pwsync/pwsync-go/pkg/log"
	"github.com/pwsync/pwsync-go/pkg/spa"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+log.FileExtension)

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}
	return path
}

func sampleEvents() []log.Event {
	ts := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	muted := true
	route := int32(1)
	return []log.Event{
		{
			Timestamp: ts, SessionID: "s1", ObjectID: 52, ObjectName: "speakers",
			Direction: log.DirectionIn, Layer: log.LayerNode, Category: log.CategoryEvent,
			Info: &log.InfoEventData{
				ChangeMask: 3,
				Props:      map[string]string{"media.class": "Audio/Sink"},
				Params:     []log.ParamInfo{{ID: uint32(spa.ParamProps), Flags: uint32(spa.ParamInfoReadWrite)}},
			},
		},
		{
			Timestamp: ts.Add(time.Millisecond), SessionID: "s1", ObjectID: 40,
			Direction: log.DirectionOut, Layer: log.LayerDevice, Category: log.CategoryCommand,
			Command: &log.CommandEventData{
				Method: log.CommandSetParam, ParamID: uint32(spa.ParamRoute),
				RouteDevice: &route, Muted: &muted, Size: 96,
			},
		},
		{
			Timestamp: ts.Add(2 * time.Millisecond), SessionID: "s1", ObjectID: 52,
			Direction: log.DirectionLocal, Layer: log.LayerAudio, Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{Field: log.StateFieldMuted, OldValue: "false", NewValue: "true"},
		},
		{
			Timestamp: ts.Add(3 * time.Millisecond), SessionID: "s1", ObjectID: 52,
			Direction: log.DirectionIn, Layer: log.LayerDecoder, Category: log.CategoryError,
			Error: &log.ErrorEventData{Kind: log.ErrorMalformed, Message: "short pod", Context: "props"},
		},
	}
}

func TestFormatEvents(t *testing.T) {
	var buf bytes.Buffer
	for _, e := range sampleEvents() {
		formatEvent(&buf, e)
	}
	output := buf.String()

	for _, want := range []string{
		"2026-03-02T09:30:00.000000Z [obj:52] IN    NODE Info \"speakers\"",
		"media.class = Audio/Sink",
		"Param: Props [rw]",
		"[obj:40] OUT   DEVICE SET_PARAM",
		"RouteDevice: 1",
		"Muted: true",
		"Field: MUTED",
		"false -> true",
		"Kind: MALFORMED",
		"Context: props",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRunViewFilters(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	filter, err := FilterOptions{Object: "52", Category: "state"}.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var buf bytes.Buffer
	if err := RunView(path, filter, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()
	if strings.Count(output, "[obj:") != 1 {
		t.Errorf("expected exactly one event, got:\n%s", output)
	}
	if !strings.Contains(output, "State") {
		t.Errorf("expected the state event, got:\n%s", output)
	}
}

func TestFilterOptionsErrors(t *testing.T) {
	tests := []FilterOptions{
		{Object: "speakers"},
		{Layer: "wire"},
		{Direction: "sideways"},
		{Category: "message"},
		{Kind: "bogus"},
	}
	for _, opts := range tests {
		if _, err := opts.Build(); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}

	f, err := FilterOptions{Kind: "not-ready", Direction: "LOCAL"}.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if *f.ErrorKind != log.ErrorNotReady || *f.Direction != log.DirectionLocal {
		t.Errorf("unexpected filter: %+v", f)
	}
}

func TestRunStats(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	stats, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}
	if stats.TotalEvents != 4 {
		t.Errorf("expected 4 events, got %d", stats.TotalEvents)
	}
	if got := stats.Objects[52]; got == nil || got.Events != 3 || got.Errors != 1 || got.Name != "speakers" {
		t.Errorf("unexpected node stats: %+v", got)
	}
	if got := stats.Objects[40]; got == nil || got.Commands != 1 {
		t.Errorf("unexpected device stats: %+v", got)
	}

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()
	for _, want := range []string{"Total Events: 4", "DEVICE:", "AUDIO:", "MALFORMED:", "[52] 3 events"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRunExport(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	dir := t.TempDir()

	jsonl := filepath.Join(dir, "out.jsonl")
	if err := RunExport(path, "jsonl", jsonl, log.Filter{}); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	f, err := os.Open(jsonl)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			t.Errorf("line %d is not JSON: %v", lines+1, err)
		}
		lines++
	}
	if lines != 4 {
		t.Errorf("expected 4 lines, got %d", lines)
	}

	csvPath := filepath.Join(dir, "out.csv")
	if err := RunExport(path, "csv", csvPath, log.Filter{}); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d", len(records))
	}
	if records[3][7] != "MUTED=true" {
		t.Errorf("unexpected state detail %q", records[3][7])
	}

	if err := RunExport(path, "xml", "", log.Filter{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunFilter(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "errors"+log.FileExtension)

	kind := log.ErrorMalformed
	n, err := RunFilter(path, out, log.Filter{ErrorKind: &kind})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 event, got %d", n)
	}

	reader, err := log.NewReader(out)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	events, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Error == nil || events[0].Error.Message != "short pod" {
		t.Errorf("unexpected filtered events: %+v", events)
	}
}
