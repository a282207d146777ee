package commands

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"time"

	"github.com/pwsync/pwsync-go/pkg/log"
)

// Stats holds aggregate statistics about a capture file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	ErrorsByKind      map[log.ErrorKind]int
	Objects           map[uint32]*ObjectStats
	Sessions          map[string]int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ObjectStats holds statistics for one node or device.
type ObjectStats struct {
	Name      string
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Commands  int
	Errors    int
}

// CollectStats reads path and aggregates every event.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		ErrorsByKind:      make(map[log.ErrorKind]int),
		Objects:           make(map[uint32]*ObjectStats),
		Sessions:          make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByCategory[event.Category]++
		stats.EventsByDirection[event.Direction]++
		stats.Sessions[event.SessionID]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		obj, ok := stats.Objects[event.ObjectID]
		if !ok {
			obj = &ObjectStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			stats.Objects[event.ObjectID] = obj
		}
		obj.Events++
		if event.Timestamp.After(obj.LastSeen) {
			obj.LastSeen = event.Timestamp
		}
		if event.ObjectName != "" && obj.Name == "" {
			obj.Name = event.ObjectName
		}
		if event.Command != nil {
			obj.Commands++
		}
		if event.Error != nil {
			obj.Errors++
			stats.ErrorsByKind[event.Error.Kind]++
		}
	}
}

// RunStats analyzes the capture file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== pwsync Capture Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Sessions:     %d\n", len(stats.Sessions))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerDecoder, log.LayerNode, log.LayerDevice, log.LayerAudio} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryEvent, log.CategoryCommand, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut, log.DirectionLocal} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Objects: %d\n", len(stats.Objects))
	ids := make([]uint32, 0, len(stats.Objects))
	for id := range stats.Objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		o := stats.Objects[id]
		fmt.Fprintf(w, "  [%d] %d events, %d commands, %d errors", id, o.Events, o.Commands, o.Errors)
		if o.Name != "" {
			fmt.Fprintf(w, " (%s)", o.Name)
		}
		fmt.Fprintln(w)
	}

	var errCount int
	for _, n := range stats.ErrorsByKind {
		errCount += n
	}
	if errCount > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", errCount)
		kinds := make([]log.ErrorKind, 0, len(stats.ErrorsByKind))
		for k := range stats.ErrorsByKind {
			kinds = append(kinds, k)
		}
		slices.Sort(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-14s %d\n", k.String()+":", stats.ErrorsByKind[k])
		}
	}
}
