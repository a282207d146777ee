// Package commands implements the pwsync-log CLI commands.
package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/pwsync/pwsync-go/pkg/log"
	"github.com/pwsync/pwsync-go/pkg/spa"
)

// eventLabel names the payload an event carries.
func eventLabel(event log.Event) string {
	switch {
	case event.Info != nil:
		return "Info"
	case event.Param != nil:
		return "Param"
	case event.Command != nil:
		return event.Command.Method.String()
	case event.StateChange != nil:
		return "State"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [obj:%d] %-5s %s %s", ts, event.ObjectID,
		event.Direction.String(), event.Layer.String(), eventLabel(event))
	if event.ObjectName != "" {
		fmt.Fprintf(w, " %q", event.ObjectName)
	}
	fmt.Fprintln(w)

	switch {
	case event.Info != nil:
		formatInfoDetails(w, event.Info)
	case event.Param != nil:
		formatParamDetails(w, event.Param)
	case event.Command != nil:
		formatCommandDetails(w, event.Command)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

func formatInfoDetails(w io.Writer, info *log.InfoEventData) {
	fmt.Fprintf(w, "  ChangeMask: 0x%x\n", info.ChangeMask)
	for _, k := range slices.Sorted(maps.Keys(info.Props)) {
		fmt.Fprintf(w, "  %s = %s\n", k, info.Props[k])
	}
	for _, p := range info.Params {
		fmt.Fprintf(w, "  Param: %s [%s]\n",
			spa.ParamType(p.ID).String(), flagString(spa.ParamInfoFlags(p.Flags)))
	}
}

func flagString(f spa.ParamInfoFlags) string {
	s := ""
	if f.CanRead() {
		s += "r"
	}
	if f.CanWrite() {
		s += "w"
	}
	if s == "" {
		return "-"
	}
	return s
}

func formatParamDetails(w io.Writer, param *log.ParamEventData) {
	fmt.Fprintf(w, "  Param: %s  Index: %d  Size: %d bytes\n",
		spa.ParamType(param.ParamID).String(), param.Index, param.Size)
	if len(param.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(param.Data))
		if param.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatCommandDetails(w io.Writer, cmd *log.CommandEventData) {
	fmt.Fprintf(w, "  Param: %s\n", spa.ParamType(cmd.ParamID).String())
	if cmd.RouteDevice != nil {
		fmt.Fprintf(w, "  RouteDevice: %d\n", *cmd.RouteDevice)
	}
	if cmd.Muted != nil {
		fmt.Fprintf(w, "  Muted: %t\n", *cmd.Muted)
	}
	if cmd.Volumes != nil {
		fmt.Fprintf(w, "  Volumes: %v\n", cmd.Volumes)
	}
	if cmd.Size > 0 {
		fmt.Fprintf(w, "  Size: %d bytes\n", cmd.Size)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Field: %s\n", sc.Field.String())
	if sc.OldValue != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldValue, sc.NewValue)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewValue)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Kind: %s\n", err.Kind.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// RunView prints the events of path that match filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
}
