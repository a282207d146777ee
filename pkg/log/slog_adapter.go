package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes captured events to an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Level returns the slog level an event is written at. Dropped input and
// inconsistencies are loud, control calls on unbound objects are not.
func Level(event Event) slog.Level {
	switch event.Category {
	case CategoryState:
		return slog.LevelInfo
	case CategoryError:
		if event.Error == nil {
			return slog.LevelError
		}
		switch event.Error.Kind {
		case ErrorNotReady:
			return slog.LevelDebug
		case ErrorMalformed, ErrorRejected:
			return slog.LevelWarn
		default:
			return slog.LevelError
		}
	default:
		return slog.LevelDebug
	}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
		slog.Uint64("object", uint64(event.ObjectID)),
	}
	if event.ObjectName != "" {
		attrs = append(attrs, slog.String("name", event.ObjectName))
	}

	switch {
	case event.Info != nil:
		attrs = append(attrs,
			slog.Uint64("change_mask", event.Info.ChangeMask),
			slog.Int("props", len(event.Info.Props)),
			slog.Int("params", len(event.Info.Params)),
		)
	case event.Param != nil:
		attrs = append(attrs,
			slog.Uint64("param", uint64(event.Param.ParamID)),
			slog.Uint64("index", uint64(event.Param.Index)),
			slog.Int("size", event.Param.Size),
		)
	case event.Command != nil:
		attrs = append(attrs,
			slog.String("method", event.Command.Method.String()),
			slog.Uint64("param", uint64(event.Command.ParamID)),
		)
		if event.Command.RouteDevice != nil {
			attrs = append(attrs, slog.Int("route_device", int(*event.Command.RouteDevice)))
		}
		if event.Command.Muted != nil {
			attrs = append(attrs, slog.Bool("muted", *event.Command.Muted))
		}
		if event.Command.Volumes != nil {
			attrs = append(attrs, slog.Any("volumes", event.Command.Volumes))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("field", event.StateChange.Field.String()),
			slog.String("old", event.StateChange.OldValue),
			slog.String("new", event.StateChange.NewValue),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("kind", event.Error.Kind.String()),
			slog.String("error", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), Level(event), "pwsync", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
