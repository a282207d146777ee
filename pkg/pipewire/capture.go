package pipewire

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pwsync/pwsync-go/pkg/log"
)

// capture sends engine events to both the operational logger and the event
// log of one object.
type capture struct {
	logger   *slog.Logger
	events   log.Logger
	objectID uint32
}

func newCapture(objectID uint32, logger *slog.Logger, events log.Logger) capture {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if events == nil {
		events = log.NoopLogger{}
	}
	return capture{logger: logger, events: events, objectID: objectID}
}

func (c capture) emit(layer log.Layer, name string, event log.Event) {
	event.Layer = layer
	event.ObjectID = c.objectID
	event.ObjectName = name
	c.events.Log(event)
}

func (c capture) info(layer log.Layer, name string, info *InfoEvent) {
	data := &log.InfoEventData{ChangeMask: uint64(info.ChangeMask)}
	if info.ChangeMask&ChangeMaskProps != 0 {
		data.Props = info.Props
	}
	if info.ChangeMask&ChangeMaskParams != 0 {
		for _, p := range info.Params {
			data.Params = append(data.Params, log.ParamInfo{ID: uint32(p.ID), Flags: uint32(p.Flags)})
		}
	}
	c.emit(layer, name, log.Event{
		Direction: log.DirectionIn,
		Category:  log.CategoryEvent,
		Info:      data,
	})
}

func (c capture) param(layer log.Layer, name string, param *ParamEvent) {
	c.emit(layer, name, log.Event{
		Direction: log.DirectionIn,
		Category:  log.CategoryEvent,
		Param:     log.NewParamEventData(uint32(param.ID), param.Index, param.Payload),
	})
}

func (c capture) command(layer log.Layer, name string, cmd *log.CommandEventData) {
	c.logger.Debug("sent command",
		"object", c.objectID, "name", name,
		"method", cmd.Method.String(), "param", cmd.ParamID)
	c.emit(layer, name, log.Event{
		Direction: log.DirectionOut,
		Category:  log.CategoryCommand,
		Command:   cmd,
	})
}

func (c capture) state(layer log.Layer, name string, field log.StateField, oldValue, newValue any, reason string) {
	c.logger.Info("updated "+field.String(),
		"object", c.objectID, "name", name,
		"old", oldValue, "new", newValue, "reason", reason)
	c.emit(layer, name, log.Event{
		Direction: log.DirectionLocal,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Field:    field,
			OldValue: fmt.Sprint(oldValue),
			NewValue: fmt.Sprint(newValue),
			Reason:   reason,
		},
	})
}

func (c capture) fail(layer log.Layer, name string, kind log.ErrorKind, err error, op string) {
	event := log.Event{
		Direction: log.DirectionLocal,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Kind:    kind,
			Message: err.Error(),
			Context: op,
		},
	}
	c.logger.Log(context.Background(), log.Level(event), op,
		"object", c.objectID, "name", name,
		"kind", kind.String(), "error", err)
	c.emit(layer, name, event)
}
