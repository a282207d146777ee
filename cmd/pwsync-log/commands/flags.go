package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pwsync/pwsync-go/pkg/log"
)

// FilterOptions holds the raw filter flags shared by view, export and
// filter.
type FilterOptions struct {
	Session   string
	Object    string
	Layer     string
	Direction string
	Category  string
	Kind      string
}

// Build converts the flag values into a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{SessionID: o.Session}

	if o.Object != "" {
		id, err := strconv.ParseUint(o.Object, 10, 32)
		if err != nil {
			return filter, fmt.Errorf("invalid object id: %s", o.Object)
		}
		v := uint32(id)
		filter.ObjectID = &v
	}
	if o.Layer != "" {
		l, err := ParseLayerFlag(o.Layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}
	if o.Direction != "" {
		d, err := ParseDirectionFlag(o.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}
	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	if o.Kind != "" {
		k, err := ParseKindFlag(o.Kind)
		if err != nil {
			return filter, err
		}
		filter.ErrorKind = &k
	}
	return filter, nil
}

// ParseLayerFlag parses a layer name (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "decoder":
		return log.LayerDecoder, nil
	case "node":
		return log.LayerNode, nil
	case "device":
		return log.LayerDevice, nil
	case "audio":
		return log.LayerAudio, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be decoder, node, device, or audio)", s)
	}
}

// ParseDirectionFlag parses a direction name (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	case "local":
		return log.DirectionLocal, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in, out, or local)", s)
	}
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "event":
		return log.CategoryEvent, nil
	case "command":
		return log.CategoryCommand, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be event, command, state, or error)", s)
	}
}

// ParseKindFlag parses an error kind name (case-insensitive).
func ParseKindFlag(s string) (log.ErrorKind, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "malformed":
		return log.ErrorMalformed, nil
	case "inconsistent":
		return log.ErrorInconsistent, nil
	case "not_ready":
		return log.ErrorNotReady, nil
	case "rejected":
		return log.ErrorRejected, nil
	default:
		return 0, fmt.Errorf("invalid error kind: %s (must be malformed, inconsistent, not_ready, or rejected)", s)
	}
}
