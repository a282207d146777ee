package pipewire

import (
	"errors"
	"fmt"
	"math"

	"github.com/pwsync/pwsync-go/pkg/spa"
)

// ErrNotProps is returned when a payload is not a Props object.
var ErrNotProps = errors.New("payload is not a props object")

// LinearToVisual converts a linear volume to the perceptual scale.
func LinearToVisual(linear float32) float32 {
	return float32(math.Cbrt(float64(linear)))
}

// VisualToLinear converts a perceptual volume to the linear scale.
func VisualToLinear(visual float32) float32 {
	return visual * visual * visual
}

func parseProps(payload []byte) (*spa.Object, error) {
	obj, err := spa.ParseObject(payload)
	if err != nil {
		return nil, err
	}
	if obj.Type != spa.ObjectTypeProps {
		return nil, fmt.Errorf("%w: got %s", ErrNotProps, obj.Type)
	}
	return obj, nil
}

// DecodeChannelVolumes extracts the channel map and the channel volumes of a
// Props payload. Volumes are returned on the perceptual scale. Both
// properties must be present; their lengths are not compared.
func DecodeChannelVolumes(payload []byte) ([]spa.AudioChannel, []float32, error) {
	obj, err := parseProps(payload)
	if err != nil {
		return nil, nil, err
	}

	linear, err := obj.FloatArray(spa.PropChannelVolumes)
	if err != nil {
		return nil, nil, fmt.Errorf("channel volumes: %w", err)
	}
	ids, err := obj.IDArray(spa.PropChannelMap)
	if err != nil {
		return nil, nil, fmt.Errorf("channel map: %w", err)
	}

	channels := make([]spa.AudioChannel, len(ids))
	for i, id := range ids {
		channels[i] = spa.AudioChannel(id)
	}
	volumes := make([]float32, len(linear))
	for i, v := range linear {
		volumes[i] = LinearToVisual(v)
	}
	return channels, volumes, nil
}

// DecodeMute extracts the mute flag of a Props payload. found is false when
// the payload carries no mute property.
func DecodeMute(payload []byte) (muted, found bool, err error) {
	obj, err := parseProps(payload)
	if err != nil {
		return false, false, err
	}
	prop, ok := obj.Find(spa.PropMute)
	if !ok {
		return false, false, nil
	}
	muted, err = prop.Value.Bool()
	if err != nil {
		return false, false, fmt.Errorf("mute: %w", err)
	}
	return muted, true, nil
}

// Route is the part of a Route parameter the engine keeps.
type Route struct {
	Index  int32
	Device int32
}

// DecodeRoute extracts index and device of a Route payload.
func DecodeRoute(payload []byte) (Route, error) {
	obj, err := spa.ParseObject(payload)
	if err != nil {
		return Route{}, err
	}
	if obj.Type != spa.ObjectTypeParamRoute {
		return Route{}, fmt.Errorf("%w: route payload is %s", spa.ErrTypeMismatch, obj.Type)
	}

	var r Route
	for _, f := range []struct {
		key uint32
		dst *int32
	}{
		{spa.RouteIndex, &r.Index},
		{spa.RouteDevice, &r.Device},
	} {
		prop, ok := obj.Find(f.key)
		if !ok {
			return Route{}, fmt.Errorf("route key %d: %w", f.key, spa.ErrPropNotFound)
		}
		v, err := prop.Value.Int()
		if err != nil {
			return Route{}, fmt.Errorf("route key %d: %w", f.key, err)
		}
		*f.dst = v
	}
	return r, nil
}

// propsWriter writes properties into an open Props object.
type propsWriter func(b *spa.Builder)

func muteProp(muted bool) propsWriter {
	return func(b *spa.Builder) {
		b.Prop(spa.PropMute, 0)
		b.Bool(muted)
	}
}

// volumesProp writes perceptual volumes as linear channel volumes.
func volumesProp(visual []float32) propsWriter {
	return func(b *spa.Builder) {
		linear := make([]float32, len(visual))
		for i, v := range visual {
			linear[i] = VisualToLinear(v)
		}
		b.Prop(spa.PropChannelVolumes, 0)
		b.FloatArray(linear)
	}
}

func writeProps(b *spa.Builder, write propsWriter) error {
	b.PushObject(spa.ObjectTypeProps, uint32(spa.ParamProps))
	write(b)
	return b.Pop()
}

// encodeProps builds a Props payload for a node.
func encodeProps(write propsWriter) ([]byte, error) {
	b := spa.NewBuilder()
	if err := writeProps(b, write); err != nil {
		return nil, err
	}
	return b.Bytes()
}

// encodeRoute builds a Route payload carrying props for one route, saved by
// the server.
func encodeRoute(route Route, write propsWriter) ([]byte, error) {
	b := spa.NewBuilder()
	b.PushObject(spa.ObjectTypeParamRoute, uint32(spa.ParamRoute))
	b.Prop(spa.RouteIndex, 0)
	b.Int(route.Index)
	b.Prop(spa.RouteDevice, 0)
	b.Int(route.Device)
	b.Prop(spa.RouteProps, 0)
	if err := writeProps(b, write); err != nil {
		return nil, err
	}
	b.Prop(spa.RouteSave, 0)
	b.Bool(true)
	if err := b.Pop(); err != nil {
		return nil, err
	}
	return b.Bytes()
}
