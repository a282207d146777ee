package pipewire

import (
	"fmt"
	"maps"
	"math"
	"sync"

	"github.com/pwsync/pwsync-go/pkg/log"
	"github.com/pwsync/pwsync-go/pkg/spa"
)

// Device is a hardware device whose routes carry the volume and mute state
// of the nodes attached to it.
//
// A Device is subscribed to its proxy only while at least one DeviceRef is
// held. Its route table is learned from Route param events.
type Device struct {
	id    uint32
	proxy Proxy
	cap   capture

	// bindMu serializes ref counting and subscription.
	bindMu   sync.Mutex
	refs     int
	listener ListenerHandle

	mu     sync.Mutex
	bound  bool
	routes map[int32]int32 // route device -> route index
}

// NewDevice creates an unsubscribed device.
func NewDevice(id uint32, proxy Proxy, cfg DeviceConfig) *Device {
	return &Device{
		id:     id,
		proxy:  proxy,
		cap:    newCapture(id, cfg.Logger, cfg.EventLog),
		routes: make(map[int32]int32),
	}
}

// ID returns the server id of the device.
func (d *Device) ID() uint32 {
	return d.id
}

// Refs returns the number of held references.
func (d *Device) Refs() int {
	d.bindMu.Lock()
	defer d.bindMu.Unlock()
	return d.refs
}

// IsBound returns true while the device is subscribed to its proxy.
func (d *Device) IsBound() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bound
}

// Routes returns a copy of the route table.
func (d *Device) Routes() map[int32]int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return maps.Clone(d.routes)
}

// RouteIndex returns the route index for routeDevice.
func (d *Device) RouteIndex(routeDevice int32) (int32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	index, ok := d.routes[routeDevice]
	return index, ok
}

// Acquire takes a reference on the device. The first reference subscribes
// the device to its proxy. When that subscription fails no reference is
// taken and the next Acquire tries again.
func (d *Device) Acquire() (*DeviceRef, error) {
	if err := d.ref(); err != nil {
		return nil, err
	}
	return &DeviceRef{device: d}, nil
}

func (d *Device) ref() error {
	d.bindMu.Lock()
	defer d.bindMu.Unlock()

	if d.refs > 0 {
		d.refs++
		d.cap.state(log.LayerDevice, "", log.StateFieldRefs, d.refs-1, d.refs, "ref")
		return nil
	}

	d.mu.Lock()
	d.bound = true
	d.mu.Unlock()

	handle, err := d.proxy.AddListener(d)
	if err != nil {
		d.mu.Lock()
		d.bound = false
		d.mu.Unlock()
		d.cap.fail(log.LayerDevice, "", log.ErrorRejected, err, "subscribe device")
		return fmt.Errorf("subscribe device %d: %w", d.id, err)
	}
	d.listener = handle
	d.refs = 1
	d.cap.state(log.LayerDevice, "", log.StateFieldRefs, 0, 1, "ref")
	d.cap.state(log.LayerDevice, "", log.StateFieldBinding, "unbound", "bound", "first reference")
	return nil
}

func (d *Device) unref() {
	d.bindMu.Lock()
	defer d.bindMu.Unlock()

	if d.refs == 0 {
		d.cap.fail(log.LayerDevice, "", log.ErrorInconsistent,
			fmt.Errorf("device %d released more often than acquired", d.id), "release device")
		return
	}
	d.refs--
	d.cap.state(log.LayerDevice, "", log.StateFieldRefs, d.refs+1, d.refs, "unref")
	if d.refs != 0 {
		return
	}

	d.mu.Lock()
	wasBound := d.bound
	d.mu.Unlock()
	if !wasBound {
		return
	}

	d.proxy.RemoveListener(d.listener)
	d.listener = 0

	d.mu.Lock()
	d.bound = false
	clear(d.routes)
	d.mu.Unlock()
	d.cap.state(log.LayerDevice, "", log.StateFieldBinding, "bound", "unbound", "last reference released")
}

// OnInfo forgets the route table and requests it again whenever the device
// advertises a readable Route parameter.
func (d *Device) OnInfo(info *InfoEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cap.info(log.LayerDevice, "", info)
	if !d.bound || info.ChangeMask&ChangeMaskParams == 0 {
		return
	}
	for _, p := range info.Params {
		if p.ID != spa.ParamRoute || !p.Flags.CanRead() {
			continue
		}
		clear(d.routes)
		if err := d.proxy.EnumParams(spa.ParamRoute, 0, math.MaxUint32); err != nil {
			d.cap.fail(log.LayerDevice, "", log.ErrorRejected, err, "enumerate routes")
			continue
		}
		d.cap.command(log.LayerDevice, "", &log.CommandEventData{
			Method:  log.CommandEnumParams,
			ParamID: uint32(spa.ParamRoute),
		})
	}
}

// OnParam records Route parameters in the route table.
func (d *Device) OnParam(param *ParamEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cap.param(log.LayerDevice, "", param)
	if !d.bound || param.ID != spa.ParamRoute {
		return
	}

	route, err := DecodeRoute(param.Payload)
	if err != nil {
		d.cap.fail(log.LayerDecoder, "", log.ErrorMalformed, err, "decode route")
		return
	}
	if old, ok := d.routes[route.Device]; ok && old == route.Index {
		return
	}
	old, had := d.routes[route.Device]
	d.routes[route.Device] = route.Index
	oldValue := "none"
	if had {
		oldValue = fmt.Sprintf("%d->%d", route.Device, old)
	}
	d.cap.state(log.LayerDevice, "", log.StateFieldRoute,
		oldValue, fmt.Sprintf("%d->%d", route.Device, route.Index), "route param")
}

// SetMuted sets the mute state of the route serving routeDevice.
func (d *Device) SetMuted(routeDevice int32, muted bool) error {
	return d.setRouteProps(routeDevice, muteProp(muted), &log.CommandEventData{
		Muted: &muted,
	})
}

// SetVolumes sets the perceptual channel volumes of the route serving
// routeDevice. Volumes are sent on the linear scale.
func (d *Device) SetVolumes(routeDevice int32, volumes []float32) error {
	return d.setRouteProps(routeDevice, volumesProp(volumes), &log.CommandEventData{
		Volumes: append([]float32(nil), volumes...),
	})
}

func (d *Device) setRouteProps(routeDevice int32, write propsWriter, cmd *log.CommandEventData) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.bound {
		d.cap.fail(log.LayerDevice, "", log.ErrorNotReady, ErrNotBound, "set route props")
		return ErrNotBound
	}
	index, ok := d.routes[routeDevice]
	if !ok {
		err := fmt.Errorf("%w: %d", ErrUnknownRoute, routeDevice)
		d.cap.fail(log.LayerDevice, "", log.ErrorInconsistent, err, "set route props")
		return err
	}

	payload, err := encodeRoute(Route{Index: index, Device: routeDevice}, write)
	if err != nil {
		return fmt.Errorf("encode route: %w", err)
	}
	if err := d.proxy.SetParam(spa.ParamRoute, 0, payload); err != nil {
		d.cap.fail(log.LayerDevice, "", log.ErrorRejected, err, "set route props")
		return fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	cmd.Method = log.CommandSetParam
	cmd.ParamID = uint32(spa.ParamRoute)
	cmd.RouteDevice = &routeDevice
	cmd.Size = len(payload)
	d.cap.command(log.LayerDevice, "", cmd)
	return nil
}

var _ Listener = (*Device)(nil)
