package pipewire

import (
	"fmt"
	"maps"
	"strconv"
	"sync"

	"github.com/pwsync/pwsync-go/pkg/log"
)

// Node is a cached view of one server node.
//
// Properties are replaced wholesale by every info event that carries them
// and cleared on Unbind. Audio nodes own an AudioBinding.
type Node struct {
	id   uint32
	cfg  NodeConfig
	cap  capture
	subs subscribers

	// bindMu serializes Bind and Unbind.
	bindMu sync.Mutex

	mu          sync.Mutex
	nodeType    NodeType
	name        string
	description string
	nick        string
	properties  map[string]string
	initialized bool

	device      *Device
	deviceRef   *DeviceRef
	routeDevice int32

	audio *AudioBinding

	proxy    Proxy
	listener ListenerHandle
	inbox    *Inbox
}

// NewNode creates an unbound, uninitialized node.
func NewNode(id uint32, cfg NodeConfig) *Node {
	return &Node{
		id:          id,
		cfg:         cfg,
		cap:         newCapture(id, cfg.Logger, cfg.EventLog),
		properties:  make(map[string]string),
		routeDevice: -1,
	}
}

// ID returns the server id of the node.
func (n *Node) ID() uint32 { return n.id }

// Type returns the node classification.
func (n *Node) Type() NodeType {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.nodeType
}

// IsSink reports whether the node consumes audio.
func (n *Node) IsSink() bool { return n.Type().IsSink() }

// IsStream reports whether the node is an application stream.
func (n *Node) IsStream() bool { return n.Type().IsStream() }

// Name returns node.name.
func (n *Node) Name() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.name
}

// Description returns node.description.
func (n *Node) Description() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.description
}

// Nick returns node.nick.
func (n *Node) Nick() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.nick
}

// Properties returns a copy of the cached property dictionary.
func (n *Node) Properties() map[string]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return maps.Clone(n.properties)
}

// Device returns the device the node routes through, or nil.
func (n *Node) Device() *Device {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.device
}

// RouteDevice returns the device-side route, or -1 when unknown.
func (n *Node) RouteDevice() int32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.routeDevice
}

// Audio returns the audio binding, or nil for non-audio nodes.
func (n *Node) Audio() *AudioBinding {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.audio
}

// IsBound reports whether the node is subscribed to a proxy.
func (n *Node) IsBound() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.proxy != nil
}

// Subscribe registers sub for change notifications and returns a function
// that removes it.
func (n *Node) Subscribe(sub Subscriber) func() {
	return n.subs.add(sub)
}

func (n *Node) notify(changes []Change) {
	if len(changes) == 0 {
		return
	}
	subs := n.subs.snapshot()
	for _, c := range changes {
		for _, s := range subs {
			s.OnNodeChanged(n, c)
		}
	}
}

// InitProps classifies the node and resolves its device from the global's
// properties. It runs at most once per bind cycle.
func (n *Node) InitProps(props map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.initialized {
		return
	}
	n.initialized = true

	if class, ok := props[KeyMediaClass]; ok {
		if t := ClassifyMediaClass(class); t != NodeUnknown {
			n.nodeType = t
		}
	}
	if v, ok := props[KeyNodeName]; ok {
		n.name = v
	}
	if v, ok := props[KeyNodeDescription]; ok {
		n.description = v
	}
	if v, ok := props[KeyNodeNick]; ok {
		n.nick = v
	}

	if raw, ok := props[KeyDeviceID]; ok {
		n.resolveDeviceLocked(raw)
	}

	if n.nodeType.IsAudio() && n.audio == nil {
		n.audio = newAudioBinding(n)
	}
}

func (n *Node) resolveDeviceLocked(raw string) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		n.cap.fail(log.LayerNode, n.name, log.ErrorMalformed, err, "parse "+KeyDeviceID)
		return
	}
	var d *Device
	if n.cfg.Devices != nil {
		d = n.cfg.Devices.Device(uint32(id))
	}
	if d == nil {
		n.cap.fail(log.LayerNode, n.name, log.ErrorInconsistent,
			fmt.Errorf("%w: %d", ErrDeviceNotFound, id), "resolve device")
		return
	}
	if n.device == d {
		return
	}
	if n.deviceRef != nil {
		n.deviceRef.Release()
		n.deviceRef = nil
	}
	n.device = d
	if n.proxy == nil {
		return
	}
	ref, err := d.Acquire()
	if err != nil {
		n.cap.fail(log.LayerNode, n.name, log.ErrorRejected, err, "acquire device")
		return
	}
	n.deviceRef = ref
}

// Bind subscribes the node to proxy. The device reference, if any, is taken
// before the subscription so routed commands work from the first event.
func (n *Node) Bind(proxy Proxy) error {
	n.bindMu.Lock()
	defer n.bindMu.Unlock()

	n.mu.Lock()
	if n.proxy != nil {
		n.mu.Unlock()
		return ErrAlreadyBound
	}
	device := n.device
	n.mu.Unlock()

	var ref *DeviceRef
	if device != nil {
		var err error
		if ref, err = device.Acquire(); err != nil {
			n.cap.fail(log.LayerNode, n.Name(), log.ErrorRejected, err, "bind node")
			return fmt.Errorf("bind node %d: %w", n.id, err)
		}
	}

	var listener Listener = n
	var inbox *Inbox
	if n.cfg.QueueSize > 0 {
		inbox = NewInbox(n, n.cfg.QueueSize)
		inbox.Start()
		listener = inbox
	}

	n.mu.Lock()
	n.proxy = proxy
	n.deviceRef = ref
	n.inbox = inbox
	n.mu.Unlock()

	handle, err := proxy.AddListener(listener)
	if err != nil {
		n.mu.Lock()
		n.proxy = nil
		n.deviceRef = nil
		n.inbox = nil
		n.mu.Unlock()
		if inbox != nil {
			inbox.Stop()
		}
		if ref != nil {
			ref.Release()
		}
		n.cap.fail(log.LayerNode, n.Name(), log.ErrorRejected, err, "bind node")
		return fmt.Errorf("bind node %d: %w", n.id, err)
	}

	n.mu.Lock()
	n.listener = handle
	n.cap.state(log.LayerNode, n.name, log.StateFieldBinding, "unbound", "bound", "")
	n.mu.Unlock()
	return nil
}

// Unbind removes the subscription and clears the cached state. Subscribers
// see the cleared properties, then the cleared audio state. The device
// reference is released last.
func (n *Node) Unbind() {
	n.bindMu.Lock()
	defer n.bindMu.Unlock()

	n.mu.Lock()
	proxy, handle, inbox := n.proxy, n.listener, n.inbox
	n.mu.Unlock()
	if proxy == nil {
		return
	}

	proxy.RemoveListener(handle)
	if inbox != nil {
		inbox.Stop()
	}

	n.mu.Lock()
	n.proxy = nil
	n.listener = 0
	n.inbox = nil
	if n.routeDevice != -1 {
		n.cap.state(log.LayerNode, n.name, log.StateFieldRoute, n.routeDevice, -1, "unbind")
		n.routeDevice = -1
	}
	n.properties = make(map[string]string)
	changes := []Change{ChangeProperties}
	if n.audio != nil {
		changes = append(changes, n.audio.onUnbind()...)
	}
	ref := n.deviceRef
	n.deviceRef = nil
	n.initialized = false
	n.cap.state(log.LayerNode, n.name, log.StateFieldBinding, "bound", "unbound", "")
	n.mu.Unlock()

	n.notify(changes)
	if ref != nil {
		ref.Release()
	}
}

// Sync waits until queued events have been delivered. It returns at once
// when events are delivered directly.
func (n *Node) Sync() {
	n.mu.Lock()
	inbox := n.inbox
	n.mu.Unlock()
	if inbox != nil {
		inbox.Sync()
	}
}

// OnInfo applies an info event.
func (n *Node) OnInfo(info *InfoEvent) {
	n.mu.Lock()
	n.cap.info(log.LayerNode, n.name, info)
	if n.proxy == nil {
		n.cap.fail(log.LayerNode, n.name, log.ErrorNotReady, ErrNotBound, "info event")
		n.mu.Unlock()
		return
	}

	var changes []Change
	if info.ChangeMask&ChangeMaskProps != 0 {
		if n.device != nil {
			n.updateRouteDeviceLocked(info.Props)
		}
		n.properties = maps.Clone(info.Props)
		if n.properties == nil {
			n.properties = make(map[string]string)
		}
		changes = append(changes, ChangeProperties)
	}
	if n.audio != nil {
		n.audio.onInfo(info)
	}
	n.mu.Unlock()

	n.notify(changes)
}

func (n *Node) updateRouteDeviceLocked(props map[string]string) {
	raw, ok := props[KeyRouteDevice]
	if !ok {
		n.cap.fail(log.LayerNode, n.name, log.ErrorInconsistent,
			fmt.Errorf("node has a device but no %s property", KeyRouteDevice), "update route")
		return
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		n.cap.fail(log.LayerNode, n.name, log.ErrorMalformed, err, "parse "+KeyRouteDevice)
		return
	}
	if route := int32(v); route != n.routeDevice {
		n.cap.state(log.LayerNode, n.name, log.StateFieldRoute, n.routeDevice, route, "props")
		n.routeDevice = route
	}
}

// OnParam applies a param event.
func (n *Node) OnParam(param *ParamEvent) {
	n.mu.Lock()
	n.cap.param(log.LayerNode, n.name, param)
	if n.proxy == nil {
		n.cap.fail(log.LayerNode, n.name, log.ErrorNotReady, ErrNotBound, "param event")
		n.mu.Unlock()
		return
	}

	var changes []Change
	if n.audio != nil {
		changes = n.audio.onParam(param)
	}
	n.mu.Unlock()

	n.notify(changes)
}

var _ Listener = (*Node)(nil)
