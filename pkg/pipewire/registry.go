package pipewire

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// DeviceRef is a held reference on a Device. Release is idempotent.
type DeviceRef struct {
	device *Device
	once   sync.Once
}

// Device returns the referenced device.
func (r *DeviceRef) Device() *Device {
	return r.device
}

// Release drops the reference. The last release unsubscribes the device.
func (r *DeviceRef) Release() {
	r.once.Do(r.device.unref)
}

// Registry owns the devices and nodes known to the engine, keyed by server
// id. Removing a device from the registry does not invalidate references
// already handed out.
type Registry struct {
	cfg RegistryConfig

	mu      sync.RWMutex
	devices map[uint32]*Device
	nodes   map[uint32]*Node
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	return &Registry{
		cfg:     cfg,
		devices: make(map[uint32]*Device),
		nodes:   make(map[uint32]*Node),
	}
}

// AddDevice registers a device for a server global.
func (r *Registry) AddDevice(id uint32, proxy Proxy) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[id]; ok {
		return nil, fmt.Errorf("device %d: %w", id, ErrDuplicateObject)
	}
	d := NewDevice(id, proxy, DeviceConfig{Logger: r.cfg.Logger, EventLog: r.cfg.EventLog})
	r.devices[id] = d
	return d, nil
}

// Device returns the device with the given id, or nil.
func (r *Registry) Device(id uint32) *Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.devices[id]
}

// Devices returns all devices ordered by id.
func (r *Registry) Devices() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Device, 0, len(r.devices))
	for _, id := range slices.Sorted(maps.Keys(r.devices)) {
		out = append(out, r.devices[id])
	}
	return out
}

// RemoveDevice forgets a device. Nodes already holding it keep working
// until they are unbound.
func (r *Registry) RemoveDevice(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, id)
}

// AddNode registers a node for a server global and initializes it from
// props.
func (r *Registry) AddNode(id uint32, props map[string]string) (*Node, error) {
	r.mu.Lock()
	if _, ok := r.nodes[id]; ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("node %d: %w", id, ErrDuplicateObject)
	}
	n := NewNode(id, NodeConfig{
		Devices:   r,
		QueueSize: r.cfg.QueueSize,
		Logger:    r.cfg.Logger,
		EventLog:  r.cfg.EventLog,
	})
	r.nodes[id] = n
	r.mu.Unlock()

	// Device lookup takes the read lock.
	n.InitProps(props)
	return n, nil
}

// Node returns the node with the given id, or nil.
func (r *Registry) Node(id uint32) *Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nodes[id]
}

// Nodes returns all nodes ordered by id.
func (r *Registry) Nodes() []*Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Node, 0, len(r.nodes))
	for _, id := range slices.Sorted(maps.Keys(r.nodes)) {
		out = append(out, r.nodes[id])
	}
	return out
}

// RemoveNode unbinds and forgets a node.
func (r *Registry) RemoveNode(id uint32) {
	r.mu.Lock()
	n := r.nodes[id]
	delete(r.nodes, id)
	r.mu.Unlock()

	if n != nil {
		n.Unbind()
	}
}

var _ DeviceLookup = (*Registry)(nil)
