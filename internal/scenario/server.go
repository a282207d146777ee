package scenario

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/pwsync/pwsync-go/pkg/log"
	"github.com/pwsync/pwsync-go/pkg/pipewire"
	"github.com/pwsync/pwsync-go/pkg/spa"
)

// Server errors.
var (
	ErrUnknownObject = errors.New("unknown server object")
	ErrRejected      = errors.New("command rejected by server")
	ErrNoSuchRoute   = errors.New("no such route on device")
)

// Command is one command received by the simulated server.
type Command struct {
	Object  uint32
	Method  log.CommandMethod
	Param   spa.ParamType
	Payload []byte
}

// serverObject is the server-side state of a node or device.
type serverObject struct {
	id       uint32
	device   bool
	listener pipewire.Listener
	handle   pipewire.ListenerHandle
	reject   int

	// nodes
	props    map[string]string
	channels []spa.AudioChannel
	volumes  []float32 // linear
	muted    bool

	// devices
	routes []pipewire.Route
}

type pending struct {
	object uint32
	info   *pipewire.InfoEvent
	param  *pipewire.ParamEvent
}

// Server simulates the media server side of node and device proxies.
//
// Proxies never deliver events synchronously: commands and pushed events
// are queued and delivered by Flush.
type Server struct {
	mu         sync.Mutex
	objects    map[uint32]*serverObject
	queue      []pending
	commands   []Command
	nextHandle pipewire.ListenerHandle
}

// NewServer creates an empty server.
func NewServer() *Server {
	return &Server{objects: make(map[uint32]*serverObject)}
}

// AddNode registers a node with its initial Props state.
func (s *Server) AddNode(id uint32, props map[string]string, channels []spa.AudioChannel, linear []float32, muted bool) pipewire.Proxy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id] = &serverObject{
		id:       id,
		props:    maps.Clone(props),
		channels: slices.Clone(channels),
		volumes:  slices.Clone(linear),
		muted:    muted,
	}
	return &serverProxy{server: s, id: id}
}

// AddDevice registers a device with its routes.
func (s *Server) AddDevice(id uint32, routes []pipewire.Route) pipewire.Proxy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id] = &serverObject{id: id, device: true, routes: slices.Clone(routes)}
	return &serverProxy{server: s, id: id}
}

// Proxy returns a proxy for a registered object.
func (s *Server) Proxy(id uint32) (pipewire.Proxy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	return &serverProxy{server: s, id: id}, nil
}

// Commands returns every command received so far.
func (s *Server) Commands() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.commands)
}

// SetParamCount returns the number of SetParam commands sent to id.
func (s *Server) SetParamCount(id uint32) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, c := range s.commands {
		if c.Object == id && c.Method == log.CommandSetParam {
			n++
		}
	}
	return n
}

// Pending returns the number of queued events.
func (s *Server) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// RejectNext makes the next SetParam on id fail.
func (s *Server) RejectNext(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	obj.reject++
	return nil
}

// PushInfo queues an info event. Props are also stored server-side so
// routed commands find the node.
func (s *Server) PushInfo(id uint32, info *pipewire.InfoEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	if info.ChangeMask&pipewire.ChangeMaskProps != 0 && !obj.device {
		obj.props = maps.Clone(info.Props)
	}
	s.queue = append(s.queue, pending{object: id, info: info})
	return nil
}

// PushProps replaces the Props state of a node and queues a Props event.
func (s *Server) PushProps(id uint32, channels []spa.AudioChannel, linear []float32, muted *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok || obj.device {
		return fmt.Errorf("%w: node %d", ErrUnknownObject, id)
	}
	if channels != nil {
		obj.channels = slices.Clone(channels)
	}
	if linear != nil {
		obj.volumes = slices.Clone(linear)
	}
	if muted != nil {
		obj.muted = *muted
	}
	return s.queuePropsLocked(obj)
}

// PushRoute adds or updates a device route and queues a Route event.
func (s *Server) PushRoute(id uint32, route pipewire.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok || !obj.device {
		return fmt.Errorf("%w: device %d", ErrUnknownObject, id)
	}
	i := slices.IndexFunc(obj.routes, func(r pipewire.Route) bool { return r.Device == route.Device })
	if i >= 0 {
		obj.routes[i] = route
	} else {
		obj.routes = append(obj.routes, route)
		i = len(obj.routes) - 1
	}
	return s.queueRouteLocked(obj, route, uint32(i))
}

// Flush delivers queued events until the queue is empty or limit rounds
// have run. Events may cause new commands, which queue further events. The
// settle function runs after every round, outside the server lock. Flush
// returns the number of delivered events.
func (s *Server) Flush(limit int, settle func()) int {
	var delivered int
	for range limit {
		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()
		if len(batch) == 0 {
			break
		}

		for _, p := range batch {
			s.mu.Lock()
			obj := s.objects[p.object]
			var listener pipewire.Listener
			if obj != nil {
				listener = obj.listener
			}
			s.mu.Unlock()
			if listener == nil {
				continue
			}
			if p.info != nil {
				listener.OnInfo(p.info)
			} else {
				listener.OnParam(p.param)
			}
			delivered++
		}
		if settle != nil {
			settle()
		}
	}
	return delivered
}

func (s *Server) queuePropsLocked(obj *serverObject) error {
	ids := make([]uint32, len(obj.channels))
	for i, c := range obj.channels {
		ids[i] = uint32(c)
	}
	b := spa.NewBuilder()
	b.PushObject(spa.ObjectTypeProps, uint32(spa.ParamProps))
	b.Prop(spa.PropMute, 0)
	b.Bool(obj.muted)
	b.Prop(spa.PropChannelVolumes, 0)
	b.FloatArray(obj.volumes)
	b.Prop(spa.PropChannelMap, 0)
	b.IDArray(ids)
	if err := b.Pop(); err != nil {
		return err
	}
	payload, err := b.Bytes()
	if err != nil {
		return err
	}
	s.queue = append(s.queue, pending{
		object: obj.id,
		param:  &pipewire.ParamEvent{ID: spa.ParamProps, Payload: payload},
	})
	return nil
}

func (s *Server) queueRouteLocked(obj *serverObject, route pipewire.Route, index uint32) error {
	b := spa.NewBuilder()
	b.PushObject(spa.ObjectTypeParamRoute, uint32(spa.ParamRoute))
	b.Prop(spa.RouteIndex, 0)
	b.Int(route.Index)
	b.Prop(spa.RouteDevice, 0)
	b.Int(route.Device)
	if err := b.Pop(); err != nil {
		return err
	}
	payload, err := b.Bytes()
	if err != nil {
		return err
	}
	s.queue = append(s.queue, pending{
		object: obj.id,
		param:  &pipewire.ParamEvent{ID: spa.ParamRoute, Index: index, Payload: payload},
	})
	return nil
}

// applyProps merges a Props object into a node.
func applyProps(obj *serverObject, props *spa.Object) error {
	if p, ok := props.Find(spa.PropMute); ok {
		muted, err := p.Value.Bool()
		if err != nil {
			return err
		}
		obj.muted = muted
	}
	if _, ok := props.Find(spa.PropChannelVolumes); ok {
		volumes, err := props.FloatArray(spa.PropChannelVolumes)
		if err != nil {
			return err
		}
		obj.volumes = volumes
	}
	return nil
}

func (s *Server) setParam(id uint32, param spa.ParamType, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	s.commands = append(s.commands, Command{
		Object:  id,
		Method:  log.CommandSetParam,
		Param:   param,
		Payload: slices.Clone(payload),
	})
	if obj.reject > 0 {
		obj.reject--
		return ErrRejected
	}

	switch {
	case !obj.device && param == spa.ParamProps:
		props, err := spa.ParseObject(payload)
		if err != nil {
			return err
		}
		if err := applyProps(obj, props); err != nil {
			return err
		}
		return s.queuePropsLocked(obj)

	case obj.device && param == spa.ParamRoute:
		return s.setRouteLocked(obj, payload)

	default:
		return fmt.Errorf("%w: %s on object %d", ErrRejected, param, id)
	}
}

// setRouteLocked applies route props to every node on that route and
// queues their Props events.
func (s *Server) setRouteLocked(dev *serverObject, payload []byte) error {
	route, err := pipewire.DecodeRoute(payload)
	if err != nil {
		return err
	}
	if !slices.Contains(dev.routes, route) {
		return fmt.Errorf("%w: %d/%d", ErrNoSuchRoute, route.Index, route.Device)
	}
	obj, err := spa.ParseObject(payload)
	if err != nil {
		return err
	}
	p, ok := obj.Find(spa.RouteProps)
	if !ok {
		return fmt.Errorf("route props: %w", spa.ErrPropNotFound)
	}
	props, err := p.Value.Object()
	if err != nil {
		return err
	}

	for _, id := range slices.Sorted(maps.Keys(s.objects)) {
		node := s.objects[id]
		if node.device || !routedTo(node, dev.id, route.Device) {
			continue
		}
		if err := applyProps(node, props); err != nil {
			return err
		}
		if err := s.queuePropsLocked(node); err != nil {
			return err
		}
	}
	return nil
}

func routedTo(node *serverObject, device uint32, routeDevice int32) bool {
	d, err := strconv.ParseUint(node.props[pipewire.KeyDeviceID], 10, 32)
	if err != nil || uint32(d) != device {
		return false
	}
	r, err := strconv.ParseInt(node.props[pipewire.KeyRouteDevice], 10, 32)
	return err == nil && int32(r) == routeDevice
}

func (s *Server) enumParams(id uint32, param spa.ParamType, start, num uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	s.commands = append(s.commands, Command{Object: id, Method: log.CommandEnumParams, Param: param})
	if num == 0 {
		return nil
	}

	switch {
	case !obj.device && param == spa.ParamProps && start == 0:
		return s.queuePropsLocked(obj)
	case obj.device && param == spa.ParamRoute:
		for i, r := range obj.routes {
			if uint32(i) < start || uint32(i)-start >= num {
				continue
			}
			if err := s.queueRouteLocked(obj, r, uint32(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Server) addListener(id uint32, l pipewire.Listener) (pipewire.ListenerHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	s.nextHandle++
	obj.listener = l
	obj.handle = s.nextHandle
	return obj.handle, nil
}

func (s *Server) removeListener(id uint32, h pipewire.ListenerHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj, ok := s.objects[id]; ok && obj.handle == h {
		obj.listener = nil
		obj.handle = 0
	}
}

// serverProxy is the pipewire.Proxy of one server object.
type serverProxy struct {
	server *Server
	id     uint32
}

func (p *serverProxy) AddListener(l pipewire.Listener) (pipewire.ListenerHandle, error) {
	return p.server.addListener(p.id, l)
}

func (p *serverProxy) RemoveListener(h pipewire.ListenerHandle) {
	p.server.removeListener(p.id, h)
}

func (p *serverProxy) EnumParams(id spa.ParamType, start, num uint32) error {
	return p.server.enumParams(p.id, id, start, num)
}

func (p *serverProxy) SetParam(id spa.ParamType, _ uint32, payload []byte) error {
	return p.server.setParam(p.id, id, payload)
}

var _ pipewire.Proxy = (*serverProxy)(nil)
