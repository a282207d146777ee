// Package pipewire keeps a cached, consistent view of the volume, mute state
// and channel layout of audio nodes on a PipeWire-style media server, and
// pushes control changes back to it.
//
// # Object Model
//
//	Registry
//	├── Device (id 40)          route table: routeDevice -> route index
//	│     ▲ DeviceRef (held while a node is bound)
//	└── Node (id 52, Audio/Sink, device.id=40, card.profile.device=1)
//	      └── AudioBinding      channels, volumes (perceptual), muted
//
// A Node is created from the properties of a server global and classified
// from its media.class. Audio nodes own an AudioBinding. Nodes that belong to
// a Device keep a weak pointer to it and hold a DeviceRef while bound, so the
// device stays subscribed to its own events for as long as any node routes
// through it.
//
// # Event Flow
//
// The server pushes info and param events through the Listener registered
// by Bind. Info events replace the property cache and, when a node's
// parameter list changes, trigger an explicit EnumParams for Props. Param
// events carrying Props are decoded into channels, volumes and mute state.
//
// Control calls go the other way. With a device attached they are sent as a
// Route parameter on the device; otherwise a Props parameter is set on the
// node directly. The cache is updated optimistically once the command has
// been handed to the proxy, and a later Props event reconciles it.
//
// # Volumes
//
// Cached volumes are perceptual: the cube root of the linear value carried
// on the wire. VisualToLinear is applied when sending.
//
// # Concurrency
//
// Every Node serializes its state behind one mutex. Change notifications are
// delivered after the mutex is released, in mutation order. Proxy
// implementations must not deliver events synchronously from inside
// AddListener, EnumParams or SetParam. NodeConfig.QueueSize > 0 routes events
// through an Inbox so they are delivered on a dedicated goroutine.
package pipewire
