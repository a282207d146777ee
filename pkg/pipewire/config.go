package pipewire

import (
	"log/slog"

	"github.com/pwsync/pwsync-go/pkg/log"
)

// DeviceLookup resolves a device id to a Device. The Registry implements it.
type DeviceLookup interface {
	Device(id uint32) *Device
}

// NodeConfig configures a Node.
type NodeConfig struct {
	// Devices resolves the device.id property. Nil leaves every node
	// without a device.
	Devices DeviceLookup

	// QueueSize > 0 delivers server events through an Inbox of this size
	// instead of calling the node directly. Subscribers then run on the
	// inbox goroutine and must not call Sync or Unbind synchronously.
	QueueSize int

	// Logger is the optional logger for operational output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// EventLog receives captured events. If nil, capture is disabled.
	EventLog log.Logger
}

// DefaultNodeConfig returns a NodeConfig with direct event delivery and
// logging disabled.
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{}
}

// DeviceConfig configures a Device.
type DeviceConfig struct {
	// Logger is the optional logger for operational output.
	Logger *slog.Logger

	// EventLog receives captured events.
	EventLog log.Logger
}

// RegistryConfig configures a Registry and the objects it creates.
type RegistryConfig struct {
	// QueueSize is passed to every node, see NodeConfig.QueueSize.
	QueueSize int

	// Logger is shared by all objects.
	Logger *slog.Logger

	// EventLog is shared by all objects.
	EventLog log.Logger
}

// DefaultRegistryConfig returns a RegistryConfig with logging disabled.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{}
}
