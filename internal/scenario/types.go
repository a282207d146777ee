// Package scenario replays scripted server traffic against the sync engine.
//
// A scenario declares the devices and nodes a simulated server exposes and an
// ordered list of steps. Steps push server events, call the control API and
// check the engine's cached state.
package scenario

import (
	"fmt"
	"strconv"
)

// Scenario is one YAML scenario document.
type Scenario struct {
	// Name identifies the scenario in reports.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// QueueSize > 0 delivers events to nodes through an inbox.
	QueueSize int `yaml:"queue_size,omitempty"`

	// Devices exposed by the server.
	Devices []DeviceSpec `yaml:"devices,omitempty"`

	// Nodes exposed by the server.
	Nodes []NodeSpec `yaml:"nodes"`

	// Steps to execute in order.
	Steps []Step `yaml:"steps"`

	// File is the path the scenario was loaded from.
	File string `yaml:"-"`
}

// DeviceSpec declares a device and its routes.
type DeviceSpec struct {
	ID     uint32      `yaml:"id"`
	Routes []RouteSpec `yaml:"routes,omitempty"`
}

// RouteSpec maps a route device to a route index.
type RouteSpec struct {
	Index  int32 `yaml:"index"`
	Device int32 `yaml:"device"`
}

// NodeSpec declares a node. Props are the global's properties used to
// initialize the engine node. Channels, Volumes and Muted are the
// server-side Props state; volumes are linear.
type NodeSpec struct {
	ID       uint32            `yaml:"id"`
	Props    map[string]string `yaml:"props,omitempty"`
	Channels []string          `yaml:"channels,omitempty"`
	Volumes  []float32         `yaml:"volumes,omitempty"`
	Muted    bool              `yaml:"muted,omitempty"`
}

// Step actions.
const (
	ActionBind             = "bind"
	ActionUnbind           = "unbind"
	ActionInfo             = "info"
	ActionParam            = "param"
	ActionRoute            = "route"
	ActionReject           = "reject"
	ActionSetMuted         = "set-muted"
	ActionSetVolumes       = "set-volumes"
	ActionSetAverageVolume = "set-average-volume"
	ActionRemoveDevice     = "remove-device"
	ActionFlush            = "flush"
	ActionExpect           = "expect"
)

// Step is a single scenario action.
type Step struct {
	// Action is one of the Action constants.
	Action string `yaml:"action"`

	// Description explains what this step does.
	Description string `yaml:"description,omitempty"`

	// Node targets a node by id.
	Node uint32 `yaml:"node,omitempty"`

	// Device targets a device by id. Info and reject steps address the
	// device instead of the node when set.
	Device uint32 `yaml:"device,omitempty"`

	// Props is the property dictionary of an info step.
	Props map[string]string `yaml:"props,omitempty"`

	// Params is the parameter list of an info step.
	Params []ParamSpec `yaml:"params,omitempty"`

	// Channels, Volumes and Muted carry param step state (linear volumes)
	// and set-volumes / set-muted arguments (perceptual volumes).
	Channels []string  `yaml:"channels,omitempty"`
	Volumes  []float32 `yaml:"volumes,omitempty"`
	Muted    *bool     `yaml:"muted,omitempty"`

	// Value is the set-average-volume target.
	Value *float32 `yaml:"value,omitempty"`

	// Route is the route of a route step.
	Route *RouteSpec `yaml:"route,omitempty"`

	// Error is the expected error of a control step, see ErrorNames.
	Error string `yaml:"error,omitempty"`

	// Expect holds the checks of an expect step.
	Expect *Expect `yaml:"expect,omitempty"`
}

// ParamSpec is one advertised parameter of an info step.
type ParamSpec struct {
	ID    string `yaml:"id"`
	Flags string `yaml:"flags"`
}

// Expect lists the checks of an expect step. Unset fields are not checked.
type Expect struct {
	Channels   []string          `yaml:"channels,omitempty"`
	Volumes    []float32         `yaml:"volumes,omitempty"`
	Tolerance  float32           `yaml:"tolerance,omitempty"`
	Muted      *bool             `yaml:"muted,omitempty"`
	Bound      *bool             `yaml:"bound,omitempty"`
	Route      *int32            `yaml:"route_device,omitempty"`
	Properties map[string]string `yaml:"properties,omitempty"`

	// Commands maps object ids to the number of SetParam commands the
	// server received for them.
	Commands map[uint32]int `yaml:"commands,omitempty"`

	// Notifications maps change names to the number of notifications the
	// node emitted since the previous expect step on it.
	Notifications map[string]int `yaml:"notifications,omitempty"`

	// DeviceRefs is the reference count of Step.Device.
	DeviceRefs *int `yaml:"device_refs,omitempty"`

	// RouteIndex is the index the node's device maps its route device
	// to, or -1 when the device has no such route.
	RouteIndex *int32 `yaml:"route_index,omitempty"`
}

// DefaultTolerance is used for volume checks without an explicit tolerance.
const DefaultTolerance = 1e-4

// LoadError provides details about a scenario loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Step is the 1-based step index (0 if not step specific).
	Step int

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Step > 0 {
		msg = "step " + strconv.Itoa(e.Step) + ": " + msg
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.File != "" {
		return e.File + ": " + msg
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
