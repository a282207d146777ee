package log

import "time"

// Event is a single captured engine event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one engine run (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates data flow relative to the server.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// ObjectID is the server id of the node or device.
	ObjectID uint32 `cbor:"6,keyasint"`

	// ObjectName is the node name, when known.
	ObjectName string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Info        *InfoEventData    `cbor:"10,keyasint,omitempty"`
	Param       *ParamEventData   `cbor:"11,keyasint,omitempty"`
	Command     *CommandEventData `cbor:"12,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Direction indicates data flow relative to the server.
type Direction uint8

const (
	// DirectionIn is an event pushed by the server.
	DirectionIn Direction = 0
	// DirectionOut is a command sent to the server.
	DirectionOut Direction = 1
	// DirectionLocal is a change inside the engine.
	DirectionLocal Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	case DirectionLocal:
		return "LOCAL"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which engine component captured the event.
type Layer uint8

const (
	// LayerDecoder is parameter payload decoding.
	LayerDecoder Layer = 0
	// LayerNode is node lifecycle and properties.
	LayerNode Layer = 1
	// LayerDevice is device routes and ref counting.
	LayerDevice Layer = 2
	// LayerAudio is the audio binding of a node.
	LayerAudio Layer = 3
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerDecoder:
		return "DECODER"
	case LayerNode:
		return "NODE"
	case LayerDevice:
		return "DEVICE"
	case LayerAudio:
		return "AUDIO"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryEvent is an info or param event from the server.
	CategoryEvent Category = 0
	// CategoryCommand is a command to the server.
	CategoryCommand Category = 1
	// CategoryState is a cached state change.
	CategoryState Category = 2
	// CategoryError is a dropped update or rejected command.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryEvent:
		return "EVENT"
	case CategoryCommand:
		return "COMMAND"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// InfoEventData captures an info event.
type InfoEventData struct {
	// ChangeMask is the set of fields that changed.
	ChangeMask uint64 `cbor:"1,keyasint"`

	// Props is the property dictionary, when it changed.
	Props map[string]string `cbor:"2,keyasint,omitempty"`

	// Params lists advertised parameters, when they changed.
	Params []ParamInfo `cbor:"3,keyasint,omitempty"`
}

// ParamInfo is one advertised parameter.
type ParamInfo struct {
	ID    uint32 `cbor:"1,keyasint"`
	Flags uint32 `cbor:"2,keyasint"`
}

// MaxPayloadCapture is the number of payload bytes kept in a ParamEventData.
const MaxPayloadCapture = 512

// ParamEventData captures a parameter event.
type ParamEventData struct {
	// ParamID is the parameter id.
	ParamID uint32 `cbor:"1,keyasint"`

	// Index is the result index within an enumeration.
	Index uint32 `cbor:"2,keyasint"`

	// Size is the payload size in bytes.
	Size int `cbor:"3,keyasint"`

	// Data is the raw payload (may be truncated).
	Data []byte `cbor:"4,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"5,keyasint,omitempty"`
}

// NewParamEventData captures a payload, truncating it to MaxPayloadCapture.
func NewParamEventData(paramID, index uint32, payload []byte) *ParamEventData {
	p := &ParamEventData{ParamID: paramID, Index: index, Size: len(payload)}
	if len(payload) > MaxPayloadCapture {
		p.Data = append([]byte(nil), payload[:MaxPayloadCapture]...)
		p.Truncated = true
	} else {
		p.Data = append([]byte(nil), payload...)
	}
	return p
}

// CommandMethod is the proxy method used for a command.
type CommandMethod uint8

const (
	// CommandEnumParams requests parameter values.
	CommandEnumParams CommandMethod = 0
	// CommandSetParam writes a parameter.
	CommandSetParam CommandMethod = 1
)

// String returns the method name.
func (m CommandMethod) String() string {
	switch m {
	case CommandEnumParams:
		return "ENUM_PARAMS"
	case CommandSetParam:
		return "SET_PARAM"
	default:
		return "UNKNOWN"
	}
}

// CommandEventData captures a command sent to the server.
type CommandEventData struct {
	// Method is the proxy method.
	Method CommandMethod `cbor:"1,keyasint"`

	// ParamID is the target parameter.
	ParamID uint32 `cbor:"2,keyasint"`

	// RouteDevice is set for commands routed through a device.
	RouteDevice *int32 `cbor:"3,keyasint,omitempty"`

	// Muted is set for mute commands.
	Muted *bool `cbor:"4,keyasint,omitempty"`

	// Volumes is set for volume commands (perceptual values).
	Volumes []float32 `cbor:"5,keyasint,omitempty"`

	// Size is the encoded payload size in bytes.
	Size int `cbor:"6,keyasint,omitempty"`
}

// StateField names a cached value.
type StateField uint8

const (
	StateFieldBinding    StateField = 0
	StateFieldProperties StateField = 1
	StateFieldChannels   StateField = 2
	StateFieldVolumes    StateField = 3
	StateFieldMuted      StateField = 4
	StateFieldRoute      StateField = 5
	StateFieldRefs       StateField = 6
)

// String returns the field name.
func (f StateField) String() string {
	switch f {
	case StateFieldBinding:
		return "BINDING"
	case StateFieldProperties:
		return "PROPERTIES"
	case StateFieldChannels:
		return "CHANNELS"
	case StateFieldVolumes:
		return "VOLUMES"
	case StateFieldMuted:
		return "MUTED"
	case StateFieldRoute:
		return "ROUTE"
	case StateFieldRefs:
		return "REFS"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a cached value change.
type StateChangeEvent struct {
	// Field that changed.
	Field StateField `cbor:"1,keyasint"`

	// OldValue is the previous value (may be empty).
	OldValue string `cbor:"2,keyasint,omitempty"`

	// NewValue is the new value.
	NewValue string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// ErrorKind classifies why an update or command was dropped.
type ErrorKind uint8

const (
	// ErrorMalformed is unparseable or type-mismatched external input.
	ErrorMalformed ErrorKind = 0
	// ErrorInconsistent is a structural inconsistency between objects.
	ErrorInconsistent ErrorKind = 1
	// ErrorNotReady is a control call on an unbound object.
	ErrorNotReady ErrorKind = 2
	// ErrorRejected is a command the server or route refused.
	ErrorRejected ErrorKind = 3
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrorMalformed:
		return "MALFORMED"
	case ErrorInconsistent:
		return "INCONSISTENT"
	case ErrorNotReady:
		return "NOT_READY"
	case ErrorRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures a dropped update or command.
type ErrorEventData struct {
	// Kind classifies the error.
	Kind ErrorKind `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
