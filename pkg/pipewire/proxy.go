package pipewire

import "github.com/pwsync/pwsync-go/pkg/spa"

// ChangeMask flags the parts of an info event that changed.
type ChangeMask uint64

const (
	// ChangeMaskProps is set when the property dictionary changed.
	ChangeMaskProps ChangeMask = 1 << 0
	// ChangeMaskParams is set when the parameter list changed.
	ChangeMaskParams ChangeMask = 1 << 1
)

// ParamDescriptor is one parameter advertised in an info event.
type ParamDescriptor struct {
	ID    spa.ParamType
	Flags spa.ParamInfoFlags
}

// InfoEvent is pushed by the server when a node or device changes.
type InfoEvent struct {
	ChangeMask ChangeMask
	Props      map[string]string
	Params     []ParamDescriptor
}

// ParamEvent carries one parameter value, usually as a result of EnumParams.
type ParamEvent struct {
	Seq     int32
	ID      spa.ParamType
	Index   uint32
	Next    uint32
	Payload []byte
}

// Listener receives events from a bound proxy.
type Listener interface {
	OnInfo(info *InfoEvent)
	OnParam(param *ParamEvent)
}

// ListenerHandle identifies a registered listener.
type ListenerHandle uint64

// Proxy is the server-side object a Node or Device is bound to.
//
// Implementations must not deliver events synchronously from inside any of
// these methods.
type Proxy interface {
	// AddListener subscribes listener to info and param events.
	AddListener(listener Listener) (ListenerHandle, error)

	// RemoveListener removes a subscription. No events are delivered to
	// the listener after it returns.
	RemoveListener(handle ListenerHandle)

	// EnumParams requests up to num values of parameter id starting at
	// index start. Results arrive as param events.
	EnumParams(id spa.ParamType, start, num uint32) error

	// SetParam writes a parameter. payload is a single object pod.
	SetParam(id spa.ParamType, flags uint32, payload []byte) error
}
