package pipewire

import "errors"

// Engine errors.
var (
	ErrNotBound             = errors.New("object is not bound")
	ErrAlreadyBound         = errors.New("object is already bound")
	ErrUnknownRoute         = errors.New("no route known for route device")
	ErrChannelCountMismatch = errors.New("volume count does not match channel count")
	ErrCommandFailed        = errors.New("command could not be sent")
	ErrDeviceNotFound       = errors.New("device not found")
	ErrDuplicateObject      = errors.New("object id already registered")
)
