// Package spa implements the subset of the SPA pod wire format needed to
// observe and control audio nodes on a PipeWire-style media server.
//
// # Pod Layout
//
// Every pod starts with an 8 byte header followed by its body, padded to a
// multiple of 8 bytes. All integers are in host byte order.
//
//	+--------+--------+------------------+---------+
//	| size   | type   | body (size bytes)| padding |
//	+--------+--------+------------------+---------+
//
// Objects carry an object type and id followed by a list of properties:
//
//	object body: objectType u32 | objectID u32 | prop...
//	prop:        key u32 | flags u32 | pod
//
// Arrays carry a single child header followed by packed child bodies:
//
//	array body:  childSize u32 | childType u32 | element...
//
// # Parsing
//
// The parser works on byte slices and never reads past the buffer. Truncated
// pods and type mismatches are reported as errors wrapping ErrTruncated and
// ErrTypeMismatch, so callers can drop a malformed update without crashing.
//
// # Building
//
// Builder produces pods the parser accepts, including nested objects:
//
//	b := spa.NewBuilder()
//	b.PushObject(spa.ObjectTypeProps, uint32(spa.ParamProps))
//	b.Prop(spa.PropMute, 0)
//	b.Bool(true)
//	b.Pop()
//	payload, err := b.Bytes()
package spa
