package spa

import (
	"errors"
	"math"
)

// Builder errors.
var (
	ErrOpenFrame   = errors.New("builder has unclosed frames")
	ErrNoOpenFrame = errors.New("builder has no open frame")
)

// Builder serializes pods into a growing buffer.
// The zero value is ready to use.
type Builder struct {
	buf    []byte
	frames []int
}

// NewBuilder creates a builder with a small preallocated buffer.
func NewBuilder() *Builder {
	return &Builder{buf: make([]byte, 0, 256)}
}

func (b *Builder) u32(v uint32) {
	b.buf = byteOrder.AppendUint32(b.buf, v)
}

func (b *Builder) pad() {
	for len(b.buf)%8 != 0 {
		b.buf = append(b.buf, 0)
	}
}

func (b *Builder) primitive(t Type, value uint32) {
	b.u32(4)
	b.u32(uint32(t))
	b.u32(value)
	b.pad()
}

// Bool appends a Bool pod.
func (b *Builder) Bool(v bool) {
	var n uint32
	if v {
		n = 1
	}
	b.primitive(TypeBool, n)
}

// Int appends an Int pod.
func (b *Builder) Int(v int32) {
	b.primitive(TypeInt, uint32(v))
}

// ID appends an Id pod.
func (b *Builder) ID(v uint32) {
	b.primitive(TypeID, v)
}

// Float appends a Float pod.
func (b *Builder) Float(v float32) {
	b.primitive(TypeFloat, math.Float32bits(v))
}

func (b *Builder) array(child Type, values []uint32) {
	b.u32(uint32(headerSize + 4*len(values)))
	b.u32(uint32(TypeArray))
	b.u32(4)
	b.u32(uint32(child))
	for _, v := range values {
		b.u32(v)
	}
	b.pad()
}

// FloatArray appends an Array of Float.
func (b *Builder) FloatArray(values []float32) {
	raw := make([]uint32, len(values))
	for i, v := range values {
		raw[i] = math.Float32bits(v)
	}
	b.array(TypeFloat, raw)
}

// IDArray appends an Array of Id.
func (b *Builder) IDArray(values []uint32) {
	b.array(TypeID, values)
}

// PushObject opens an object pod. Properties are added with Prop followed by
// exactly one value pod, and the object is closed with Pop.
func (b *Builder) PushObject(t ObjectType, id uint32) {
	b.frames = append(b.frames, len(b.buf))
	b.u32(0)
	b.u32(uint32(TypeObject))
	b.u32(uint32(t))
	b.u32(id)
}

// Prop appends a property header. The next pod appended is its value.
func (b *Builder) Prop(key, flags uint32) {
	b.u32(key)
	b.u32(flags)
}

// Pop closes the innermost open object and patches its size.
func (b *Builder) Pop() error {
	if len(b.frames) == 0 {
		return ErrNoOpenFrame
	}
	start := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]

	byteOrder.PutUint32(b.buf[start:], uint32(len(b.buf)-start-headerSize))
	b.pad()
	return nil
}

// Bytes returns the serialized pods. All objects must be closed.
func (b *Builder) Bytes() ([]byte, error) {
	if len(b.frames) != 0 {
		return nil, ErrOpenFrame
	}
	return b.buf, nil
}
