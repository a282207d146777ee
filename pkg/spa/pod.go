package spa

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Parse errors.
var (
	ErrTruncated    = errors.New("pod truncated")
	ErrTypeMismatch = errors.New("pod type mismatch")
	ErrPropNotFound = errors.New("property not found")
)

// byteOrder is the host byte order; pods are never exchanged across hosts.
var byteOrder = binary.NativeEndian

const headerSize = 8

// Pod is a single pod with its body, excluding padding.
type Pod struct {
	Type Type
	Body []byte
}

// Parse reads the first pod in data and returns it together with the bytes
// following its padded body. A missing trailing pad on the last pod is
// tolerated.
func Parse(data []byte) (Pod, []byte, error) {
	if len(data) < headerSize {
		return Pod{}, nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncated, headerSize, len(data))
	}
	size := byteOrder.Uint32(data[0:4])
	typ := Type(byteOrder.Uint32(data[4:8]))
	rest := data[headerSize:]

	if uint64(size) > uint64(len(rest)) {
		return Pod{}, nil, fmt.Errorf("%w: %s body of %d bytes, have %d", ErrTruncated, typ, size, len(rest))
	}

	next := padded(size)
	if next > len(rest) {
		next = len(rest)
	}
	return Pod{Type: typ, Body: rest[:size]}, rest[next:], nil
}

// ParseObject parses data as a single object pod.
func ParseObject(data []byte) (*Object, error) {
	pod, _, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return pod.Object()
}

func padded(size uint32) int {
	return int((uint64(size) + 7) &^ 7)
}

// unwrap returns the child of a Choice of kind None, or the pod itself.
func (p Pod) unwrap() Pod {
	if p.Type != TypeChoice || len(p.Body) < 16 {
		return p
	}
	if byteOrder.Uint32(p.Body[0:4]) != ChoiceNone {
		return p
	}
	childSize := byteOrder.Uint32(p.Body[8:12])
	childType := Type(byteOrder.Uint32(p.Body[12:16]))
	values := p.Body[16:]
	if uint64(childSize) > uint64(len(values)) {
		return p
	}
	return Pod{Type: childType, Body: values[:childSize]}
}

func (p Pod) scalar(want Type, size int) ([]byte, error) {
	v := p.unwrap()
	if v.Type != want {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, want, v.Type)
	}
	if len(v.Body) < size {
		return nil, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrTruncated, want, size, len(v.Body))
	}
	return v.Body[:size], nil
}

// Bool returns the value of a Bool pod.
func (p Pod) Bool() (bool, error) {
	b, err := p.scalar(TypeBool, 4)
	if err != nil {
		return false, err
	}
	return byteOrder.Uint32(b) != 0, nil
}

// Int returns the value of an Int pod.
func (p Pod) Int() (int32, error) {
	b, err := p.scalar(TypeInt, 4)
	if err != nil {
		return 0, err
	}
	return int32(byteOrder.Uint32(b)), nil
}

// ID returns the value of an Id pod.
func (p Pod) ID() (uint32, error) {
	b, err := p.scalar(TypeID, 4)
	if err != nil {
		return 0, err
	}
	return byteOrder.Uint32(b), nil
}

// Float returns the value of a Float pod.
func (p Pod) Float() (float32, error) {
	b, err := p.scalar(TypeFloat, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(byteOrder.Uint32(b)), nil
}

// Array is the body of an Array pod.
type Array struct {
	ChildType Type
	ChildSize uint32
	Data      []byte
}

// Array returns the array body of an Array pod.
func (p Pod) Array() (Array, error) {
	if p.Type != TypeArray {
		return Array{}, fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, TypeArray, p.Type)
	}
	if len(p.Body) < headerSize {
		return Array{}, fmt.Errorf("%w: array child header", ErrTruncated)
	}
	return Array{
		ChildSize: byteOrder.Uint32(p.Body[0:4]),
		ChildType: Type(byteOrder.Uint32(p.Body[4:8])),
		Data:      p.Body[headerSize:],
	}, nil
}

// Len returns the number of complete elements in the array.
func (a Array) Len() int {
	if a.ChildSize == 0 {
		return 0
	}
	return len(a.Data) / int(a.ChildSize)
}

func (a Array) elements(want Type) ([]uint32, error) {
	if a.ChildType != want || a.ChildSize != 4 {
		return nil, fmt.Errorf("%w: want array of %s, got %d byte %s", ErrTypeMismatch, want, a.ChildSize, a.ChildType)
	}
	out := make([]uint32, a.Len())
	for i := range out {
		out[i] = byteOrder.Uint32(a.Data[i*4:])
	}
	return out, nil
}

// Floats returns the elements of a Float array.
func (a Array) Floats() ([]float32, error) {
	raw, err := a.elements(TypeFloat)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(raw))
	for i, bits := range raw {
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}

// IDs returns the elements of an Id array.
func (a Array) IDs() ([]uint32, error) {
	return a.elements(TypeID)
}

// Prop is a single property of an object.
type Prop struct {
	Key   uint32
	Flags uint32
	Value Pod
}

// Object is a decoded object pod.
type Object struct {
	Type  ObjectType
	ID    uint32
	Props []Prop
}

// Object decodes the body of an Object pod.
func (p Pod) Object() (*Object, error) {
	if p.Type != TypeObject {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, TypeObject, p.Type)
	}
	if len(p.Body) < headerSize {
		return nil, fmt.Errorf("%w: object header", ErrTruncated)
	}

	obj := &Object{
		Type: ObjectType(byteOrder.Uint32(p.Body[0:4])),
		ID:   byteOrder.Uint32(p.Body[4:8]),
	}

	rest := p.Body[headerSize:]
	for len(rest) > 0 {
		if len(rest) < headerSize {
			return nil, fmt.Errorf("%w: property header in %s object", ErrTruncated, obj.Type)
		}
		key := byteOrder.Uint32(rest[0:4])
		flags := byteOrder.Uint32(rest[4:8])

		value, next, err := Parse(rest[headerSize:])
		if err != nil {
			return nil, fmt.Errorf("property 0x%x: %w", key, err)
		}
		obj.Props = append(obj.Props, Prop{Key: key, Flags: flags, Value: value})
		rest = next
	}

	return obj, nil
}

// Find returns the first property with the given key.
func (o *Object) Find(key uint32) (Prop, bool) {
	for _, prop := range o.Props {
		if prop.Key == key {
			return prop, true
		}
	}
	return Prop{}, false
}

// FloatArray returns the Float array stored under key.
func (o *Object) FloatArray(key uint32) ([]float32, error) {
	arr, err := o.array(key)
	if err != nil {
		return nil, err
	}
	return arr.Floats()
}

// IDArray returns the Id array stored under key.
func (o *Object) IDArray(key uint32) ([]uint32, error) {
	arr, err := o.array(key)
	if err != nil {
		return nil, err
	}
	return arr.IDs()
}

func (o *Object) array(key uint32) (Array, error) {
	prop, ok := o.Find(key)
	if !ok {
		return Array{}, fmt.Errorf("%w: 0x%x in %s object", ErrPropNotFound, key, o.Type)
	}
	return prop.Value.unwrap().Array()
}
