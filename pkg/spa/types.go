package spa

import "fmt"

// Type is the basic pod type stored in every pod header.
type Type uint32

// Basic pod types.
const (
	TypeNone      Type = 1
	TypeBool      Type = 2
	TypeID        Type = 3
	TypeInt       Type = 4
	TypeLong      Type = 5
	TypeFloat     Type = 6
	TypeDouble    Type = 7
	TypeString    Type = 8
	TypeBytes     Type = 9
	TypeRectangle Type = 10
	TypeFraction  Type = 11
	TypeBitmap    Type = 12
	TypeArray     Type = 13
	TypeStruct    Type = 14
	TypeObject    Type = 15
	TypeSequence  Type = 16
	TypePointer   Type = 17
	TypeFd        Type = 18
	TypeChoice    Type = 19
	TypePod       Type = 20
)

// String returns the type name.
func (t Type) String() string {
	names := []string{
		"", "None", "Bool", "Id", "Int", "Long", "Float", "Double", "String",
		"Bytes", "Rectangle", "Fraction", "Bitmap", "Array", "Struct",
		"Object", "Sequence", "Pointer", "Fd", "Choice", "Pod",
	}
	if t > 0 && int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("Type(%d)", uint32(t))
}

// ObjectType identifies the schema of an object pod.
type ObjectType uint32

// Object types.
const (
	ObjectTypePropInfo   ObjectType = 0x40001
	ObjectTypeProps      ObjectType = 0x40002
	ObjectTypeFormat     ObjectType = 0x40003
	ObjectTypeParamRoute ObjectType = 0x40009
)

// String returns the object type name.
func (t ObjectType) String() string {
	switch t {
	case ObjectTypePropInfo:
		return "PropInfo"
	case ObjectTypeProps:
		return "Props"
	case ObjectTypeFormat:
		return "Format"
	case ObjectTypeParamRoute:
		return "Route"
	default:
		return fmt.Sprintf("ObjectType(0x%x)", uint32(t))
	}
}

// ParamType identifies a parameter on a node or device. It is also used as
// the object id of the parameter's object pod.
type ParamType uint32

// Parameter ids.
const (
	ParamInvalid     ParamType = 0
	ParamPropInfo    ParamType = 1
	ParamProps       ParamType = 2
	ParamEnumFormat  ParamType = 3
	ParamFormat      ParamType = 4
	ParamEnumProfile ParamType = 8
	ParamProfile     ParamType = 9
	ParamEnumRoute   ParamType = 12
	ParamRoute       ParamType = 13
)

// String returns the parameter name.
func (p ParamType) String() string {
	switch p {
	case ParamInvalid:
		return "Invalid"
	case ParamPropInfo:
		return "PropInfo"
	case ParamProps:
		return "Props"
	case ParamEnumFormat:
		return "EnumFormat"
	case ParamFormat:
		return "Format"
	case ParamEnumProfile:
		return "EnumProfile"
	case ParamProfile:
		return "Profile"
	case ParamEnumRoute:
		return "EnumRoute"
	case ParamRoute:
		return "Route"
	default:
		return fmt.Sprintf("Param(%d)", uint32(p))
	}
}

// ParamInfoFlags describe how a parameter advertised in an info event may be
// accessed.
type ParamInfoFlags uint32

// Parameter info flags.
const (
	ParamInfoSerial ParamInfoFlags = 1 << 0
	ParamInfoRead   ParamInfoFlags = 1 << 1
	ParamInfoWrite  ParamInfoFlags = 1 << 2

	ParamInfoReadWrite = ParamInfoRead | ParamInfoWrite
)

// CanRead returns true if the parameter can be enumerated.
func (f ParamInfoFlags) CanRead() bool { return f&ParamInfoRead != 0 }

// CanWrite returns true if the parameter can be set.
func (f ParamInfoFlags) CanWrite() bool { return f&ParamInfoWrite != 0 }

// Property keys of a Props object.
const (
	PropVolume         uint32 = 0x10003
	PropMute           uint32 = 0x10004
	PropChannelVolumes uint32 = 0x10008
	PropVolumeBase     uint32 = 0x10009
	PropVolumeStep     uint32 = 0x1000a
	PropChannelMap     uint32 = 0x1000b
	PropSoftMute       uint32 = 0x1000f
	PropSoftVolumes    uint32 = 0x10010
)

// Property keys of a Route object.
const (
	RouteIndex       uint32 = 1
	RouteDirection   uint32 = 2
	RouteDevice      uint32 = 3
	RouteName        uint32 = 4
	RouteDescription uint32 = 5
	RoutePriority    uint32 = 6
	RouteAvailable   uint32 = 7
	RouteProps       uint32 = 10
	RouteSave        uint32 = 13
)

// Choice kinds. Only ChoiceNone is unwrapped when reading scalars.
const (
	ChoiceNone  uint32 = 0
	ChoiceRange uint32 = 1
	ChoiceStep  uint32 = 2
	ChoiceEnum  uint32 = 3
	ChoiceFlags uint32 = 4
)
