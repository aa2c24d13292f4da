package bond

import "fmt"

// Type is a Bond wire type code. Only the low five bits of a header byte
// carry a type; Unavailable is a reserved sentinel that never decodes.
type Type uint8

// Wire type codes.
const (
	TypeStop        Type = 0
	TypeStopBase    Type = 1
	TypeBool        Type = 2
	TypeUint8       Type = 3
	TypeUint16      Type = 4
	TypeUint32      Type = 5
	TypeUint64      Type = 6
	TypeFloat32     Type = 7
	TypeFloat64     Type = 8
	TypeUtf8String  Type = 9
	TypeStruct      Type = 10
	TypeList        Type = 11
	TypeSet         Type = 12
	TypeMap         Type = 13
	TypeInt8        Type = 14
	TypeInt16       Type = 15
	TypeInt32       Type = 16
	TypeInt64       Type = 17
	TypeUtf16String Type = 18
	TypeUnavailable Type = 127
)

// typeMask selects the type bits of a header byte.
const typeMask = 0x1f

var typeNames = [...]string{
	TypeStop:        "BT_STOP",
	TypeStopBase:    "BT_STOP_BASE",
	TypeBool:        "BT_BOOL",
	TypeUint8:       "BT_UINT8",
	TypeUint16:      "BT_UINT16",
	TypeUint32:      "BT_UINT32",
	TypeUint64:      "BT_UINT64",
	TypeFloat32:     "BT_FLOAT",
	TypeFloat64:     "BT_DOUBLE",
	TypeUtf8String:  "BT_STRING",
	TypeStruct:      "BT_STRUCT",
	TypeList:        "BT_LIST",
	TypeSet:         "BT_SET",
	TypeMap:         "BT_MAP",
	TypeInt8:        "BT_INT8",
	TypeInt16:       "BT_INT16",
	TypeInt32:       "BT_INT32",
	TypeInt64:       "BT_INT64",
	TypeUtf16String: "BT_WSTRING",
}

// String returns the Bond IDL name of t.
func (t Type) String() string {
	if t == TypeUnavailable {
		return "BT_UNAVAILABLE"
	}
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("BT_UNKNOWN(%d)", uint8(t))
}

// Valid reports whether t is a decodable wire type.
func (t Type) Valid() bool {
	return t <= TypeUtf16String
}

// IsContainer reports whether t is a list, set or map.
func (t Type) IsContainer() bool {
	return t == TypeList || t == TypeSet || t == TypeMap
}

// typeFromByte extracts the type tag of a header byte.
func typeFromByte(b byte) Type {
	return Type(b & typeMask)
}
