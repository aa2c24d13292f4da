package bond

import (
	"fmt"
	"math"
)

// Kind identifies the variant of a decoded Value.
type Kind uint8

const (
	KindGuid Kind = iota
	KindBool
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindUtf8String
	KindUtf16String
	KindList
	KindSet
	KindMap
	KindStruct
	KindStop
	KindStopBase
)

var kindNames = [...]string{
	KindGuid:        "Guid",
	KindBool:        "Bool",
	KindUint8:       "Uint8",
	KindUint16:      "Uint16",
	KindUint32:      "Uint32",
	KindUint64:      "Uint64",
	KindInt8:        "Int8",
	KindInt16:       "Int16",
	KindInt32:       "Int32",
	KindInt64:       "Int64",
	KindFloat32:     "Float32",
	KindFloat64:     "Float64",
	KindUtf8String:  "Utf8String",
	KindUtf16String: "Utf16String",
	KindList:        "List",
	KindSet:         "Set",
	KindMap:         "Map",
	KindStruct:      "Struct",
	KindStop:        "Stop",
	KindStopBase:    "StopBase",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is one decoded unit. The set of implementations is closed: the
// scalar types below, List, Set, Map, Struct, Guid and the two control
// markers Stop and StopBase, which never appear in a decoded tree.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	Bool        bool
	Uint8       uint8
	Uint16      uint16
	Uint32      uint32
	Uint64      uint64
	Int8        int8
	Int16       int16
	Int32       int32
	Int64       int64
	Float32     float32
	Float64     float64
	Utf8String  string
	Utf16String string
)

// List is a decoded BT_LIST. Byte lists are materialized as Uint8 values.
type List []Value

// Set is a decoded BT_SET in wire order.
type Set []Value

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is a decoded BT_MAP. Entries keep wire order and duplicate keys are
// retained.
type Map []MapEntry

// Struct is a decoded BT_STRUCT. Fields are positional: wire field ids are
// not retained. Base holds the fields that preceded a BT_STOP_BASE marker.
type Struct struct {
	Base   *Struct
	Fields []Value
}

// Stop marks the end of a struct's field stream.
type Stop struct{}

// StopBase marks the end of a base struct's fields.
type StopBase struct{}

func (Bool) Kind() Kind        { return KindBool }
func (Uint8) Kind() Kind       { return KindUint8 }
func (Uint16) Kind() Kind      { return KindUint16 }
func (Uint32) Kind() Kind      { return KindUint32 }
func (Uint64) Kind() Kind      { return KindUint64 }
func (Int8) Kind() Kind        { return KindInt8 }
func (Int16) Kind() Kind       { return KindInt16 }
func (Int32) Kind() Kind       { return KindInt32 }
func (Int64) Kind() Kind       { return KindInt64 }
func (Float32) Kind() Kind     { return KindFloat32 }
func (Float64) Kind() Kind     { return KindFloat64 }
func (Utf8String) Kind() Kind  { return KindUtf8String }
func (Utf16String) Kind() Kind { return KindUtf16String }
func (List) Kind() Kind        { return KindList }
func (Set) Kind() Kind         { return KindSet }
func (Map) Kind() Kind         { return KindMap }
func (Struct) Kind() Kind      { return KindStruct }
func (Stop) Kind() Kind        { return KindStop }
func (StopBase) Kind() Kind    { return KindStopBase }

func (Bool) isValue()        {}
func (Uint8) isValue()       {}
func (Uint16) isValue()      {}
func (Uint32) isValue()      {}
func (Uint64) isValue()      {}
func (Int8) isValue()        {}
func (Int16) isValue()       {}
func (Int32) isValue()       {}
func (Int64) isValue()       {}
func (Float32) isValue()     {}
func (Float64) isValue()     {}
func (Utf8String) isValue()  {}
func (Utf16String) isValue() {}
func (List) isValue()        {}
func (Set) isValue()         {}
func (Map) isValue()         {}
func (Struct) isValue()      {}
func (Stop) isValue()        {}
func (StopBase) isValue()    {}

// BaseStruct returns the base struct, or nil when the struct has no base.
func (s *Struct) BaseStruct() *Struct {
	if s == nil {
		return nil
	}
	return s.Base
}

// Field returns the i-th field.
func (s *Struct) Field(i int) (Value, bool) {
	if s == nil || i < 0 || i >= len(s.Fields) {
		return nil, false
	}
	return s.Fields[i], true
}

// Bases returns the chain of base structs from the nearest to the root.
func (s *Struct) Bases() []*Struct {
	var out []*Struct
	for b := s.BaseStruct(); b != nil; b = b.Base {
		out = append(out, b)
	}
	return out
}

// IsControl reports whether v is a Stop or StopBase marker.
func IsControl(v Value) bool {
	switch v.(type) {
	case Stop, StopBase:
		return true
	}
	return false
}

// Bytes returns the content of a list of Uint8 values. The second result
// is false if any element is not a Uint8.
func (l List) Bytes() ([]byte, bool) {
	out := make([]byte, len(l))
	for i, v := range l {
		b, ok := v.(Uint8)
		if !ok {
			return nil, false
		}
		out[i] = byte(b)
	}
	return out, true
}

// Equal reports whether a and b are the same decoded tree. Nil and empty
// field lists compare equal; floats compare by bit pattern so that NaN
// payloads decoded from identical bytes are equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Float32:
		return math.Float32bits(float32(x)) == math.Float32bits(float32(b.(Float32)))
	case Float64:
		return math.Float64bits(float64(x)) == math.Float64bits(float64(b.(Float64)))
	case List:
		return equalSlices(x, b.(List))
	case Set:
		return equalSlices(x, b.(Set))
	case Map:
		y := b.(Map)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i].Key, y[i].Key) || !Equal(x[i].Value, y[i].Value) {
				return false
			}
		}
		return true
	case Struct:
		return equalStructs(&x, asStruct(b))
	case *Struct:
		return equalStructs(x, asStruct(b))
	default:
		return a == b
	}
}

func asStruct(v Value) *Struct {
	switch s := v.(type) {
	case Struct:
		return &s
	case *Struct:
		return s
	}
	return nil
}

func equalStructs(x, y *Struct) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	return equalStructs(x.Base, y.Base) && equalSlices(x.Fields, y.Fields)
}

func equalSlices(x, y []Value) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Equal(x[i], y[i]) {
			return false
		}
	}
	return true
}
