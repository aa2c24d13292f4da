package bond

import (
	"encoding/binary"
	"strings"

	"github.com/google/uuid"
)

// Guid is a 128-bit identifier in canonical GUID byte layout. It is not a
// wire type: the decoder builds it from four adjacent struct fields of
// types Uint32, Uint16, Uint16, Uint64.
type Guid uuid.UUID

func (Guid) Kind() Kind { return KindGuid }
func (Guid) isValue()   {}

// GuidFromParts builds a Guid from its Data1..Data4 parts. The first three
// parts are stored big-endian so that the string form prints them as
// numbers; Data4 contributes its eight little-endian bytes in order.
func GuidFromParts(data1 uint32, data2, data3 uint16, data4 uint64) Guid {
	var g Guid
	binary.BigEndian.PutUint32(g[0:4], data1)
	binary.BigEndian.PutUint16(g[4:6], data2)
	binary.BigEndian.PutUint16(g[6:8], data3)
	binary.LittleEndian.PutUint64(g[8:16], data4)
	return g
}

// Parts returns the Data1..Data4 parts g was built from.
func (g Guid) Parts() (data1 uint32, data2, data3 uint16, data4 uint64) {
	return binary.BigEndian.Uint32(g[0:4]),
		binary.BigEndian.Uint16(g[4:6]),
		binary.BigEndian.Uint16(g[6:8]),
		binary.LittleEndian.Uint64(g[8:16])
}

// UUID returns g as a uuid.UUID.
func (g Guid) UUID() uuid.UUID {
	return uuid.UUID(g)
}

// String returns the uppercase form XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX.
func (g Guid) String() string {
	return strings.ToUpper(uuid.UUID(g).String())
}

// ParseGuid parses the string form of a Guid, in either case.
func ParseGuid(s string) (Guid, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Guid{}, err
	}
	return Guid(u), nil
}

// CollapseGUIDs returns fields with every run of Uint32, Uint16, Uint16,
// Uint64 replaced by a single Guid. Runs are matched left to right and do
// not overlap. The input slice is not modified.
func CollapseGUIDs(fields []Value) []Value {
	out := make([]Value, 0, len(fields))
	for i := 0; i < len(fields); {
		if g, ok := guidAt(fields, i); ok {
			out = append(out, g)
			i += 4
			continue
		}
		out = append(out, fields[i])
		i++
	}
	return out
}

func guidAt(fields []Value, i int) (Guid, bool) {
	if i+4 > len(fields) {
		return Guid{}, false
	}
	d1, ok := fields[i].(Uint32)
	if !ok {
		return Guid{}, false
	}
	d2, ok := fields[i+1].(Uint16)
	if !ok {
		return Guid{}, false
	}
	d3, ok := fields[i+2].(Uint16)
	if !ok {
		return Guid{}, false
	}
	d4, ok := fields[i+3].(Uint64)
	if !ok {
		return Guid{}, false
	}
	return GuidFromParts(uint32(d1), uint16(d2), uint16(d3), uint64(d4)), true
}
