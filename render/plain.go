package render

import (
	"math"
	"strconv"

	"github.com/wippyai/bond-reader/bond"
)

// ToPlain converts a decoded value into plain Go values that JSON, YAML
// and CBOR encoders accept: structs become {"base", "fields"} maps with
// base omitted when absent, maps become lists of {"key", "value"} pairs so
// that order and duplicate keys survive, GUIDs become their display
// string, and non-finite floats become "NaN", "+Inf" or "-Inf".
func ToPlain(v bond.Value) any {
	switch x := v.(type) {
	case bond.Bool:
		return bool(x)
	case bond.Uint8:
		return uint8(x)
	case bond.Uint16:
		return uint16(x)
	case bond.Uint32:
		return uint32(x)
	case bond.Uint64:
		return uint64(x)
	case bond.Int8:
		return int8(x)
	case bond.Int16:
		return int16(x)
	case bond.Int32:
		return int32(x)
	case bond.Int64:
		return int64(x)
	case bond.Float32:
		if f := float64(x); math.IsNaN(f) || math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 32)
		}
		return float32(x)
	case bond.Float64:
		if f := float64(x); math.IsNaN(f) || math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return float64(x)
	case bond.Utf8String:
		return string(x)
	case bond.Utf16String:
		return string(x)
	case bond.Guid:
		return x.String()
	case bond.List:
		return plainSlice(x)
	case bond.Set:
		return plainSlice(x)
	case bond.Map:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = map[string]any{
				"key":   ToPlain(e.Key),
				"value": ToPlain(e.Value),
			}
		}
		return out
	case bond.Struct:
		return plainStruct(&x)
	case *bond.Struct:
		if x == nil {
			return nil
		}
		return plainStruct(x)
	default:
		return nil
	}
}

func plainStruct(s *bond.Struct) map[string]any {
	out := map[string]any{"fields": plainSlice(s.Fields)}
	if s.Base != nil {
		out["base"] = plainStruct(s.Base)
	}
	return out
}

func plainSlice(vs []bond.Value) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = ToPlain(v)
	}
	return out
}
