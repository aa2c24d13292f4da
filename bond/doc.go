// Package bond decodes the Bond Compact Binary protocol.
//
// Decoding is driven entirely by the type tags embedded in the stream; no
// schema is needed. The result is a tree of Value nodes rooted at a Struct.
//
// # Decoding
//
// Decode a top-level struct from bytes:
//
//	root, err := bond.DecodeBytes(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range root.Fields {
//	    fmt.Println(f.Kind())
//	}
//
// Decode from a stream with options:
//
//	dec := bond.NewDecoder(bufio.NewReader(f),
//	    bond.WithMaxDepth(64),
//	    bond.WithGUIDDetection(false))
//	root, err := dec.Decode()
//
// # Value Model
//
// Scalars decode to Bool, Uint8..Uint64, Int8..Int64, Float32, Float64,
// Utf8String and Utf16String. Containers decode to List, Set and Map, with
// map entries kept in wire order. Lists of BT_UINT8 or BT_INT8 are read as
// one raw block and materialized as Uint8 values.
//
// Structs are positional: field ids are read but not kept. Fields written
// before a BT_STOP_BASE marker belong to the base struct:
//
//	A, B, BT_STOP_BASE, C, BT_STOP  =>  Struct{Base: &Struct{Fields: [A B]}, Fields: [C]}
//
// Each additional BT_STOP_BASE wraps the base collected so far, so deeper
// hierarchies are reachable through Base.Base.
//
// # GUIDs
//
// Within each struct level, a run of four fields typed Uint32, Uint16,
// Uint16, Uint64 is replaced by a single Guid. This is a content heuristic
// and can be disabled with WithGUIDDetection(false).
//
// # Framing
//
// In protocol version 2 every struct is prefixed with its body length; the
// decoder checks the length after reading the terminating BT_STOP and fails
// with errors.KindLengthMismatch if it differs. Version 1 streams carry no
// length prefix.
//
// # Errors
//
// All failures are *errors.Error values from the errors package, carrying
// the stream offset and the path of the value being decoded. The first
// error aborts decoding; no partial tree is returned.
package bond
