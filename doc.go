// Package bondreader reads Bond compact binary payloads into a generic,
// schema-less value tree.
//
// The library is organized into several packages with distinct responsibilities:
//
//	bondreader/          Root package: open a payload and decode its top-level struct
//	├── bond/            Wire types, value model and the compact binary decoder
//	├── source/          File, stdin and in-memory inputs with zstd/gzip/LZ4 unwrapping
//	├── render/          Text, JSON, YAML and CBOR renderings of decoded trees
//	├── config/          TOML configuration for the bonddump command
//	├── errors/          Structured error types with stream offsets and value paths
//	└── cmd/bonddump/    Command-line dumper and interactive tree browser
//
// # Quick Start
//
// Decode a file and print the tree:
//
//	doc, err := bondreader.ReadFile("record.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	render.Text(os.Stdout, *doc.Root, render.TextOptions{Indent: "  "})
//
// Decode bytes already in memory:
//
//	root, err := bond.DecodeBytes(data, bond.WithMaxDepth(64))
//
// # Value Model
//
// Every decoded value is a bond.Value. Structs keep their fields in wire
// order and without field ids; an inheritance chain is represented by the
// Base pointer. Four consecutive fields shaped like a GUID are collapsed
// into a single bond.Guid unless detection is disabled.
//
// # Thread Safety
//
// A bond.Decoder and a source.Source are used by one goroutine. Independent
// documents may be decoded concurrently. Package loggers must be set before
// any decoding starts.
package bondreader
