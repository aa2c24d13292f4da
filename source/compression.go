package source

import (
	"bytes"
	"fmt"
)

// Compression identifies the container format wrapped around a payload.
type Compression uint8

const (
	// CompressionAuto selects the format by magic number.
	CompressionAuto Compression = iota
	// CompressionNone means the payload is stored as is.
	CompressionNone
	// CompressionZstd is a zstd frame.
	CompressionZstd
	// CompressionGzip is a gzip member.
	CompressionGzip
	// CompressionLZ4 is an LZ4 frame.
	CompressionLZ4
)

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	gzipMagic = []byte{0x1F, 0x8B, 0x08}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// String returns the human-readable name of a compression format.
func (c Compression) String() string {
	switch c {
	case CompressionAuto:
		return "auto"
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionGzip:
		return "gzip"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCompression parses a compression format from its string
// representation.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "auto", "":
		return CompressionAuto, nil
	case "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// Sniff reports the compression format whose magic number starts data.
// Anything unrecognized is an uncompressed payload. The gzip magic includes
// the deflate method byte. A match is only a guess: a struct whose length
// prefix collides with a magic number is still a valid payload, which is
// why Open falls back to CompressionNone when the guess does not decode.
func Sniff(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return CompressionLZ4
	case bytes.HasPrefix(data, gzipMagic):
		return CompressionGzip
	default:
		return CompressionNone
	}
}
