package bond

import (
	"io"

	"github.com/wippyai/bond-reader/bond/internal/binary"
	"github.com/wippyai/bond-reader/errors"
)

// LEB128 decoding utilities for the compact binary format. Unsigned values
// use plain LEB128; signed values are zig-zag mapped before encoding.

// ErrOverflow matches varint and narrowing overflows with errors.Is.
var ErrOverflow = errors.ErrOverflow

// MaxVarintLen is the longest accepted encoding of a 64-bit varint.
const MaxVarintLen = binary.MaxVarintLen

// ReadUvarint reads an unsigned LEB128 value.
func ReadUvarint(r io.ByteReader) (uint64, error) {
	return binary.NewReader(r).ReadUvarint()
}

// ReadZigZag reads a zig-zag encoded signed LEB128 value.
func ReadZigZag(r io.ByteReader) (int64, error) {
	return binary.NewReader(r).ReadZigZag()
}

// ZigZagDecode maps an encoded unsigned value back to its signed value:
// even values are non-negative, odd values negative.
func ZigZagDecode(u uint64) int64 {
	return binary.ZigZag(u)
}
