// Package bondtest builds compact binary byte streams for tests.
//
// It writes exactly the bytes the caller asks for, including malformed
// ones; it is not a serializer and knows nothing about schemas.
package bondtest

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf16"
)

// Wire type codes, duplicated here so that tests inside package bond can
// use the builder without an import cycle.
const (
	Stop        byte = 0
	StopBase    byte = 1
	Bool        byte = 2
	Uint8       byte = 3
	Uint16      byte = 4
	Uint32      byte = 5
	Uint64      byte = 6
	Float32     byte = 7
	Float64     byte = 8
	Utf8String  byte = 9
	Struct      byte = 10
	List        byte = 11
	Set         byte = 12
	Map         byte = 13
	Int8        byte = 14
	Int16       byte = 15
	Int32       byte = 16
	Int64       byte = 17
	Utf16String byte = 18
)

// Builder accumulates an encoded stream.
type Builder struct {
	buf bytes.Buffer
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Bytes returns the bytes written so far.
func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int {
	return b.buf.Len()
}

// Raw writes p verbatim.
func (b *Builder) Raw(p ...byte) *Builder {
	b.buf.Write(p)
	return b
}

// Uvarint writes v as unsigned LEB128.
func (b *Builder) Uvarint(v uint64) *Builder {
	b.buf.Write(AppendUvarint(nil, v))
	return b
}

// ZigZag writes v as zig-zag LEB128.
func (b *Builder) ZigZag(v int64) *Builder {
	return b.Uvarint(ZigZagEncode(v))
}

// U16LE writes a fixed little-endian uint16.
func (b *Builder) U16LE(v uint16) *Builder {
	b.buf.Write(binary.LittleEndian.AppendUint16(nil, v))
	return b
}

// Float32 writes a little-endian IEEE-754 float32.
func (b *Builder) Float32(v float32) *Builder {
	b.buf.Write(binary.LittleEndian.AppendUint32(nil, math.Float32bits(v)))
	return b
}

// Float64 writes a little-endian IEEE-754 float64.
func (b *Builder) Float64(v float64) *Builder {
	b.buf.Write(binary.LittleEndian.AppendUint64(nil, math.Float64bits(v)))
	return b
}

// String writes a byte-length-prefixed string without validation.
func (b *Builder) String(s string) *Builder {
	b.Uvarint(uint64(len(s)))
	b.buf.WriteString(s)
	return b
}

// WString writes a code-unit-length-prefixed UTF-16LE string.
func (b *Builder) WString(s string) *Builder {
	return b.Units(utf16.Encode([]rune(s))...)
}

// Units writes raw UTF-16 code units with their count prefix.
func (b *Builder) Units(units ...uint16) *Builder {
	b.Uvarint(uint64(len(units)))
	for _, u := range units {
		b.U16LE(u)
	}
	return b
}

// FieldHeader writes a field header using the shortest id encoding.
func (b *Builder) FieldHeader(t byte, id uint16) *Builder {
	switch {
	case id <= 5:
		b.buf.WriteByte(t | byte(id)<<5)
	case id <= 0xff:
		b.buf.WriteByte(t | 6<<5)
		b.buf.WriteByte(byte(id))
	default:
		b.buf.WriteByte(t | 7<<5)
		b.U16LE(id)
	}
	return b
}

// ContainerHeader writes a list/set header, inlining counts below 7.
func (b *Builder) ContainerHeader(t byte, count uint32) *Builder {
	if count < 7 {
		b.buf.WriteByte(t | byte(count+1)<<5)
		return b
	}
	return b.ContainerHeaderExt(t, count)
}

// ContainerHeaderExt writes a list/set header with the count as a varint.
func (b *Builder) ContainerHeaderExt(t byte, count uint32) *Builder {
	b.buf.WriteByte(t)
	return b.Uvarint(uint64(count))
}

// MapHeader writes key and value type bytes and the entry count.
func (b *Builder) MapHeader(key, value byte, count uint64) *Builder {
	b.buf.WriteByte(key)
	b.buf.WriteByte(value)
	return b.Uvarint(count)
}

// Field writes a field header followed by whatever value writes.
func (b *Builder) Field(t byte, id uint16, value func(*Builder)) *Builder {
	b.FieldHeader(t, id)
	if value != nil {
		value(b)
	}
	return b
}

// Stop writes a BT_STOP field header.
func (b *Builder) Stop() *Builder {
	b.buf.WriteByte(Stop)
	return b
}

// StopBase writes a BT_STOP_BASE field header.
func (b *Builder) StopBase() *Builder {
	b.buf.WriteByte(StopBase)
	return b
}

// Struct writes a version 2 struct: the body produced by fields, a BT_STOP
// and the body length prefix in front of both.
func (b *Builder) Struct(fields func(*Builder)) *Builder {
	body := New()
	if fields != nil {
		fields(body)
	}
	body.Stop()
	b.Uvarint(uint64(body.Len()))
	b.buf.Write(body.buf.Bytes())
	return b
}

// StructV1 writes a version 1 struct: fields and a BT_STOP, no prefix.
func (b *Builder) StructV1(fields func(*Builder)) *Builder {
	if fields != nil {
		fields(b)
	}
	return b.Stop()
}

// AppendUvarint appends v as unsigned LEB128.
func AppendUvarint(dst []byte, v uint64) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		dst = append(dst, c)
		if v == 0 {
			return dst
		}
	}
}

// ZigZagEncode maps 0, -1, 1, -2, ... to 0, 1, 2, 3, ...
func ZigZagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}
