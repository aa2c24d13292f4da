package binary

import (
	"encoding/binary"
	stderrors "errors"
	"io"
	"math"

	"github.com/wippyai/bond-reader/errors"
)

// chunkSize bounds how much ReadBytes allocates ahead of the bytes that
// are actually present, so a forged length prefix cannot force a huge
// allocation before truncation is detected.
const chunkSize = 64 << 10

// MaxVarintLen is the longest accepted LEB128 encoding of a 64-bit value.
const MaxVarintLen = 10

// Reader wraps an io.ByteReader with position tracking and Bond-specific
// primitive reads. All failures are *errors.Error values carrying the
// offset at which the failing read started.
type Reader struct {
	r   io.ByteReader
	rr  io.Reader // non-nil when r also supports bulk reads
	pos int
}

// NewReader creates a new Reader wrapping the given io.ByteReader.
func NewReader(r io.ByteReader) *Reader {
	rr, _ := r.(io.Reader)
	return &Reader{r: r, rr: rr}
}

// Position returns the number of bytes consumed so far.
func (r *Reader) Position() int {
	return r.pos
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, r.wrapError(r.pos, err)
	}
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	start := r.pos
	if n < 0 {
		return nil, errors.New(errors.PhaseRead, errors.KindOverflow).
			At(start).
			Detail("negative length %d", n).
			Build()
	}
	buf := make([]byte, 0, min(n, chunkSize))
	for len(buf) < n {
		want := min(n-len(buf), chunkSize)
		off := len(buf)
		buf = append(buf, make([]byte, want)...)
		if err := r.fill(buf[off:]); err != nil {
			return nil, r.wrapError(start, err)
		}
	}
	return buf, nil
}

func (r *Reader) fill(dst []byte) error {
	if r.rr != nil {
		n, err := io.ReadFull(r.rr, dst)
		r.pos += n
		return err
	}
	for i := range dst {
		b, err := r.r.ReadByte()
		if err != nil {
			return err
		}
		dst[i] = b
		r.pos++
	}
	return nil
}

// ReadU16LE reads a little-endian uint16 (fixed 2 bytes).
func (r *Reader) ReadU16LE() (uint16, error) {
	var buf [2]byte
	if err := r.readFixed(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32LE() (uint32, error) {
	var buf [4]byte
	if err := r.readFixed(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadU64LE reads a little-endian uint64 (fixed 8 bytes).
func (r *Reader) ReadU64LE() (uint64, error) {
	var buf [8]byte
	if err := r.readFixed(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// ReadFloat32LE reads a little-endian IEEE-754 float32.
func (r *Reader) ReadFloat32LE() (float32, error) {
	bits, err := r.ReadU32LE()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadFloat64LE reads a little-endian IEEE-754 float64.
func (r *Reader) ReadFloat64LE() (float64, error) {
	bits, err := r.ReadU64LE()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// ReadUvarint reads an unsigned LEB128 encoded uint64. Encodings longer
// than MaxVarintLen bytes, or whose final byte carries bits above bit 63,
// fail with KindOverflow.
func (r *Reader) ReadUvarint() (uint64, error) {
	start := r.pos
	var result uint64
	var shift uint
	for i := 0; i < MaxVarintLen; i++ {
		b, err := r.r.ReadByte()
		if err != nil {
			return 0, r.wrapError(start, err)
		}
		r.pos++
		if i == MaxVarintLen-1 && b > 1 {
			break
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, errors.New(errors.PhaseRead, errors.KindOverflow).
		At(start).
		Detail("uleb128 exceeds 64 bits").
		Build()
}

// ReadZigZag reads a zig-zag encoded signed LEB128 value.
func (r *Reader) ReadZigZag() (int64, error) {
	u, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	return ZigZag(u), nil
}

// ZigZag maps 0, 1, 2, 3, ... to 0, -1, 1, -2, ...
func ZigZag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

func (r *Reader) readFixed(buf []byte) error {
	start := r.pos
	if err := r.fill(buf); err != nil {
		return r.wrapError(start, err)
	}
	return nil
}

func (r *Reader) wrapError(offset int, err error) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return err
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.Truncated(errors.PhaseRead, offset, err)
	}
	return errors.New(errors.PhaseRead, errors.KindIO).At(offset).Cause(err).Build()
}
