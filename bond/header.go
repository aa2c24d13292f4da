package bond

import (
	"io"

	"github.com/wippyai/bond-reader/bond/internal/binary"
	"github.com/wippyai/bond-reader/errors"
)

// Field header id modes (bits 5-7 of the header byte).
// Modes 0-5 are the literal id.
const (
	idModeByte   = 6 // id in the next byte
	idModeUint16 = 7 // id in the next two bytes, little-endian
)

// ReadFieldHeader reads a field header: the wire type of the field and its
// ordinal id.
func ReadFieldHeader(r io.ByteReader) (Type, uint16, error) {
	return readFieldHeader(binary.NewReader(r))
}

// ReadContainerHeader reads a list or set header: the element type and the
// element count.
func ReadContainerHeader(r io.ByteReader) (Type, uint32, error) {
	return readContainerHeader(binary.NewReader(r))
}

func readFieldHeader(r *binary.Reader) (Type, uint16, error) {
	start := r.Position()
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	t, err := checkType(b, start)
	if err != nil {
		return 0, 0, err
	}

	switch mode := b >> 5; mode {
	case idModeByte:
		id, err := r.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		return t, uint16(id), nil
	case idModeUint16:
		id, err := r.ReadU16LE()
		if err != nil {
			return 0, 0, err
		}
		return t, id, nil
	default:
		return t, uint16(mode), nil
	}
}

func readContainerHeader(r *binary.Reader) (Type, uint32, error) {
	start := r.Position()
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	t, err := checkType(b, start)
	if err != nil {
		return 0, 0, err
	}

	if mode := b >> 5; mode != 0 {
		return t, uint32(mode - 1), nil
	}
	countPos := r.Position()
	n, err := r.ReadUvarint()
	if err != nil {
		return 0, 0, err
	}
	if n > 0xFFFFFFFF {
		return 0, 0, errors.Overflow(errors.PhaseRead, countPos, n, "container count")
	}
	return t, uint32(n), nil
}

// readTypeByte reads a raw type byte, as used by map headers, ignoring the
// upper three bits.
func readTypeByte(r *binary.Reader) (Type, error) {
	start := r.Position()
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return checkType(b, start)
}

func checkType(b byte, offset int) (Type, error) {
	t := typeFromByte(b)
	if !t.Valid() {
		return 0, errors.UnknownType(errors.PhaseRead, offset, uint8(t))
	}
	return t, nil
}
