package bond

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/bond-reader/bond/internal/binary"
	"github.com/wippyai/bond-reader/errors"
)

// preallocLimit caps slice capacity taken from declared counts.
const preallocLimit = 1024

// Decoder reads compact binary values from a byte stream. A Decoder owns
// its stream position and is not safe for concurrent use.
type Decoder struct {
	r     *binary.Reader
	log   *zap.Logger
	opts  Options
	depth int
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.ByteReader, opts ...Option) *Decoder {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.Logger
	if log == nil {
		log = Logger()
	}
	return &Decoder{
		r:    binary.NewReader(r),
		log:  log,
		opts: o,
	}
}

// Decode reads one top-level struct from r.
func Decode(r io.Reader, opts ...Option) (*Struct, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return NewDecoder(br, opts...).Decode()
}

// DecodeBytes reads one top-level struct from data.
func DecodeBytes(data []byte, opts ...Option) (*Struct, error) {
	return NewDecoder(bytes.NewReader(data), opts...).Decode()
}

// Options returns the decoder's effective options.
func (d *Decoder) Options() Options {
	return d.opts
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.r.Position()
}

// Decode reads one top-level struct.
func (d *Decoder) Decode() (*Struct, error) {
	if err := d.opts.validate(); err != nil {
		return nil, err
	}
	start := d.r.Position()
	if err := d.enter(); err != nil {
		return nil, err
	}
	s, err := d.decodeStruct()
	d.leave()
	if err != nil {
		return nil, err
	}
	d.log.Debug("decoded struct",
		zap.Int("offset", start),
		zap.Int("bytes", d.r.Position()-start),
		zap.Int("fields", len(s.Fields)),
		zap.Int("bases", len(s.Bases())))
	return &s, nil
}

// DecodeValue reads one value of wire type t. Stop and StopBase decode to
// their markers without consuming input.
func (d *Decoder) DecodeValue(t Type) (Value, error) {
	if err := d.opts.validate(); err != nil {
		return nil, err
	}
	return d.decodeValue(t)
}

func (d *Decoder) decodeValue(t Type) (Value, error) {
	start := d.r.Position()
	switch t {
	case TypeBool:
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		return Bool(b != 0), nil
	case TypeUint8:
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		return Uint8(b), nil
	case TypeInt8:
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		return Int8(int8(b)), nil
	case TypeUint16:
		u, err := d.readUnsigned(t, math.MaxUint16)
		if err != nil {
			return nil, err
		}
		return Uint16(u), nil
	case TypeUint32:
		u, err := d.readUnsigned(t, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		return Uint32(u), nil
	case TypeUint64:
		u, err := d.r.ReadUvarint()
		if err != nil {
			return nil, err
		}
		return Uint64(u), nil
	case TypeInt16:
		v, err := d.readSigned(t, math.MinInt16, math.MaxInt16)
		if err != nil {
			return nil, err
		}
		return Int16(v), nil
	case TypeInt32:
		v, err := d.readSigned(t, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return Int32(v), nil
	case TypeInt64:
		v, err := d.r.ReadZigZag()
		if err != nil {
			return nil, err
		}
		return Int64(v), nil
	case TypeFloat32:
		f, err := d.r.ReadFloat32LE()
		if err != nil {
			return nil, err
		}
		return Float32(f), nil
	case TypeFloat64:
		f, err := d.r.ReadFloat64LE()
		if err != nil {
			return nil, err
		}
		return Float64(f), nil
	case TypeUtf8String:
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		return Utf8String(s), nil
	case TypeUtf16String:
		s, err := d.readWString()
		if err != nil {
			return nil, err
		}
		return Utf16String(s), nil
	case TypeStruct:
		if err := d.enter(); err != nil {
			return nil, err
		}
		defer d.leave()
		return d.decodeStruct()
	case TypeList, TypeSet:
		if err := d.enter(); err != nil {
			return nil, err
		}
		defer d.leave()
		return d.decodeContainer(t)
	case TypeMap:
		if err := d.enter(); err != nil {
			return nil, err
		}
		defer d.leave()
		return d.decodeMap()
	case TypeStop:
		return Stop{}, nil
	case TypeStopBase:
		return StopBase{}, nil
	default:
		return nil, errors.UnknownType(errors.PhaseDecode, start, uint8(t))
	}
}

func (d *Decoder) decodeStruct() (Struct, error) {
	framed := d.opts.ProtocolVersion == ProtocolV2
	var expected uint64
	var start int
	if framed {
		var err error
		expected, err = d.r.ReadUvarint()
		if err != nil {
			return Struct{}, err
		}
		start = d.r.Position()
	}

	var base *Struct
	var fields []Value
body:
	for {
		offset := d.r.Position()
		t, id, err := readFieldHeader(d.r)
		if err != nil {
			return Struct{}, err
		}
		if ce := d.log.Check(zap.DebugLevel, "field"); ce != nil {
			ce.Write(zap.Uint16("id", id), zap.Stringer("type", t), zap.Int("offset", offset))
		}
		v, err := d.decodeValue(t)
		if err != nil {
			return Struct{}, withPath(err, fmt.Sprintf("field#%d", id))
		}
		switch v.(type) {
		case Stop:
			break body
		case StopBase:
			if len(fields) > 0 || base != nil {
				base = &Struct{Base: base, Fields: fields}
			}
			fields = nil
		default:
			fields = append(fields, v)
		}
	}

	if d.opts.DetectGUIDs {
		fields = CollapseGUIDs(fields)
	}

	if framed {
		end := d.r.Position()
		if actual := uint64(end - start); actual != expected {
			return Struct{}, errors.LengthMismatch(end, expected, actual)
		}
	}

	return Struct{Base: base, Fields: fields}, nil
}

func (d *Decoder) decodeContainer(ct Type) (Value, error) {
	elem, count, err := readContainerHeader(d.r)
	if err != nil {
		return nil, err
	}

	// Byte lists are stored as a raw block.
	if ct == TypeList && (elem == TypeUint8 || elem == TypeInt8) {
		data, err := d.r.ReadBytes(int(count))
		if err != nil {
			return nil, err
		}
		list := make(List, len(data))
		for i, b := range data {
			list[i] = Uint8(b)
		}
		return list, nil
	}

	if err := d.checkElement(elem); err != nil {
		return nil, err
	}

	name := "list"
	if ct == TypeSet {
		name = "set"
	}
	items := make([]Value, 0, min(int(count), preallocLimit))
	for i := uint32(0); i < count; i++ {
		v, err := d.decodeValue(elem)
		if err != nil {
			return nil, withPath(err, fmt.Sprintf("%s[%d]", name, i))
		}
		items = append(items, v)
	}
	if ct == TypeSet {
		return Set(items), nil
	}
	return List(items), nil
}

func (d *Decoder) decodeMap() (Value, error) {
	kt, err := readTypeByte(d.r)
	if err != nil {
		return nil, err
	}
	vt, err := readTypeByte(d.r)
	if err != nil {
		return nil, err
	}
	if err := d.checkElement(kt); err != nil {
		return nil, err
	}
	if err := d.checkElement(vt); err != nil {
		return nil, err
	}
	count, err := d.r.ReadUvarint()
	if err != nil {
		return nil, err
	}

	entries := make(Map, 0, min(count, preallocLimit))
	for i := uint64(0); i < count; i++ {
		key, err := d.decodeValue(kt)
		if err != nil {
			return nil, withPath(err, fmt.Sprintf("map[%d].key", i))
		}
		val, err := d.decodeValue(vt)
		if err != nil {
			return nil, withPath(err, fmt.Sprintf("map[%d].value", i))
		}
		entries = append(entries, MapEntry{Key: key, Value: val})
	}
	return entries, nil
}

// checkElement rejects control markers as container element types: they
// consume no input and must not appear inside a decoded container.
func (d *Decoder) checkElement(t Type) error {
	if t == TypeStop || t == TypeStopBase {
		return errors.New(errors.PhaseDecode, errors.KindUnknownType).
			At(d.r.Position()).
			Type(t.String()).
			Detail("not a valid element type").
			Value(uint8(t)).
			Build()
	}
	return nil
}

func (d *Decoder) readUnsigned(t Type, limit uint64) (uint64, error) {
	start := d.r.Position()
	u, err := d.r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if u > limit {
		return 0, errors.Overflow(errors.PhaseDecode, start, u, t.String())
	}
	return u, nil
}

func (d *Decoder) readSigned(t Type, lo, hi int64) (int64, error) {
	start := d.r.Position()
	v, err := d.r.ReadZigZag()
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, errors.Overflow(errors.PhaseDecode, start, v, t.String())
	}
	return v, nil
}

func (d *Decoder) readLength(limit uint64, what string) (int, error) {
	start := d.r.Position()
	n, err := d.r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if n > limit {
		return 0, errors.Overflow(errors.PhaseDecode, start, n, what)
	}
	return int(n), nil
}

func (d *Decoder) readString() (string, error) {
	start := d.r.Position()
	n, err := d.readLength(math.MaxInt32, "string length")
	if err != nil {
		return "", err
	}
	data, err := d.r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, start, data)
	}
	return string(data), nil
}

func (d *Decoder) readWString() (string, error) {
	start := d.r.Position()
	n, err := d.readLength(math.MaxInt32/2, "wstring length")
	if err != nil {
		return "", err
	}
	data, err := d.r.ReadBytes(2 * n)
	if err != nil {
		return "", err
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = uint16(data[2*i]) | uint16(data[2*i+1])<<8
	}
	if i, ok := checkUTF16(units); !ok {
		return "", errors.InvalidUTF16(errors.PhaseDecode, start, i, units[i])
	}
	return string(utf16.Decode(units)), nil
}

// checkUTF16 reports the index of the first unpaired surrogate.
func checkUTF16(units []uint16) (int, bool) {
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] > 0xDFFF {
				return i, false
			}
			i++
		case u >= 0xDC00 && u <= 0xDFFF:
			return i, false
		}
	}
	return 0, true
}

func (d *Decoder) enter() error {
	if d.opts.MaxDepth > 0 && d.depth >= d.opts.MaxDepth {
		return errors.DepthExceeded(d.r.Position(), d.opts.MaxDepth)
	}
	d.depth++
	return nil
}

func (d *Decoder) leave() {
	d.depth--
}

func withPath(err error, segment string) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.WithPath(segment)
	}
	return err
}
