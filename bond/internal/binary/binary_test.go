package binary

import (
	"bytes"
	stderrors "errors"
	"io"
	"math"
	"testing"

	"github.com/wippyai/bond-reader/errors"
)

// byteOnly hides the io.Reader half of a bytes.Reader so the byte-at-a-time
// path is exercised.
type byteOnly struct{ r *bytes.Reader }

func (b byteOnly) ReadByte() (byte, error) { return b.r.ReadByte() }

func readers(data []byte) map[string]*Reader {
	return map[string]*Reader{
		"bulk": NewReader(bytes.NewReader(data)),
		"byte": NewReader(byteOnly{bytes.NewReader(data)}),
	}
}

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(bytes.NewReader(data))

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if r.Position() != 3 {
		t.Errorf("final position: got %d, want 3", r.Position())
	}

	_, err := r.ReadByte()
	if !stderrors.Is(err, errors.ErrTruncated) {
		t.Errorf("expected truncation, got %v", err)
	}
	if !stderrors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected unexpected EOF cause, got %v", err)
	}
}

func TestReaderReadBytes(t *testing.T) {
	for name, r := range readers([]byte{0x01, 0x02, 0x03, 0x04, 0x05}) {
		t.Run(name, func(t *testing.T) {
			got, err := r.ReadBytes(3)
			if err != nil {
				t.Fatalf("ReadBytes: %v", err)
			}
			if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
				t.Errorf("ReadBytes: got %v, want [1 2 3]", got)
			}

			if r.Position() != 3 {
				t.Errorf("position: got %d, want 3", r.Position())
			}

			_, err = r.ReadBytes(10)
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Kind != errors.KindTruncated {
				t.Fatalf("expected truncation, got %v", err)
			}
			if e.Offset != 3 {
				t.Errorf("truncation offset: got %d, want 3", e.Offset)
			}
		})
	}
}

func TestReaderReadBytesHugeLength(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2, 3}))
	_, err := r.ReadBytes(math.MaxInt32)
	if !stderrors.Is(err, errors.ErrTruncated) {
		t.Fatalf("expected truncation, got %v", err)
	}
}

func TestReaderReadBytesZero(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	got, err := r.ReadBytes(0)
	if err != nil {
		t.Fatalf("ReadBytes(0): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ReadBytes(0): got %v", got)
	}
}

func TestReaderFixedWidth(t *testing.T) {
	data := []byte{
		0x34, 0x12, // u16
		0x78, 0x56, 0x34, 0x12, // u32
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, // u64
		0x00, 0x00, 0xc0, 0x3f, // float32 1.5
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0xc0, // float64 -2.5
	}
	for name, r := range readers(data) {
		t.Run(name, func(t *testing.T) {
			u16, err := r.ReadU16LE()
			if err != nil || u16 != 0x1234 {
				t.Errorf("ReadU16LE: got 0x%x, %v", u16, err)
			}
			u32, err := r.ReadU32LE()
			if err != nil || u32 != 0x12345678 {
				t.Errorf("ReadU32LE: got 0x%x, %v", u32, err)
			}
			u64, err := r.ReadU64LE()
			if err != nil || u64 != 0x0102030405060708 {
				t.Errorf("ReadU64LE: got 0x%x, %v", u64, err)
			}
			f32, err := r.ReadFloat32LE()
			if err != nil || f32 != 1.5 {
				t.Errorf("ReadFloat32LE: got %v, %v", f32, err)
			}
			f64, err := r.ReadFloat64LE()
			if err != nil || f64 != -2.5 {
				t.Errorf("ReadFloat64LE: got %v, %v", f64, err)
			}
			if r.Position() != len(data) {
				t.Errorf("position: got %d, want %d", r.Position(), len(data))
			}
		})
	}
}

func TestReaderFixedWidthTruncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03}))
	if _, err := r.ReadU32LE(); !stderrors.Is(err, errors.ErrTruncated) {
		t.Errorf("expected truncation, got %v", err)
	}
}

func TestReaderReadUvarint(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    uint64
		wantErr errors.Kind
	}{
		{"zero", []byte{0x00}, 0, ""},
		{"one byte max", []byte{0x7f}, 127, ""},
		{"two bytes", []byte{0x80, 0x01}, 128, ""},
		{"624485", []byte{0xe5, 0x8e, 0x26}, 624485, ""},
		{"max uint32", []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, math.MaxUint32, ""},
		{"max uint64", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, math.MaxUint64, ""},
		{"redundant padding", []byte{0x81, 0x80, 0x00}, 1, ""},
		{"tenth byte too big", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}, 0, errors.KindOverflow},
		{"unterminated", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 0, errors.KindOverflow},
		{"truncated", []byte{0x80, 0x80}, 0, errors.KindTruncated},
		{"empty", nil, 0, errors.KindTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(tt.data))
			got, err := r.ReadUvarint()
			if tt.wantErr != "" {
				if kind := errors.KindOf(err); kind != tt.wantErr {
					t.Fatalf("error kind: got %q (%v), want %q", kind, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadUvarint: %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadUvarint: got %d, want %d", got, tt.want)
			}
			if r.Position() != len(tt.data) {
				t.Errorf("position: got %d, want %d", r.Position(), len(tt.data))
			}
		})
	}
}

func TestZigZag(t *testing.T) {
	tests := []struct {
		in   uint64
		want int64
	}{
		{0, 0},
		{1, -1},
		{2, 1},
		{3, -2},
		{4, 2},
		{math.MaxUint64 - 1, math.MaxInt64},
		{math.MaxUint64, math.MinInt64},
	}
	for _, tt := range tests {
		if got := ZigZag(tt.in); got != tt.want {
			t.Errorf("ZigZag(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReaderReadZigZag(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x03, 0x80, 0x01}))
	v, err := r.ReadZigZag()
	if err != nil || v != -2 {
		t.Errorf("first: got %d, %v; want -2", v, err)
	}
	v, err = r.ReadZigZag()
	if err != nil || v != 64 {
		t.Errorf("second: got %d, %v; want 64", v, err)
	}
}
