package bond_test

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/wippyai/bond-reader/bond"
	"github.com/wippyai/bond-reader/errors"
	"github.com/wippyai/bond-reader/internal/bondtest"
)

func TestReadFieldHeader(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantType bond.Type
		wantID   uint16
	}{
		{"inline id 0", []byte{0x05}, bond.TypeUint32, 0},
		{"inline id 5", []byte{0x09 | 5<<5}, bond.TypeUtf8String, 5},
		{"byte id", []byte{0x0a | 6<<5, 0xc8}, bond.TypeStruct, 200},
		{"byte id small", []byte{0x02 | 6<<5, 0x03}, bond.TypeBool, 3},
		{"uint16 id", []byte{0x10 | 7<<5, 0x34, 0x12}, bond.TypeInt32, 0x1234},
		{"stop", []byte{0x00}, bond.TypeStop, 0},
		{"stop base", []byte{0x01}, bond.TypeStopBase, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader(tt.data)
			typ, id, err := bond.ReadFieldHeader(r)
			if err != nil {
				t.Fatalf("ReadFieldHeader: %v", err)
			}
			if typ != tt.wantType || id != tt.wantID {
				t.Errorf("got (%v, %d), want (%v, %d)", typ, id, tt.wantType, tt.wantID)
			}
			if r.Len() != 0 {
				t.Errorf("%d bytes left unread", r.Len())
			}
		})
	}
}

func TestFieldHeaderBuilderRoundTrip(t *testing.T) {
	for _, id := range []uint16{0, 1, 5, 6, 7, 255, 256, 0xffff} {
		data := bondtest.New().FieldHeader(bondtest.Int64, id).Bytes()
		typ, got, err := bond.ReadFieldHeader(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("id %d: %v", id, err)
		}
		if typ != bond.TypeInt64 || got != id {
			t.Errorf("id %d: got (%v, %d)", id, typ, got)
		}
	}
}

func TestReadFieldHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		kind errors.Kind
	}{
		{"empty", nil, errors.KindTruncated},
		{"missing byte id", []byte{0x02 | 6<<5}, errors.KindTruncated},
		{"short uint16 id", []byte{0x02 | 7<<5, 0x01}, errors.KindTruncated},
		{"unknown tag 19", []byte{19}, errors.KindUnknownType},
		{"unknown tag 31", []byte{31 | 2<<5}, errors.KindUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := bond.ReadFieldHeader(bytes.NewReader(tt.data))
			if got := errors.KindOf(err); got != tt.kind {
				t.Errorf("kind: got %q (%v), want %q", got, err, tt.kind)
			}
		})
	}
}

func TestContainerCountRoundTrip(t *testing.T) {
	counts := []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 127, 128, 1 << 20, 0xffffffff}

	for _, c := range counts {
		inline := bondtest.New().ContainerHeader(bondtest.Float64, c).Bytes()
		if c < 7 && len(inline) != 1 {
			t.Errorf("count %d: expected single-byte header, got %v", c, inline)
		}
		ext := bondtest.New().ContainerHeaderExt(bondtest.Float64, c).Bytes()

		for name, data := range map[string][]byte{"inline": inline, "extension": ext} {
			typ, got, err := bond.ReadContainerHeader(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("%s count %d: %v", name, c, err)
			}
			if typ != bond.TypeFloat64 || got != c {
				t.Errorf("%s count %d: got (%v, %d)", name, c, typ, got)
			}
		}
	}
}

func TestReadContainerHeaderErrors(t *testing.T) {
	tooBig := bondtest.New().Raw(bondtest.Uint8).Uvarint(1 << 32).Bytes()
	_, _, err := bond.ReadContainerHeader(bytes.NewReader(tooBig))
	if !stderrors.Is(err, errors.ErrOverflow) {
		t.Errorf("expected overflow, got %v", err)
	}

	_, _, err = bond.ReadContainerHeader(bytes.NewReader([]byte{0x14}))
	if !stderrors.Is(err, errors.ErrUnknownType) {
		t.Errorf("expected unknown type, got %v", err)
	}

	_, _, err = bond.ReadContainerHeader(bytes.NewReader([]byte{0x03, 0x80}))
	if !stderrors.Is(err, errors.ErrTruncated) {
		t.Errorf("expected truncation, got %v", err)
	}
}
