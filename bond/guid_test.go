package bond_test

import (
	"testing"

	"github.com/wippyai/bond-reader/bond"
)

func TestGuidFromParts(t *testing.T) {
	g := bond.GuidFromParts(0x01020304, 0x0506, 0x0708, 0x0A0B0C0D0E0F1011)

	const want = "01020304-0506-0708-1110-0F0E0D0C0B0A"
	if got := g.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}

	d1, d2, d3, d4 := g.Parts()
	if d1 != 0x01020304 || d2 != 0x0506 || d3 != 0x0708 || d4 != 0x0A0B0C0D0E0F1011 {
		t.Errorf("Parts() = %x %x %x %x", d1, d2, d3, d4)
	}

	parsed, err := bond.ParseGuid("01020304-0506-0708-1110-0f0e0d0c0b0a")
	if err != nil {
		t.Fatalf("ParseGuid: %v", err)
	}
	if parsed != g {
		t.Errorf("ParseGuid = %s, want %s", parsed, g)
	}
	if g.UUID().String() != "01020304-0506-0708-1110-0f0e0d0c0b0a" {
		t.Errorf("UUID() = %s", g.UUID())
	}
}

func TestCollapseGUIDs(t *testing.T) {
	guid := bond.GuidFromParts(0x01020304, 0x0506, 0x0708, 0x0A0B0C0D0E0F1011)
	parts := []bond.Value{
		bond.Uint32(0x01020304),
		bond.Uint16(0x0506),
		bond.Uint16(0x0708),
		bond.Uint64(0x0A0B0C0D0E0F1011),
	}

	tests := []struct {
		name string
		in   []bond.Value
		want []bond.Value
	}{
		{
			name: "exact match",
			in:   parts,
			want: []bond.Value{guid},
		},
		{
			name: "three fields",
			in:   parts[:3],
			want: parts[:3],
		},
		{
			name: "reordered types",
			in:   []bond.Value{parts[1], parts[0], parts[2], parts[3]},
			want: []bond.Value{parts[1], parts[0], parts[2], parts[3]},
		},
		{
			name: "signed lookalike",
			in:   []bond.Value{bond.Int32(1), parts[1], parts[2], parts[3]},
			want: []bond.Value{bond.Int32(1), parts[1], parts[2], parts[3]},
		},
		{
			name: "surrounded",
			in:   append(append([]bond.Value{bond.Bool(true)}, parts...), bond.Utf8String("x")),
			want: []bond.Value{bond.Bool(true), guid, bond.Utf8String("x")},
		},
		{
			name: "false start",
			in:   append([]bond.Value{bond.Uint32(9)}, parts...),
			want: []bond.Value{bond.Uint32(9), guid},
		},
		{
			name: "two in a row",
			in:   append(append([]bond.Value{}, parts...), parts...),
			want: []bond.Value{guid, guid},
		},
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bond.CollapseGUIDs(tt.in)
			if !bond.Equal(bond.List(got), bond.List(tt.want)) {
				t.Errorf("CollapseGUIDs = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollapseGUIDsDoesNotModifyInput(t *testing.T) {
	in := []bond.Value{bond.Uint32(1), bond.Uint16(2), bond.Uint16(3), bond.Uint64(4)}
	_ = bond.CollapseGUIDs(in)
	if in[0] != bond.Uint32(1) || len(in) != 4 {
		t.Errorf("input modified: %v", in)
	}
}
