package render_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	bondreader "github.com/wippyai/bond-reader"
	"github.com/wippyai/bond-reader/bond"
	"github.com/wippyai/bond-reader/render"
)

func sampleTree() bond.Struct {
	return bond.Struct{
		Base: &bond.Struct{Fields: []bond.Value{bond.Int32(-7)}},
		Fields: []bond.Value{
			bond.Bool(true),
			bond.Utf8String("hi\tthere"),
			bond.Float64(math.Inf(-1)),
			bond.List{bond.Uint8(0xde), bond.Uint8(0xad)},
			bond.Set{},
			bond.Map{
				{Key: bond.Utf16String("k"), Value: bond.Uint64(1)},
				{Key: bond.Utf16String("k"), Value: bond.Uint64(2)},
			},
			bond.GuidFromParts(0x01020304, 0x0506, 0x0708, 0x0A0B0C0D0E0F1011),
			bond.Struct{},
		},
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Text(&buf, sampleTree(), render.TextOptions{}); err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := `Struct {
  base: Struct {
    fields: [
      Int32(-7)
    ]
  }
  fields: [
    Bool(true)
    Utf8String("hi\tthere")
    Float64(-Inf)
    List<Uint8; 2> dead
    Set []
    Map {
      Utf16String("k") => Uint64(1)
      Utf16String("k") => Uint64(2)
    }
    Guid(01020304-0506-0708-1110-0F0E0D0C0B0A)
    Struct {}
  ]
}
`
	if got := buf.String(); got != want {
		t.Errorf("Text output mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestTextIndentAndColor(t *testing.T) {
	v := bond.Struct{Fields: []bond.Value{bond.Uint16(3)}}

	var plain bytes.Buffer
	if err := render.Text(&plain, v, render.TextOptions{Indent: "\t"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(plain.String(), "\tfields: [\n\t\tUint16(3)\n") {
		t.Errorf("custom indent not applied:\n%s", plain.String())
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("escape codes without Color")
	}

	var colored bytes.Buffer
	if err := render.Text(&colored, v, render.TextOptions{Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("Color set but no escape codes written")
	}
}

func TestToPlain(t *testing.T) {
	got := render.ToPlain(sampleTree()).(map[string]any)
	base := got["base"].(map[string]any)
	if f := base["fields"].([]any); len(f) != 1 || f[0] != int32(-7) {
		t.Errorf("base fields = %#v", f)
	}
	fields := got["fields"].([]any)
	if fields[2] != "-Inf" {
		t.Errorf("non-finite float = %#v", fields[2])
	}
	if fields[6] != "01020304-0506-0708-1110-0F0E0D0C0B0A" {
		t.Errorf("guid = %#v", fields[6])
	}
	entries := fields[5].([]any)
	if len(entries) != 2 {
		t.Fatalf("map entries = %#v", entries)
	}
	if e := entries[1].(map[string]any); e["key"] != "k" || e["value"] != uint64(2) {
		t.Errorf("second entry = %#v", e)
	}
	inner := fields[7].(map[string]any)
	if _, ok := inner["base"]; ok {
		t.Error("nil base should be omitted")
	}
	if f := inner["fields"].([]any); f == nil || len(f) != 0 {
		t.Errorf("empty struct fields = %#v", f)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	v := bond.Struct{Fields: []bond.Value{bond.Utf8String("x"), bond.Float32(1.5), bond.Set{}}}
	if err := render.JSON(&buf, v, false); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if got, want := buf.String(), `{"fields":["x",1.5,[]]}`+"\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := render.YAML(&buf, sampleTree()); err != nil {
		t.Fatalf("YAML: %v", err)
	}
	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if fields := back["fields"].([]any); len(fields) != 8 {
		t.Errorf("fields = %#v", fields)
	}
}

func TestCBORDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := render.CBOR(&a, sampleTree()); err != nil {
		t.Fatalf("CBOR: %v", err)
	}
	if err := render.CBOR(&b, sampleTree()); err != nil {
		t.Fatalf("CBOR: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("encoding is not deterministic")
	}
	var back map[string]any
	if err := cbor.Unmarshal(a.Bytes(), &back); err != nil {
		t.Fatalf("output is not CBOR: %v", err)
	}
	if _, ok := back["base"]; !ok {
		t.Error("base missing after round trip")
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "json", "yaml", "cbor"} {
		f, err := render.ParseFormat(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if f.String() != name {
			t.Errorf("String() = %q, want %q", f.String(), name)
		}
	}
	if f, err := render.ParseFormat("yml"); err != nil || f != render.FormatYAML {
		t.Errorf("yml alias: %v, %v", f, err)
	}
	if _, err := render.ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWrite(t *testing.T) {
	root := bond.Struct{Fields: []bond.Value{bond.Bool(false)}}
	doc := &bondreader.Document{Root: &root, Name: "mem", Size: 4, Consumed: 3}

	var text bytes.Buffer
	if err := render.Write(&text, doc, render.Options{Format: render.FormatText, Header: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text.String(), "# mem: 4 bytes, auto, blake3 ") {
		t.Errorf("header = %q", text.String())
	}

	var js bytes.Buffer
	if err := render.Write(&js, doc, render.Options{Format: render.FormatJSON}); err != nil {
		t.Fatal(err)
	}
	var back map[string]any
	if err := json.Unmarshal(js.Bytes(), &back); err != nil {
		t.Fatalf("json output: %v", err)
	}

	var colored bytes.Buffer
	if err := render.Write(&colored, doc, render.Options{Format: render.FormatJSON, Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("highlighted JSON has no escape codes")
	}
}
