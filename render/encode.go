package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/bond-reader/bond"
	"github.com/wippyai/bond-reader/errors"
)

// cborMode encodes with Core Deterministic Encoding: sorted map keys,
// shortest integer forms, no indefinite-length items.
var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("render: CBOR encoder initialization failed: " + err.Error())
	}
}

// JSON writes the plain form of v as JSON with a trailing newline.
// When indent is set the output is pretty-printed with two spaces.
func JSON(w io.Writer, v bond.Value, indent bool) error {
	var output []byte
	var err error
	if indent {
		output, err = json.MarshalIndent(ToPlain(v), "", "  ")
	} else {
		output, err = json.Marshal(ToPlain(v))
	}
	if err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindInvalidInput, err, "encode JSON")
	}
	if _, err := fmt.Fprintln(w, string(output)); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindIO, err, "write JSON")
	}
	return nil
}

// YAML writes the plain form of v as a YAML document.
func YAML(w io.Writer, v bond.Value) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToPlain(v)); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindIO, err, "encode YAML")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindIO, err, "encode YAML")
	}
	return nil
}

// CBOR writes the plain form of v as a single deterministic CBOR item.
func CBOR(w io.Writer, v bond.Value) error {
	data, err := cborMode.Marshal(ToPlain(v))
	if err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindInvalidInput, err, "encode CBOR")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindIO, err, "write CBOR")
	}
	return nil
}

// Highlight writes text with terminal syntax highlighting for the named
// lexer ("json", "yaml").
func Highlight(w io.Writer, text, lexer string) error {
	if err := quick.Highlight(w, text, lexer, "terminal256", "monokai"); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindIO, err, "highlight "+lexer)
	}
	return nil
}
