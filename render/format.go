package render

import (
	"bytes"
	"fmt"
	"io"

	bondreader "github.com/wippyai/bond-reader"
	"github.com/wippyai/bond-reader/errors"
)

// Format selects an output encoding.
type Format uint8

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
	FormatCBOR
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("format(%d)", f)
	}
}

// ParseFormat parses a format name.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown format %q", name))
	}
}

// Options controls Write.
type Options struct {
	Format Format
	Color  bool
	// Header prefixes text output with a comment line describing the
	// source. Other formats ignore it.
	Header bool
	Indent string
}

// Write renders doc's root struct in the selected format.
func Write(w io.Writer, doc *bondreader.Document, opts Options) error {
	switch opts.Format {
	case FormatText:
		if opts.Header {
			line := fmt.Sprintf("# %s: %d bytes, %s, blake3 %s, struct %d bytes\n",
				doc.Name, doc.Size, doc.Compression, doc.Digest, doc.Consumed)
			if _, err := io.WriteString(w, line); err != nil {
				return errors.Wrap(errors.PhaseRender, errors.KindIO, err, "write header")
			}
		}
		return Text(w, *doc.Root, TextOptions{Indent: opts.Indent, Color: opts.Color})
	case FormatJSON:
		return highlighted(w, opts.Color, "json", func(w io.Writer) error {
			return JSON(w, *doc.Root, true)
		})
	case FormatYAML:
		return highlighted(w, opts.Color, "yaml", func(w io.Writer) error {
			return YAML(w, *doc.Root)
		})
	case FormatCBOR:
		return CBOR(w, *doc.Root)
	default:
		return errors.Unsupported(errors.PhaseRender, fmt.Sprintf("format %s", opts.Format))
	}
}

func highlighted(w io.Writer, color bool, lexer string, encode func(io.Writer) error) error {
	if !color {
		return encode(w)
	}
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return err
	}
	return Highlight(w, buf.String(), lexer)
}
