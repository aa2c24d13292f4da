package render

import (
	"encoding/hex"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/wippyai/bond-reader/bond"
	"github.com/wippyai/bond-reader/errors"
)

// TextOptions controls the indented text rendering.
type TextOptions struct {
	// Indent is repeated once per nesting level. Empty means two spaces.
	Indent string
	// Color enables ANSI styling regardless of what w is.
	Color bool
}

// Styles used by the text renderer.
type styles struct {
	kind   lipgloss.Style
	str    lipgloss.Style
	number lipgloss.Style
	label  lipgloss.Style
	faint  lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		kind:   r.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		str:    r.NewStyle().Foreground(lipgloss.Color("114")),
		number: r.NewStyle().Foreground(lipgloss.Color("215")),
		label:  r.NewStyle().Foreground(lipgloss.Color("176")),
		faint:  r.NewStyle().Foreground(lipgloss.Color("242")),
	}
}

// Text writes v as an indented tree, one value per line, each scalar in
// the form Kind(value).
func Text(w io.Writer, v bond.Value, opts TextOptions) error {
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}
	p := &printer{indent: indent, st: newStyles(w, opts.Color)}
	p.value(v, 0)
	p.buf.WriteByte('\n')
	if _, err := io.WriteString(w, p.buf.String()); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindIO, err, "write text")
	}
	return nil
}

type printer struct {
	buf    strings.Builder
	indent string
	st     styles
}

func (p *printer) pad(depth int) {
	for range depth {
		p.buf.WriteString(p.indent)
	}
}

func (p *printer) value(v bond.Value, depth int) {
	switch x := v.(type) {
	case bond.Struct:
		p.structure(&x, depth)
	case *bond.Struct:
		if x == nil {
			p.buf.WriteString(p.st.faint.Render("<nil>"))
			return
		}
		p.structure(x, depth)
	case bond.List:
		if data, ok := x.Bytes(); ok && len(data) > 0 {
			p.buf.WriteString(p.st.kind.Render("List"))
			p.buf.WriteString(p.st.faint.Render("<Uint8; " + strconv.Itoa(len(data)) + ">"))
			p.buf.WriteByte(' ')
			p.buf.WriteString(p.st.number.Render(hex.EncodeToString(data)))
			return
		}
		p.buf.WriteString(p.st.kind.Render("List"))
		p.buf.WriteByte(' ')
		p.items(x, depth)
	case bond.Set:
		p.buf.WriteString(p.st.kind.Render("Set"))
		p.buf.WriteByte(' ')
		p.items(x, depth)
	case bond.Map:
		p.buf.WriteString(p.st.kind.Render("Map"))
		if len(x) == 0 {
			p.buf.WriteString(" {}")
			return
		}
		p.buf.WriteString(" {\n")
		for _, e := range x {
			p.pad(depth + 1)
			p.value(e.Key, depth+1)
			p.buf.WriteString(" => ")
			p.value(e.Value, depth+1)
			p.buf.WriteByte('\n')
		}
		p.pad(depth)
		p.buf.WriteByte('}')
	case nil:
		p.buf.WriteString(p.st.faint.Render("<nil>"))
	default:
		p.buf.WriteString(p.st.kind.Render(v.Kind().String()))
		p.buf.WriteByte('(')
		p.buf.WriteString(p.scalar(v))
		p.buf.WriteByte(')')
	}
}

func (p *printer) structure(s *bond.Struct, depth int) {
	p.buf.WriteString(p.st.kind.Render("Struct"))
	if s.Base == nil && len(s.Fields) == 0 {
		p.buf.WriteString(" {}")
		return
	}
	p.buf.WriteString(" {\n")
	if s.Base != nil {
		p.pad(depth + 1)
		p.buf.WriteString(p.st.label.Render("base:"))
		p.buf.WriteByte(' ')
		p.structure(s.Base, depth+1)
		p.buf.WriteByte('\n')
	}
	p.pad(depth + 1)
	p.buf.WriteString(p.st.label.Render("fields:"))
	p.buf.WriteByte(' ')
	p.items(s.Fields, depth+1)
	p.buf.WriteByte('\n')
	p.pad(depth)
	p.buf.WriteByte('}')
}

func (p *printer) items(vs []bond.Value, depth int) {
	if len(vs) == 0 {
		p.buf.WriteString("[]")
		return
	}
	p.buf.WriteString("[\n")
	for _, v := range vs {
		p.pad(depth + 1)
		p.value(v, depth+1)
		p.buf.WriteByte('\n')
	}
	p.pad(depth)
	p.buf.WriteByte(']')
}

func (p *printer) scalar(v bond.Value) string {
	s := Scalar(v)
	switch v.(type) {
	case bond.Utf8String, bond.Utf16String:
		return p.st.str.Render(s)
	case bond.Stop, bond.StopBase:
		return s
	default:
		return p.st.number.Render(s)
	}
}

// Scalar formats the payload of a scalar value without its kind: numbers
// in Go syntax, strings quoted, GUIDs in display form. Containers and
// structs yield their element count.
func Scalar(v bond.Value) string {
	switch x := v.(type) {
	case bond.Bool:
		return strconv.FormatBool(bool(x))
	case bond.Uint8:
		return strconv.FormatUint(uint64(x), 10)
	case bond.Uint16:
		return strconv.FormatUint(uint64(x), 10)
	case bond.Uint32:
		return strconv.FormatUint(uint64(x), 10)
	case bond.Uint64:
		return strconv.FormatUint(uint64(x), 10)
	case bond.Int8:
		return strconv.FormatInt(int64(x), 10)
	case bond.Int16:
		return strconv.FormatInt(int64(x), 10)
	case bond.Int32:
		return strconv.FormatInt(int64(x), 10)
	case bond.Int64:
		return strconv.FormatInt(int64(x), 10)
	case bond.Float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case bond.Float64:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case bond.Utf8String:
		return strconv.Quote(string(x))
	case bond.Utf16String:
		return strconv.Quote(string(x))
	case bond.Guid:
		return x.String()
	case bond.List:
		return strconv.Itoa(len(x))
	case bond.Set:
		return strconv.Itoa(len(x))
	case bond.Map:
		return strconv.Itoa(len(x))
	case bond.Struct:
		return strconv.Itoa(len(x.Fields))
	default:
		return ""
	}
}
