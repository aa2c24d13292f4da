package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRead     Phase = "read"     // byte-stream primitives
	PhaseDecode   Phase = "decode"   // value and struct decoding
	PhaseValidate Phase = "validate" // struct framing checks
	PhaseLoad     Phase = "load"     // opening byte sources
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseRender   Phase = "render"   // output rendering
)

// Kind categorizes the error
type Kind string

const (
	KindTruncated      Kind = "truncated"
	KindUnknownType    Kind = "unknown_type"
	KindOverflow       Kind = "overflow"
	KindInvalidUTF8    Kind = "invalid_utf8"
	KindInvalidUTF16   Kind = "invalid_utf16"
	KindLengthMismatch Kind = "length_mismatch"
	KindDepthExceeded  Kind = "depth_exceeded"
	KindUnsupported    Kind = "unsupported"
	KindInvalidInput   Kind = "invalid_input"
	KindIO             Kind = "io"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Type      string // Bond wire type involved, e.g. BT_UINT16
	Detail    string
	Path      []string
	Offset    int
	HasOffset bool

	// Expected and Actual are set for KindLengthMismatch.
	Expected uint64
	Actual   uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.HasOffset {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}

	if e.Type != "" {
		b.WriteString(": ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a
// phase matches on kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return (t.Phase == "" || e.Phase == t.Phase) && e.Kind == t.Kind
	}
	return false
}

// WithPath returns a copy of e whose path is prefixed with segments.
// Decoders use it while unwinding so that the final path reads from the
// root to the failing value.
func (e *Error) WithPath(segments ...string) *Error {
	cp := *e
	cp.Path = make([]string, 0, len(segments)+len(e.Path))
	cp.Path = append(cp.Path, segments...)
	cp.Path = append(cp.Path, e.Path...)
	return &cp
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the Bond type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// At sets the absolute stream offset
func (b *Builder) At(offset int) *Builder {
	b.err.Offset = offset
	b.err.HasOffset = true
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Truncated creates an unexpected end of input error
func Truncated(phase Phase, offset int, cause error) *Error {
	if cause == nil || stderrors.Is(cause, io.EOF) {
		cause = io.ErrUnexpectedEOF
	}
	return &Error{
		Phase:     phase,
		Kind:      KindTruncated,
		Offset:    offset,
		HasOffset: true,
		Detail:    "unexpected end of input",
		Cause:     cause,
	}
}

// UnknownType creates an unknown or unavailable type tag error
func UnknownType(phase Phase, offset int, tag uint8) *Error {
	detail := fmt.Sprintf("unknown type tag %d", tag)
	if tag == 127 {
		detail = "unavailable type tag"
	}
	return &Error{
		Phase:     phase,
		Kind:      KindUnknownType,
		Offset:    offset,
		HasOffset: true,
		Detail:    detail,
		Value:     tag,
	}
}

// Overflow creates a narrowing overflow error
func Overflow(phase Phase, offset int, value any, targetType string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindOverflow,
		Offset:    offset,
		HasOffset: true,
		Type:      targetType,
		Detail:    fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:     value,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error with a preview of the bytes
func InvalidUTF8(phase Phase, offset int, data []byte) *Error {
	preview := data
	if len(preview) > 20 {
		preview = preview[:20]
	}
	return &Error{
		Phase:     phase,
		Kind:      KindInvalidUTF8,
		Offset:    offset,
		HasOffset: true,
		Detail:    fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidUTF16 creates an invalid UTF-16 error for an unpaired surrogate
func InvalidUTF16(phase Phase, offset int, index int, unit uint16) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindInvalidUTF16,
		Offset:    offset,
		HasOffset: true,
		Detail:    fmt.Sprintf("unpaired surrogate 0x%04X at code unit %d", unit, index),
		Value:     unit,
	}
}

// LengthMismatch creates a struct length mismatch error
func LengthMismatch(offset int, expected, actual uint64) *Error {
	return &Error{
		Phase:     PhaseValidate,
		Kind:      KindLengthMismatch,
		Offset:    offset,
		HasOffset: true,
		Detail:    fmt.Sprintf("struct length mismatch: expected %d bytes, got %d", expected, actual),
		Expected:  expected,
		Actual:    actual,
	}
}

// DepthExceeded creates a nesting limit error
func DepthExceeded(offset int, limit int) *Error {
	return &Error{
		Phase:     PhaseDecode,
		Kind:      KindDepthExceeded,
		Offset:    offset,
		HasOffset: true,
		Detail:    fmt.Sprintf("nesting depth exceeds limit %d", limit),
		Value:     limit,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a source loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// Sentinels for errors.Is matching on kind in any phase.
var (
	ErrTruncated      = &Error{Kind: KindTruncated}
	ErrUnknownType    = &Error{Kind: KindUnknownType}
	ErrOverflow       = &Error{Kind: KindOverflow}
	ErrInvalidUTF8    = &Error{Kind: KindInvalidUTF8}
	ErrInvalidUTF16   = &Error{Kind: KindInvalidUTF16}
	ErrLengthMismatch = &Error{Kind: KindLengthMismatch}
	ErrDepthExceeded  = &Error{Kind: KindDepthExceeded}
)

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
