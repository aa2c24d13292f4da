package bond

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/bond-reader/errors"
)

// DefaultMaxDepth bounds the nesting of structs and containers.
const DefaultMaxDepth = 256

// Protocol versions of the compact binary format.
const (
	ProtocolV1 uint16 = 1
	ProtocolV2 uint16 = 2
)

// Options configures decoding.
type Options struct {
	Logger *zap.Logger
	// MaxDepth limits nesting of structs, lists, sets and maps.
	// Zero disables the limit.
	MaxDepth int
	// ProtocolVersion selects struct framing: version 2 prefixes every
	// struct with its byte length, version 1 does not.
	ProtocolVersion uint16
	// DetectGUIDs enables collapsing Uint32, Uint16, Uint16, Uint64 field
	// runs into Guid values.
	DetectGUIDs bool
}

// DefaultOptions returns default decoding configuration.
func DefaultOptions() Options {
	return Options{
		MaxDepth:        DefaultMaxDepth,
		ProtocolVersion: ProtocolV2,
		DetectGUIDs:     true,
	}
}

// Option modifies Options.
type Option func(*Options)

// WithMaxDepth sets the nesting limit. Zero disables it.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// WithGUIDDetection enables or disables the GUID heuristic.
func WithGUIDDetection(enabled bool) Option {
	return func(o *Options) { o.DetectGUIDs = enabled }
}

// WithProtocolVersion selects the struct framing version (1 or 2).
func WithProtocolVersion(v uint16) Option {
	return func(o *Options) { o.ProtocolVersion = v }
}

// WithLogger sets a per-decoder logger instead of the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func (o Options) validate() error {
	if o.ProtocolVersion != ProtocolV1 && o.ProtocolVersion != ProtocolV2 {
		return errors.Unsupported(errors.PhaseDecode, fmt.Sprintf("protocol version %d", o.ProtocolVersion))
	}
	if o.MaxDepth < 0 {
		return errors.InvalidInput(errors.PhaseDecode, fmt.Sprintf("negative max depth %d", o.MaxDepth))
	}
	return nil
}
