// Package source opens compact binary payloads from files, stdin or
// memory. It fingerprints the raw bytes with BLAKE3, unwraps zstd, gzip and
// LZ4 containers, and presents the payload as a buffered byte stream.
package source

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/wippyai/bond-reader/errors"
)

// StdinName is the path that selects standard input.
const StdinName = "-"

// Digest is a BLAKE3-256 digest of the raw, still compressed, input.
type Digest [32]byte

// String returns the digest in lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Options controls how a source is opened.
type Options struct {
	// Compression forces a container format. CompressionAuto sniffs it and
	// reads the payload uncompressed when the sniffed format does not decode.
	Compression Compression
	// Stdin is read when the path is StdinName. Nil means os.Stdin.
	Stdin io.Reader
}

// Option configures Options.
type Option func(*Options)

// WithCompression forces the container format instead of sniffing it.
func WithCompression(c Compression) Option {
	return func(o *Options) { o.Compression = c }
}

// WithStdin replaces os.Stdin as the input for StdinName.
func WithStdin(r io.Reader) Option {
	return func(o *Options) { o.Stdin = r }
}

// Source is an opened payload. It implements io.Reader and io.ByteReader
// over the decompressed bytes and must be closed when done.
type Source struct {
	name        string
	digest      Digest
	size        int
	compression Compression
	br          *bufio.Reader
	closer      func() error
}

// Open reads the file at path, or standard input when path is "-".
func Open(path string, opts ...Option) (*Source, error) {
	o := newOptions(opts)

	var data []byte
	var err error
	if path == StdinName {
		in := o.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Load(fmt.Sprintf("read %s", path), err)
	}
	return open(path, data, o)
}

// FromBytes opens an in-memory payload. The slice must not be modified
// while the source is in use.
func FromBytes(data []byte, opts ...Option) (*Source, error) {
	return open("<memory>", data, newOptions(opts))
}

func newOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func open(name string, data []byte, o Options) (*Source, error) {
	var r io.Reader
	var closer func() error
	c := o.Compression
	if c == CompressionAuto {
		c, r = detect(name, data)
	} else {
		var err error
		r, closer, err = unwrap(c, bytes.NewReader(data))
		if err != nil {
			return nil, errors.Load(fmt.Sprintf("open %s payload of %s", c, name), err)
		}
	}

	s := &Source{
		name:        name,
		digest:      blake3.Sum256(data),
		size:        len(data),
		compression: c,
		br:          bufio.NewReader(r),
		closer:      closer,
	}
	Logger().Debug("opened source",
		zap.String("name", name),
		zap.Int("size", s.size),
		zap.Stringer("compression", c),
		zap.Stringer("digest", s.digest))
	return s, nil
}

// detect sniffs the container format and decompresses the whole payload
// up front. A payload that does not decode as the sniffed format is treated
// as uncompressed.
func detect(name string, data []byte) (Compression, io.Reader) {
	c := Sniff(data)
	if c == CompressionNone {
		return c, bytes.NewReader(data)
	}

	out, err := inflate(c, data)
	if err != nil {
		Logger().Debug("sniffed compression did not decode, reading as uncompressed",
			zap.String("name", name),
			zap.Stringer("sniffed", c),
			zap.Error(err))
		return CompressionNone, bytes.NewReader(data)
	}
	return c, bytes.NewReader(out)
}

func inflate(c Compression, data []byte) ([]byte, error) {
	r, closer, err := unwrap(c, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(r)
	if closer != nil {
		if cerr := closer(); err == nil {
			err = cerr
		}
	}
	return out, err
}

func unwrap(c Compression, r io.Reader) (io.Reader, func() error, error) {
	switch c {
	case CompressionNone:
		return r, nil, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}
		return dec, func() error { dec.Close(); return nil }, nil
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, gz.Close, nil
	case CompressionLZ4:
		return lz4.NewReader(r), nil, nil
	default:
		return nil, nil, errors.Unsupported(errors.PhaseLoad, fmt.Sprintf("compression %s", c))
	}
}

// Name returns the path the source was opened from.
func (s *Source) Name() string { return s.name }

// Digest returns the BLAKE3-256 digest of the raw input.
func (s *Source) Digest() Digest { return s.digest }

// Size returns the raw input size in bytes.
func (s *Source) Size() int { return s.size }

// Compression returns the container format that was unwrapped.
func (s *Source) Compression() Compression { return s.compression }

// Read implements io.Reader over the decompressed payload.
func (s *Source) Read(p []byte) (int, error) {
	return s.br.Read(p)
}

// ReadByte implements io.ByteReader over the decompressed payload.
func (s *Source) ReadByte() (byte, error) {
	return s.br.ReadByte()
}

// Close releases decompressor resources.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	closer := s.closer
	s.closer = nil
	return closer()
}
