package bondreader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/bond-reader/bond"
	"github.com/wippyai/bond-reader/errors"
	"github.com/wippyai/bond-reader/source"
)

// Document is a decoded payload together with facts about its source.
type Document struct {
	Root        *bond.Struct
	Name        string
	Digest      source.Digest
	Compression source.Compression
	// Size is the raw input size, Consumed the number of decompressed
	// payload bytes the top-level struct occupied.
	Size     int
	Consumed int
}

// ReadFile opens path ("-" for stdin) and decodes its top-level struct.
// The container format is sniffed.
func ReadFile(path string, opts ...bond.Option) (*Document, error) {
	return ReadFileWith(path, nil, opts...)
}

// ReadFileWith is ReadFile with options for opening the source, such as a
// forced compression format or a replacement for stdin.
func ReadFileWith(path string, srcOpts []source.Option, opts ...bond.Option) (doc *Document, err error) {
	src, err := source.Open(path, srcOpts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			doc, err = nil, errors.Load(fmt.Sprintf("close %s", path), cerr)
		}
	}()
	return Read(src, opts...)
}

// Read decodes the top-level struct of an opened source. Bytes after the
// struct are left unread.
func Read(src *source.Source, opts ...bond.Option) (*Document, error) {
	dec := bond.NewDecoder(src, opts...)
	root, err := dec.Decode()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Root:        root,
		Name:        src.Name(),
		Digest:      src.Digest(),
		Compression: src.Compression(),
		Size:        src.Size(),
		Consumed:    dec.Offset(),
	}
	bond.Logger().Info("read document",
		zap.String("name", doc.Name),
		zap.Stringer("digest", doc.Digest),
		zap.Stringer("compression", doc.Compression),
		zap.Int("consumed", doc.Consumed))
	return doc, nil
}
