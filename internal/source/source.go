// Package source opens PGN inputs and outputs, compressed or not, chosen by
// file extension. The path "-" stands for stdin or stdout.
package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/lgbarn/pgntree/internal/errors"
)

// Stdio is the path naming stdin for Open and stdout for Create.
const Stdio = "-"

// Codec provides compression and decompression for one file format.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot, or "" for plain text.
	Extension() string
}

var (
	_ Codec = Plain{}
	_ Codec = Gzip{}
	_ Codec = Zstd{}
)

// Plain passes data through unchanged.
type Plain struct{}

func (Plain) Reader(r io.Reader) (io.ReadCloser, error)  { return io.NopCloser(r), nil }
func (Plain) Writer(w io.Writer) (io.WriteCloser, error) { return nopWriteCloser{w}, nil }
func (Plain) Extension() string                          { return "" }

// Gzip implements gzip compression.
type Gzip struct{}

func (Gzip) Reader(r io.Reader) (io.ReadCloser, error)  { return gzip.NewReader(r) }
func (Gzip) Writer(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil }
func (Gzip) Extension() string                          { return "gz" }

// Zstd implements zstd compression.
type Zstd struct{}

func (Zstd) Reader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

func (Zstd) Writer(w io.Writer) (io.WriteCloser, error) { return zstd.NewWriter(w) }
func (Zstd) Extension() string                          { return "zst" }

// CodecFor picks a codec from the last extension of path.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return Gzip{}
	case ".zst", ".zstd":
		return Zstd{}
	}
	return Plain{}
}

// Open opens path for reading, decompressing by extension.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	r, err := CodecFor(path).Reader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "decompress %s", path)
	}
	return &stack{Reader: r, closers: []io.Closer{r, f}}, nil
}

// Create creates path for writing, compressing by extension. Closing the
// returned writer flushes the compressor before closing the file.
func Create(path string) (io.WriteCloser, error) {
	if path == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	w, err := CodecFor(path).Writer(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "compress %s", path)
	}
	return &stack{Writer: w, closers: []io.Closer{w, f}}, nil
}

// Name returns the name diagnostics should use for path.
func Name(path string) string {
	if path == Stdio {
		return "<stdin>"
	}
	return filepath.Base(path)
}

// stack closes a codec stream and the file under it, in order.
type stack struct {
	io.Reader
	io.Writer
	closers []io.Closer
}

func (s *stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
