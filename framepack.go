// Package framepack serializes labeled data structures to a compact
// msgpack-based binary format.
//
// The format covers typed N-dimensional arrays, axis variants (plain,
// range, datetime, period, interval, multi-level), categoricals, series,
// and column-block frames, plus the scalar types that appear as labels and
// elements. Raw array payloads travel as a msgpack extension type and can
// be compressed per call with zlib, zstd, lz4 or s2.
//
// Basic usage:
//
//	s := &frame.Series{Name: "x", Index: ix, Values: vals}
//
//	// Serialize to bytes.
//	data, err := framepack.Write(nil, []any{s})
//
//	// Serialize to a file with compressed array payloads.
//	_, err = framepack.Write("frames.msg", []any{s}, framepack.WithCompression("zstd"))
//
//	// Restore. A single-object payload comes back unwrapped.
//	obj, err := framepack.Read("frames.msg")
//
// Multi-object payloads are a plain concatenation of messages, so Write
// with WithAppend extends an existing file and Read returns a []any when
// the payload holds more than one object. ReadIterator streams objects one
// at a time without materializing the whole payload.
//
// The pack package exposes the lower-level per-object codec; the frame
// package defines the domain types.
package framepack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/framepack/framepack/errs"
	"github.com/framepack/framepack/internal/options"
	"github.com/framepack/framepack/pack"
)

type writeConfig struct {
	appendMode bool
	packOpts   []pack.Option
}

// WriteOption configures a Write call.
type WriteOption = options.Option[*writeConfig]

// WithAppend opens a destination path in append mode instead of truncating
// it, extending a multi-object payload in place.
func WithAppend() WriteOption {
	return options.NoError(func(cfg *writeConfig) {
		cfg.appendMode = true
	})
}

// WithCompression compresses raw array payloads with the named backend.
// See pack.WithCompression for the recognized names.
func WithCompression(name string) WriteOption {
	return options.NoError(func(cfg *writeConfig) {
		cfg.packOpts = append(cfg.packOpts, pack.WithCompression(name))
	})
}

// Write serializes objs, one message each, to dst.
//
// dst selects the destination: a file path (created, truncated unless
// WithAppend), an io.Writer, or nil to receive the payload as the returned
// byte slice. The returned slice is nil for the other destinations.
func Write(dst any, objs []any, opts ...WriteOption) ([]byte, error) {
	cfg := &writeConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if dst == nil {
		var buf bytes.Buffer
		if err := writeAll(&buf, objs, cfg.packOpts); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	}

	switch d := dst.(type) {
	case string:
		flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		if cfg.appendMode {
			flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		}
		f, err := os.OpenFile(d, flags, 0o644)
		if err != nil {
			return nil, err
		}
		if err := writeAll(f, objs, cfg.packOpts); err != nil {
			f.Close()
			return nil, err
		}

		return nil, f.Close()
	case io.Writer:
		return nil, writeAll(d, objs, cfg.packOpts)
	}

	return nil, fmt.Errorf("%w: %T", errs.ErrInvalidDestination, dst)
}

func writeAll(w io.Writer, objs []any, opts []pack.Option) error {
	for _, obj := range objs {
		if err := pack.Pack(w, obj, opts...); err != nil {
			return err
		}
	}

	return nil
}

// Read restores the objects serialized in src: a file path, a byte slice,
// or an io.Reader. A payload holding exactly one object comes back
// unwrapped; otherwise Read returns a []any in payload order, empty for an
// empty payload.
//
// A string src must name an existing file; a missing path fails with an
// error matching fs.ErrNotExist.
func Read(src any) (any, error) {
	switch s := src.(type) {
	case string:
		if _, err := os.Stat(s); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("file %s not found: %w", s, fs.ErrNotExist)
			}

			return nil, err
		}
		f, err := os.Open(s)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		return readAll(f)
	case []byte:
		return readAll(bytes.NewReader(s))
	case io.Reader:
		return readAll(s)
	}

	return nil, fmt.Errorf("%w: %T", errs.ErrInvalidSource, src)
}

// ReadIterator opens src like Read but returns a streaming iterator
// instead of materializing every object. The caller must Close it; sources
// the caller supplied stay open.
func ReadIterator(src any) (*pack.Iterator, error) {
	return pack.NewIterator(src)
}

func readAll(r io.Reader) (any, error) {
	it, err := pack.NewIterator(r)
	if err != nil {
		return nil, err
	}

	var out []any
	for it.Next() {
		out = append(out, it.Value())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return []any{}, nil
	}
	if len(out) == 1 {
		return out[0], nil
	}

	return out, nil
}
