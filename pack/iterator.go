package pack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/framepack/framepack/errs"
)

// Iterator streams the objects of a multi-object payload one at a time, so
// a large file never has to be decoded into memory at once.
//
// Ownership: the iterator closes only sources it opened itself (file
// paths). Readers supplied by the caller stay open after Close, whether or
// not they implement io.Closer.
type Iterator struct {
	md     *msgpack.Decoder
	dec    *Decoder
	closer io.Closer
	cur    any
	err    error
	done   bool
}

// NewIterator builds an iterator over src: the path of an existing file, a
// byte slice, an io.Reader, or a string holding raw payload bytes when no
// file of that name exists.
func NewIterator(src any) (*Iterator, error) {
	var r io.Reader
	var closer io.Closer

	switch s := src.(type) {
	case string:
		if _, err := os.Stat(s); err == nil {
			f, err := os.Open(s)
			if err != nil {
				return nil, err
			}
			r = f
			closer = f
		} else {
			r = bytes.NewReader([]byte(s))
		}
	case []byte:
		r = bytes.NewReader(s)
	case io.Reader:
		r = s
	default:
		return nil, fmt.Errorf("%w: %T", errs.ErrInvalidSource, src)
	}

	return &Iterator{md: msgpack.NewDecoder(r), dec: NewDecoder(), closer: closer}, nil
}

// Next advances to the next object. It returns false at end of input or on
// error; check Err after the loop.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	v, err := unpackNext(it.md, it.dec)
	if err != nil {
		it.finish()
		if !errors.Is(err, io.EOF) {
			it.err = err
		}

		return false
	}
	it.cur = v

	return true
}

// Value returns the object read by the last successful Next.
func (it *Iterator) Value() any {
	return it.cur
}

// Err returns the first error hit while iterating, nil on clean end of
// input.
func (it *Iterator) Err() error {
	return it.err
}

// Close releases the underlying source if the iterator opened it. It is
// safe to call more than once and after exhaustion.
func (it *Iterator) Close() error {
	return it.finish()
}

// All returns a range-over-func view of the remaining objects. The source
// is released when the sequence ends, including early breaks.
func (it *Iterator) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		defer it.Close()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

func (it *Iterator) finish() error {
	it.done = true
	if it.closer == nil {
		return nil
	}
	c := it.closer
	it.closer = nil

	return c.Close()
}
