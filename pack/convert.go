package pack

import (
	"fmt"

	"github.com/framepack/framepack/compress"
	"github.com/framepack/framepack/endian"
	"github.com/framepack/framepack/errs"
	"github.com/framepack/framepack/frame"
	"github.com/framepack/framepack/internal/pool"
)

// extArrayPayload is the msgpack extension code carrying raw array bytes,
// compressed or not. Whether the payload is compressed, and by which
// backend, travels in the sibling compress field of the enclosing record.
const extArrayPayload = 0

// extPayload is a raw array byte payload on the wire.
type extPayload []byte

// convert flattens array-like values into their wire form: an extPayload of
// little-endian bytes for fixed-width dtypes, or a boxed element sequence
// for object dtype. Time-like values are bit-cast to their int64 nanosecond
// counts before flattening. When comp names a backend the byte payload is
// compressed through it.
func convert(values any, comp string) (any, error) {
	engine := endian.GetLittleEndianEngine()

	var arr *frame.Array
	switch v := values.(type) {
	case *frame.Array:
		if v.Dtype == frame.Object {
			return v.Elems(), nil
		}
		arr = v
	case *frame.DatetimeArray:
		a, err := frame.NewArray(frame.Int64, v.Values)
		if err != nil {
			return nil, err
		}
		arr = a
	case []int64:
		a, err := frame.NewArray(frame.Int64, v)
		if err != nil {
			return nil, err
		}
		arr = a
	default:
		return nil, fmt.Errorf("%w: cannot flatten %T", errs.ErrInvalidPayload, values)
	}

	if comp == "" {
		buf, err := arr.Bytes(engine)
		if err != nil {
			return nil, err
		}

		return extPayload(buf), nil
	}

	codec, err := compress.Lookup(comp)
	if err != nil {
		return nil, err
	}

	// The flattened bytes are scratch once compressed, so stage them in a
	// pooled buffer.
	bb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(bb)

	bb.B, err = arr.AppendBytes(bb.B[:0], engine)
	if err != nil {
		return nil, err
	}

	out, err := codec.Compress(bb.B)
	if err != nil {
		return nil, err
	}

	return extPayload(out), nil
}

// unconvert restores values produced by convert back into an array of the
// given dtype. The returned array always owns freshly allocated storage; it
// never aliases the wire buffer, so callers may mutate it freely.
//
// Category dtype passes through: its values field is an already-decoded
// categorical, not a byte payload.
func unconvert(values any, dtype frame.Dtype, comp string) (any, error) {
	if dtype == frame.Category {
		return values, nil
	}
	if dtype == frame.Object {
		elems, ok := values.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: object payload is %T, want sequence", errs.ErrInvalidPayload, values)
		}
		out := make([]any, len(elems))
		copy(out, elems)

		arr, err := frame.NewArray(frame.Object, out)
		if err != nil {
			return nil, err
		}

		return arr, nil
	}

	var buf []byte
	switch v := values.(type) {
	case *extPayload:
		buf = *v
	case extPayload:
		buf = v
	case []byte:
		buf = v
	case string:
		// Early format versions wrote array bytes as strings; the bytes
		// round-tripped through a latin-1 text decode on the way in.
		buf = latin1Bytes(v)
	default:
		return nil, fmt.Errorf("%w: array payload is %T", errs.ErrInvalidPayload, values)
	}

	if comp != "" {
		codec, err := compress.Lookup(comp)
		if err != nil {
			return nil, err
		}
		buf, err = codec.Decompress(buf)
		if err != nil {
			return nil, err
		}
	}

	arr, err := frame.FromBytes(dtype, buf, endian.GetLittleEndianEngine())
	if err != nil {
		return nil, err
	}

	// Microsecond counts from early format versions scale up to the
	// nanosecond storage unit.
	if dtype.IsLegacyMicros() {
		counts := arr.Data.([]int64)
		for i := range counts {
			counts[i] *= 1000
		}
	}

	return arr, nil
}

// latin1Bytes undoes a latin-1 text decode: each rune below U+0100 maps
// back to its single original byte.
func latin1Bytes(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, byte(r))
	}

	return out
}
