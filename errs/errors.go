// Package errs defines sentinel errors shared across framepack packages.
//
// Callers can match these with errors.Is after the codec wraps them with
// additional context via fmt.Errorf and %w.
package errs

import "errors"

var (
	// ErrSparseNotImplemented is returned when encoding a sparse series or
	// sparse frame container, neither of which has a tagged representation.
	ErrSparseNotImplemented = errors.New("sparse container serialization is not implemented")

	// ErrUnknownDatetimeLike is returned when a datetime-like value matches
	// no known sub-variant.
	ErrUnknownDatetimeLike = errors.New("cannot encode datetime-like value")

	// ErrUnsupportedCompression is returned when a compression name is not
	// in the known backend set.
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrCompressionUnavailable is returned when a recognized compression
	// backend has no implementation registered.
	ErrCompressionUnavailable = errors.New("compression backend unavailable")

	// ErrInvalidSource is returned when a read target is neither a file
	// path, a byte slice, nor an io.Reader.
	ErrInvalidSource = errors.New("source must be a file path, byte slice, or io.Reader")

	// ErrInvalidDestination is returned when a write target is neither a
	// file path, an io.Writer, nor nil.
	ErrInvalidDestination = errors.New("destination must be a file path, io.Writer, or nil")

	// ErrUnknownClass is returned when a recorded class key has no
	// registered constructor.
	ErrUnknownClass = errors.New("unknown class key")

	// ErrUnknownDtype is returned for a dtype name outside the supported
	// taxonomy.
	ErrUnknownDtype = errors.New("unknown dtype")

	// ErrInvalidPlacement is returned when block placements do not
	// partition the column range exactly.
	ErrInvalidPlacement = errors.New("block placements must partition the column range")

	// ErrShapeMismatch is returned when array data does not match the
	// requested shape.
	ErrShapeMismatch = errors.New("data length does not match shape")

	// ErrInvalidPayload is returned when a raw array payload cannot be
	// reinterpreted as the target dtype.
	ErrInvalidPayload = errors.New("invalid array payload")
)
