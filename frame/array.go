package frame

import (
	"fmt"
	"math"
	"time"

	"github.com/framepack/framepack/endian"
	"github.com/framepack/framepack/errs"
)

// Array is an N-dimensional typed array: a dtype, a shape, and flat
// row-major storage in the Go slice type matching the dtype. Time-like
// dtypes are held as int64 nanosecond counts so their on-wire form is a
// fixed-width integer buffer independent of display unit.
type Array struct {
	Dtype Dtype
	Shape []int
	// Data holds the flat elements: []int64, []float64, []bool, []any for
	// object dtype, and so on. Its length always equals the shape product.
	Data any
}

// NewArray creates a one-dimensional array from a typed slice.
//
// The slice type must match the dtype: []int64 for int64, datetime64[ns]
// and timedelta64[ns]; []any for object; etc.
func NewArray(dtype Dtype, data any) (*Array, error) {
	n, ok := storageLen(dtype, data)
	if !ok {
		return nil, fmt.Errorf("%w: %T does not store dtype %s", errs.ErrInvalidPayload, data, dtype)
	}

	return &Array{Dtype: dtype, Shape: []int{n}, Data: data}, nil
}

// NewArrayShape creates an array with an explicit shape. The flat data
// length must equal the shape product.
func NewArrayShape(dtype Dtype, data any, shape ...int) (*Array, error) {
	arr, err := NewArray(dtype, data)
	if err != nil {
		return nil, err
	}

	return arr.Reshape(shape)
}

// Len returns the total element count.
func (a *Array) Len() int {
	n := 1
	for _, dim := range a.Shape {
		n *= dim
	}

	return n
}

// Ndim returns the number of dimensions.
func (a *Array) Ndim() int {
	return len(a.Shape)
}

// Reshape returns an array sharing this array's storage with a new shape.
func (a *Array) Reshape(shape []int) (*Array, error) {
	n := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("%w: negative dimension in %v", errs.ErrShapeMismatch, shape)
		}
		n *= dim
	}
	if n != a.Len() {
		return nil, fmt.Errorf("%w: %d elements cannot fill shape %v", errs.ErrShapeMismatch, a.Len(), shape)
	}

	out := make([]int, len(shape))
	copy(out, shape)

	return &Array{Dtype: a.Dtype, Shape: out, Data: a.Data}, nil
}

// Ravel returns a one-dimensional array sharing this array's storage.
func (a *Array) Ravel() *Array {
	return &Array{Dtype: a.Dtype, Shape: []int{a.Len()}, Data: a.Data}
}

// Row returns row i of a two-dimensional array as a one-dimensional array
// sharing storage.
func (a *Array) Row(i int) (*Array, error) {
	if a.Ndim() != 2 {
		return nil, fmt.Errorf("%w: Row requires 2 dimensions, have %d", errs.ErrShapeMismatch, a.Ndim())
	}
	rows, width := a.Shape[0], a.Shape[1]
	if i < 0 || i >= rows {
		return nil, fmt.Errorf("%w: row %d of %d", errs.ErrShapeMismatch, i, rows)
	}

	data, err := sliceRange(a.Data, i*width, (i+1)*width)
	if err != nil {
		return nil, err
	}

	return &Array{Dtype: a.Dtype, Shape: []int{width}, Data: data}, nil
}

// ElementAt returns the flat element at position i, boxed.
func (a *Array) ElementAt(i int) any {
	switch data := a.Data.(type) {
	case []int8:
		return data[i]
	case []int16:
		return data[i]
	case []int32:
		return data[i]
	case []int64:
		return data[i]
	case []uint8:
		return data[i]
	case []uint16:
		return data[i]
	case []uint32:
		return data[i]
	case []uint64:
		return data[i]
	case []float32:
		return data[i]
	case []float64:
		return data[i]
	case []complex64:
		return data[i]
	case []complex128:
		return data[i]
	case []bool:
		return data[i]
	case []any:
		return data[i]
	}

	return nil
}

// Elems returns the flat elements boxed into a fresh []any.
func (a *Array) Elems() []any {
	if objs, ok := a.Data.([]any); ok {
		out := make([]any, len(objs))
		copy(out, objs)

		return out
	}

	out := make([]any, a.Len())
	for i := range out {
		out[i] = a.ElementAt(i)
	}

	return out
}

// Int64s returns the int64 storage, or nil when the array is not
// int64-backed.
func (a *Array) Int64s() []int64 {
	data, _ := a.Data.([]int64)
	return data
}

// AppendBytes flattens the array into dst in row-major order using the
// given byte order and returns the extended slice. Object and category
// dtypes have no byte form.
func (a *Array) AppendBytes(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	switch data := a.Data.(type) {
	case []int8:
		for _, v := range data {
			dst = append(dst, byte(v))
		}
	case []uint8:
		dst = append(dst, data...)
	case []int16:
		for _, v := range data {
			dst = engine.AppendUint16(dst, uint16(v))
		}
	case []uint16:
		for _, v := range data {
			dst = engine.AppendUint16(dst, v)
		}
	case []int32:
		for _, v := range data {
			dst = engine.AppendUint32(dst, uint32(v))
		}
	case []uint32:
		for _, v := range data {
			dst = engine.AppendUint32(dst, v)
		}
	case []int64:
		for _, v := range data {
			dst = engine.AppendUint64(dst, uint64(v))
		}
	case []uint64:
		for _, v := range data {
			dst = engine.AppendUint64(dst, v)
		}
	case []float32:
		for _, v := range data {
			dst = engine.AppendUint32(dst, math.Float32bits(v))
		}
	case []float64:
		for _, v := range data {
			dst = engine.AppendUint64(dst, math.Float64bits(v))
		}
	case []complex64:
		for _, v := range data {
			dst = engine.AppendUint32(dst, math.Float32bits(real(v)))
			dst = engine.AppendUint32(dst, math.Float32bits(imag(v)))
		}
	case []complex128:
		for _, v := range data {
			dst = engine.AppendUint64(dst, math.Float64bits(real(v)))
			dst = engine.AppendUint64(dst, math.Float64bits(imag(v)))
		}
	case []bool:
		for _, v := range data {
			if v {
				dst = append(dst, 1)
			} else {
				dst = append(dst, 0)
			}
		}
	default:
		return nil, fmt.Errorf("%w: dtype %s has no byte representation", errs.ErrInvalidPayload, a.Dtype)
	}

	return dst, nil
}

// Bytes flattens the array into a freshly allocated buffer.
func (a *Array) Bytes(engine endian.EndianEngine) ([]byte, error) {
	return a.AppendBytes(make([]byte, 0, a.Len()*a.Dtype.ItemSize()), engine)
}

// FromBytes reinterprets a flat byte buffer as a one-dimensional array of
// the given dtype. The returned array owns freshly allocated storage and
// never aliases buf.
func FromBytes(dtype Dtype, buf []byte, engine endian.EndianEngine) (*Array, error) {
	size := dtype.ItemSize()
	if size == 0 {
		return nil, fmt.Errorf("%w: dtype %s has no byte representation", errs.ErrInvalidPayload, dtype)
	}
	if len(buf)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of item size %d (%s)",
			errs.ErrInvalidPayload, len(buf), size, dtype)
	}
	n := len(buf) / size

	var data any
	switch dtype.Base() {
	case Int8:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(buf[i])
		}
		data = out
	case Uint8:
		out := make([]uint8, n)
		copy(out, buf)
		data = out
	case Int16:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(engine.Uint16(buf[i*2:]))
		}
		data = out
	case Uint16:
		out := make([]uint16, n)
		for i := range out {
			out[i] = engine.Uint16(buf[i*2:])
		}
		data = out
	case Int32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(engine.Uint32(buf[i*4:]))
		}
		data = out
	case Uint32:
		out := make([]uint32, n)
		for i := range out {
			out[i] = engine.Uint32(buf[i*4:])
		}
		data = out
	case Int64, Datetime64, Timedelta64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(engine.Uint64(buf[i*8:]))
		}
		data = out
	case Uint64:
		out := make([]uint64, n)
		for i := range out {
			out[i] = engine.Uint64(buf[i*8:])
		}
		data = out
	case Float32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(engine.Uint32(buf[i*4:]))
		}
		data = out
	case Float64:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(engine.Uint64(buf[i*8:]))
		}
		data = out
	case Complex64:
		out := make([]complex64, n)
		for i := range out {
			re := math.Float32frombits(engine.Uint32(buf[i*8:]))
			im := math.Float32frombits(engine.Uint32(buf[i*8+4:]))
			out[i] = complex(re, im)
		}
		data = out
	case Complex128:
		out := make([]complex128, n)
		for i := range out {
			re := math.Float64frombits(engine.Uint64(buf[i*16:]))
			im := math.Float64frombits(engine.Uint64(buf[i*16+8:]))
			out[i] = complex(re, im)
		}
		data = out
	case Bool:
		out := make([]bool, n)
		for i := range out {
			out[i] = buf[i] != 0
		}
		data = out
	default:
		return nil, fmt.Errorf("%w: cannot restore dtype %s from bytes", errs.ErrInvalidPayload, dtype)
	}

	// Restore at the base dtype; parametrized wrappers (timezone-aware
	// datetimes) are reapplied by the decoder.
	return &Array{Dtype: dtype.Base(), Shape: []int{n}, Data: data}, nil
}

// storageLen reports the element count of data and whether its slice type
// stores the given dtype.
func storageLen(dtype Dtype, data any) (int, bool) {
	switch d := data.(type) {
	case []int8:
		return len(d), dtype.Base() == Int8
	case []int16:
		return len(d), dtype.Base() == Int16
	case []int32:
		return len(d), dtype.Base() == Int32
	case []int64:
		base := dtype.Base()
		return len(d), base == Int64 || base == Datetime64 || base == Timedelta64
	case []uint8:
		return len(d), dtype.Base() == Uint8
	case []uint16:
		return len(d), dtype.Base() == Uint16
	case []uint32:
		return len(d), dtype.Base() == Uint32
	case []uint64:
		return len(d), dtype.Base() == Uint64
	case []float32:
		return len(d), dtype.Base() == Float32
	case []float64:
		return len(d), dtype.Base() == Float64
	case []complex64:
		return len(d), dtype.Base() == Complex64
	case []complex128:
		return len(d), dtype.Base() == Complex128
	case []bool:
		return len(d), dtype.Base() == Bool
	case []any:
		return len(d), dtype == Object
	}

	return 0, false
}

func sliceRange(data any, lo, hi int) (any, error) {
	switch d := data.(type) {
	case []int8:
		return d[lo:hi], nil
	case []int16:
		return d[lo:hi], nil
	case []int32:
		return d[lo:hi], nil
	case []int64:
		return d[lo:hi], nil
	case []uint8:
		return d[lo:hi], nil
	case []uint16:
		return d[lo:hi], nil
	case []uint32:
		return d[lo:hi], nil
	case []uint64:
		return d[lo:hi], nil
	case []float32:
		return d[lo:hi], nil
	case []float64:
		return d[lo:hi], nil
	case []complex64:
		return d[lo:hi], nil
	case []complex128:
		return d[lo:hi], nil
	case []bool:
		return d[lo:hi], nil
	case []any:
		return d[lo:hi], nil
	}

	return nil, fmt.Errorf("%w: unsupported storage %T", errs.ErrInvalidPayload, data)
}

// DatetimeArray holds timezone-aware datetime values: UTC nanosecond counts
// plus the zone name carried in the parametrized dtype. Values stay in UTC;
// the zone applies at presentation time.
type DatetimeArray struct {
	Dtype  Dtype
	Values []int64
}

// NewDatetimeArray creates a timezone-aware datetime array from UTC
// nanosecond counts.
func NewDatetimeArray(zone string, utcNanos []int64) *DatetimeArray {
	return &DatetimeArray{Dtype: DatetimeTZ(zone), Values: utcNanos}
}

// TZ returns the zone name.
func (a *DatetimeArray) TZ() string {
	return a.Dtype.TZ()
}

// Len returns the element count.
func (a *DatetimeArray) Len() int {
	return len(a.Values)
}

// Times materializes the values in the array's zone.
func (a *DatetimeArray) Times() ([]time.Time, error) {
	loc, err := time.LoadLocation(a.TZ())
	if err != nil {
		return nil, err
	}

	out := make([]time.Time, len(a.Values))
	for i, ns := range a.Values {
		out[i] = time.Unix(0, ns).In(loc)
	}

	return out, nil
}
