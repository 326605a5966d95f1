package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/framepack/framepack/endian"
	"github.com/framepack/framepack/errs"
)

func TestNewArrayStorageMismatch(t *testing.T) {
	_, err := NewArray(Int64, []float64{1, 2})
	require.ErrorIs(t, err, errs.ErrInvalidPayload)

	_, err = NewArray(Object, []int64{1, 2})
	require.ErrorIs(t, err, errs.ErrInvalidPayload)
}

func TestArrayReshape(t *testing.T) {
	arr, err := NewArray(Float64, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	mat, err := arr.Reshape([]int{2, 3})
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, mat.Shape)
	require.Equal(t, 6, mat.Len())
	require.Equal(t, 2, mat.Ndim())

	flat := mat.Ravel()
	require.Equal(t, []int{6}, flat.Shape)

	_, err = arr.Reshape([]int{4, 2})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestArrayRow(t *testing.T) {
	mat, err := NewArrayShape(Int64, []int64{10, 11, 12, 20, 21, 22}, 2, 3)
	require.NoError(t, err)

	row, err := mat.Row(1)
	require.NoError(t, err)
	require.Equal(t, []int64{20, 21, 22}, row.Int64s())

	_, err = mat.Row(2)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	flat := mat.Ravel()
	_, err = flat.Row(0)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestArrayBytesRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	tests := []struct {
		name  string
		dtype Dtype
		data  any
	}{
		{"int64", Int64, []int64{-1, 0, 1, 1 << 40}},
		{"int8", Int8, []int8{-128, 0, 127}},
		{"uint16", Uint16, []uint16{0, 65535}},
		{"float32", Float32, []float32{1.5, -2.25}},
		{"float64", Float64, []float64{3.14159, -0.5}},
		{"bool", Bool, []bool{true, false, true}},
		{"complex128", Complex128, []complex128{complex(1, -2), complex(0, 3)}},
		{"datetime64", Datetime64, []int64{1546300800000000000, 1546387200000000000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr, err := NewArray(tt.dtype, tt.data)
			require.NoError(t, err)

			buf, err := arr.Bytes(engine)
			require.NoError(t, err)
			require.Len(t, buf, arr.Len()*tt.dtype.ItemSize())

			back, err := FromBytes(tt.dtype, buf, engine)
			require.NoError(t, err)
			require.Equal(t, tt.dtype.Base(), back.Dtype)
			require.Equal(t, tt.data, back.Data)
		})
	}
}

func TestFromBytesFreshStorage(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	arr, err := NewArray(Int64, []int64{1, 2, 3})
	require.NoError(t, err)

	buf, err := arr.Bytes(engine)
	require.NoError(t, err)

	back, err := FromBytes(Int64, buf, engine)
	require.NoError(t, err)

	// Clobbering the wire buffer must not disturb the restored array.
	for i := range buf {
		buf[i] = 0xff
	}
	require.Equal(t, []int64{1, 2, 3}, back.Int64s())
}

func TestFromBytesErrors(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	_, err := FromBytes(Int64, make([]byte, 12), engine)
	require.ErrorIs(t, err, errs.ErrInvalidPayload)

	_, err = FromBytes(Object, make([]byte, 8), engine)
	require.ErrorIs(t, err, errs.ErrInvalidPayload)
}

func TestDatetimeArray(t *testing.T) {
	a := NewDatetimeArray("US/Eastern", []int64{1546300800000000000})
	require.Equal(t, "US/Eastern", a.TZ())
	require.Equal(t, 1, a.Len())
	require.Equal(t, DatetimeTZ("US/Eastern"), a.Dtype)

	times, err := a.Times()
	require.NoError(t, err)
	require.Len(t, times, 1)
	require.Equal(t, "US/Eastern", times[0].Location().String())
	require.Equal(t, int64(1546300800000000000), times[0].UnixNano())
}
