package pack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/framepack/framepack/errs"
	"github.com/framepack/framepack/frame"
)

func int64Array(t *testing.T, data ...int64) *frame.Array {
	t.Helper()
	arr, err := frame.NewArray(frame.Int64, data)
	require.NoError(t, err)

	return arr
}

func TestEncodeSeriesRecord(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	s := &frame.Series{
		Name:   "x",
		Index:  &frame.RangeIndex{Start: 0, Stop: 3, Step: 1},
		Values: int64Array(t, 1, 2, 3),
	}

	tree, err := enc.Encode(s)
	require.NoError(t, err)

	rec, ok := tree.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "series", rec["typ"])
	require.Equal(t, "Series", rec["klass"])
	require.Equal(t, "x", rec["name"])
	require.Equal(t, "int64", rec["dtype"])
	require.Nil(t, rec["compress"])

	payload, ok := rec["data"].(extPayload)
	require.True(t, ok)
	require.Len(t, payload, 3*8)

	index, ok := rec["index"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "range_index", index["typ"])
	require.Equal(t, int64(3), index["stop"])
}

func TestEncodeCompressRecorded(t *testing.T) {
	enc, err := NewEncoder(WithCompression("zlib"))
	require.NoError(t, err)

	tree, err := enc.Encode(int64Array(t, 1, 2, 3, 4))
	require.NoError(t, err)

	rec := tree.(map[string]any)
	require.Equal(t, "ndarray", rec["typ"])
	require.Equal(t, "zlib", rec["compress"])
	require.IsType(t, extPayload(nil), rec["data"])
}

func TestEncodeTimestampRecord(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	tree, err := enc.Encode(&frame.Timestamp{Value: 1546300800000000000})
	require.NoError(t, err)

	rec := tree.(map[string]any)
	require.Equal(t, "timestamp", rec["typ"])
	require.Equal(t, int64(1546300800000000000), rec["value"])
	require.Nil(t, rec["freq"])
	require.Nil(t, rec["tz"])
}

func TestEncodeObjectArrayBoxed(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	arr, err := frame.NewArray(frame.Object, []any{"a", nil, int64(3)})
	require.NoError(t, err)

	tree, err := enc.Encode(arr)
	require.NoError(t, err)

	rec := tree.(map[string]any)
	require.Equal(t, "object", rec["dtype"])
	require.Equal(t, []any{"a", nil, int64(3)}, rec["data"])
}

func TestEncodeSparseRefused(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	_, err = enc.Encode(&frame.SparseSeries{Name: "s"})
	require.ErrorIs(t, err, errs.ErrSparseNotImplemented)

	_, err = enc.Encode(&frame.SparseFrame{})
	require.ErrorIs(t, err, errs.ErrSparseNotImplemented)

	// The refusal also surfaces when the container is nested in a frame
	// cell payload.
	nested, err := frame.NewArray(frame.Object, []any{&frame.SparseSeries{}})
	require.NoError(t, err)
	_, err = enc.Encode(nested)
	require.ErrorIs(t, err, errs.ErrSparseNotImplemented)
}

func TestEncodeUnknownCompressionRejected(t *testing.T) {
	_, err := NewEncoder(WithCompression("snappy-raw"))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	_, err = NewEncoder(WithCompression("blosc"))
	require.ErrorIs(t, err, errs.ErrCompressionUnavailable)
}

func TestBlockClass(t *testing.T) {
	tests := []struct {
		dtype frame.Dtype
		klass string
	}{
		{frame.Int64, "IntBlock"},
		{frame.Uint8, "IntBlock"},
		{frame.Float64, "FloatBlock"},
		{frame.Complex128, "ComplexBlock"},
		{frame.Bool, "BoolBlock"},
		{frame.Object, "ObjectBlock"},
		{frame.Datetime64, "DatetimeBlock"},
		{frame.DatetimeTZ("UTC"), "DatetimeTZBlock"},
		{frame.Timedelta64, "TimeDeltaBlock"},
		{frame.Category, "CategoricalBlock"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.klass, blockClass(tt.dtype), "dtype %s", tt.dtype)
	}
}
