package pack

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/framepack/framepack/errs"
	"github.com/framepack/framepack/frame"
)

func multiPayload(t *testing.T, objs ...any) []byte {
	t.Helper()

	var buf bytes.Buffer
	for _, obj := range objs {
		require.NoError(t, Pack(&buf, obj))
	}

	return buf.Bytes()
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (r *closeRecorder) Close() error {
	r.closed = true
	return nil
}

func TestIteratorOverBytes(t *testing.T) {
	data := multiPayload(t,
		&frame.Timestamp{Value: 1},
		&frame.Timestamp{Value: 2},
		&frame.Timestamp{Value: 3},
	)

	it, err := NewIterator(data)
	require.NoError(t, err)
	defer it.Close()

	var values []int64
	for it.Next() {
		values = append(values, it.Value().(*frame.Timestamp).Value)
	}
	require.NoError(t, it.Err())
	require.Equal(t, []int64{1, 2, 3}, values)

	// Exhausted iterators stay exhausted.
	require.False(t, it.Next())
}

func TestIteratorKeepsCallerReaderOpen(t *testing.T) {
	rec := &closeRecorder{Reader: bytes.NewReader(multiPayload(t, &frame.Timestamp{Value: 1}))}

	it, err := NewIterator(rec)
	require.NoError(t, err)
	require.True(t, it.Next())
	require.False(t, it.Next())
	require.NoError(t, it.Err())

	require.NoError(t, it.Close())
	require.False(t, rec.closed, "caller-supplied readers must stay open")
}

func TestIteratorOpensAndClosesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objs.msg")
	require.NoError(t, os.WriteFile(path, multiPayload(t, &frame.Timestamp{Value: 7}), 0o644))

	it, err := NewIterator(path)
	require.NoError(t, err)
	require.True(t, it.Next())
	require.Equal(t, int64(7), it.Value().(*frame.Timestamp).Value)
	require.False(t, it.Next())
	require.NoError(t, it.Err())
	require.NoError(t, it.Close())
	require.NoError(t, it.Close())
}

func TestIteratorStringFallsBackToRawBytes(t *testing.T) {
	// A string that names no existing file is treated as the payload
	// itself.
	raw := string(multiPayload(t, &frame.Timestamp{Value: 9}))

	it, err := NewIterator(raw)
	require.NoError(t, err)
	defer it.Close()

	require.True(t, it.Next())
	require.Equal(t, int64(9), it.Value().(*frame.Timestamp).Value)
}

func TestIteratorInvalidSource(t *testing.T) {
	_, err := NewIterator(42)
	require.ErrorIs(t, err, errs.ErrInvalidSource)
}

func TestIteratorAll(t *testing.T) {
	data := multiPayload(t,
		&frame.Timestamp{Value: 1},
		&frame.Timestamp{Value: 2},
		&frame.Timestamp{Value: 3},
	)

	it, err := NewIterator(data)
	require.NoError(t, err)

	var values []int64
	for obj := range it.All() {
		values = append(values, obj.(*frame.Timestamp).Value)
		if len(values) == 2 {
			break
		}
	}
	require.Equal(t, []int64{1, 2}, values)
	require.False(t, it.Next())
}

func TestIteratorTruncatedPayload(t *testing.T) {
	data := multiPayload(t, &frame.Timestamp{Value: 1})
	it, err := NewIterator(data[:len(data)-3])
	require.NoError(t, err)
	defer it.Close()

	require.False(t, it.Next())
	require.Error(t, it.Err())
}
