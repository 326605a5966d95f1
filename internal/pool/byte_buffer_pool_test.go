package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferWriteAndReset(t *testing.T) {
	bb := NewByteBuffer(16)

	n, err := bb.Write([]byte("payload"))
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.Equal(t, []byte("payload"), bb.Bytes())
	require.Equal(t, 7, bb.Len())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 16)
}

func TestByteBufferWriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, err := bb.Write([]byte{1, 2, 3})
	require.NoError(t, err)

	var dst bytes.Buffer
	n, err := bb.WriteTo(&dst)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, []byte{1, 2, 3}, dst.Bytes())
}

func TestByteBufferCopyOut(t *testing.T) {
	bb := NewByteBuffer(8)
	_, err := bb.Write([]byte{9, 8, 7})
	require.NoError(t, err)

	out := bb.CopyOut()
	require.Equal(t, []byte{9, 8, 7}, out)

	// The copy must not alias pooled memory.
	bb.Reset()
	_, err = bb.Write([]byte{0, 0, 0})
	require.NoError(t, err)
	require.Equal(t, []byte{9, 8, 7}, out)
}

func TestByteBufferPoolReuse(t *testing.T) {
	p := NewByteBufferPool(32, 1024)

	bb := p.Get()
	require.NotNil(t, bb)
	_, err := bb.Write(make([]byte, 16))
	require.NoError(t, err)
	p.Put(bb)

	bb2 := p.Get()
	require.NotNil(t, bb2)
	require.Equal(t, 0, bb2.Len(), "pooled buffer must come back reset")
}

func TestByteBufferPoolDiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	_, err := bb.Write(make([]byte, 256))
	require.NoError(t, err)
	p.Put(bb) // over threshold, dropped

	bb2 := p.Get()
	require.LessOrEqual(t, bb2.Cap(), 256)
	require.Equal(t, 0, bb2.Len())
}

func TestByteBufferPoolPutNil(t *testing.T) {
	p := NewByteBufferPool(16, 64)
	require.NotPanics(t, func() { p.Put(nil) })
}

func TestDefaultPayloadPool(t *testing.T) {
	bb := GetPayloadBuffer()
	require.NotNil(t, bb)
	require.GreaterOrEqual(t, bb.Cap(), PayloadBufferDefaultSize)
	PutPayloadBuffer(bb)
}
