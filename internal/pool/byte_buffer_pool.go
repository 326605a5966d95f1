package pool

import (
	"io"
	"sync"
)

// PayloadBufferDefaultSize is the default capacity of buffers obtained from
// the payload pool; PayloadBufferMaxThreshold caps what the pool retains.
const (
	PayloadBufferDefaultSize  = 1024 * 16  // 16KiB
	PayloadBufferMaxThreshold = 1024 * 128 // 128KiB
)

// ByteBuffer is a growable byte slice used as scratch space while
// flattening or decompressing array payloads.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// CopyOut returns a freshly allocated copy of the buffer contents.
//
// Used when payload bytes must outlive the pooled buffer.
func (bb *ByteBuffer) CopyOut() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally. Buffers larger than the configured
// threshold are discarded on Put to avoid retaining oversized scratch
// space after one large payload.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default capacity.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		// Discard overly large buffers to prevent memory bloat
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var payloadDefaultPool = NewByteBufferPool(PayloadBufferDefaultSize, PayloadBufferMaxThreshold)

// GetPayloadBuffer retrieves a ByteBuffer from the default payload pool.
func GetPayloadBuffer() *ByteBuffer {
	return payloadDefaultPool.Get()
}

// PutPayloadBuffer returns a ByteBuffer to the default payload pool.
func PutPayloadBuffer(bb *ByteBuffer) {
	payloadDefaultPool.Put(bb)
}
