package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ZlibCompressor provides zlib compression for array payloads.
//
// zlib is the default interchange backend: its stream format is identical
// across implementations, so payloads written elsewhere decompress here and
// vice versa.
type ZlibCompressor struct{}

var _ Codec = (*ZlibCompressor)(nil)

// NewZlibCompressor creates a new zlib compressor with default settings.
func NewZlibCompressor() ZlibCompressor {
	return ZlibCompressor{}
}

// Compress compresses the input data as a zlib stream.
func (c ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a zlib stream.
func (c ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return out, nil
}
