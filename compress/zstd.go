package compress

// ZstdCompressor provides Zstandard compression for array payloads.
//
// Zstd favors compression ratio over raw speed, which suits persisted
// frames that are written once and read back rarely.
//
// The implementation is selected at build time: the default build uses the
// pure-Go klauspost/compress/zstd backend; building with the cgozstd tag
// switches to the cgo valyala/gozstd backend.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
