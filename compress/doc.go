// Package compress provides the pluggable compression backends used for
// array payloads.
//
// Backends are selected by the name recorded in a tagged record's compress
// field, so a reader never depends on writer-side state. The built-in set
// is zlib, zstd, lz4 and s2; blosc is a recognized name with no built-in
// implementation and must be supplied via Register.
//
// All backends return freshly owned buffers from Decompress, so callers
// may retain and mutate the result.
package compress
