package compress

import (
	"fmt"
	"sort"
	"sync"

	"github.com/framepack/framepack/errs"
)

// Compressor compresses a complete array payload.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
//   - Internal buffers may be reused for efficiency
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload previously produced by the matching
// Compressor.
//
// Implementations validate the data format and return an error if the data
// is corrupted or uses an incompatible format. The returned slice is newly
// allocated and owned by the caller; it never aliases internal state.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// Backend names as they appear in the compress field of tagged records.
const (
	Zlib  = "zlib"
	Zstd  = "zstd"
	LZ4   = "lz4"
	S2    = "s2"
	Blosc = "blosc"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Codec{
		Zlib: NewZlibCompressor(),
		Zstd: NewZstdCompressor(),
		LZ4:  NewLZ4Compressor(),
		S2:   NewS2Compressor(),
	}

	// recognized names a payload may legitimately carry even when no
	// implementation is compiled in.
	recognized = map[string]bool{
		Blosc: true,
		LZ4:   true,
		S2:    true,
		Zlib:  true,
		Zstd:  true,
	}
)

// Register installs or replaces the backend for name. It allows supplying
// implementations for recognized-but-unavailable names such as blosc.
func Register(name string, codec Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry[name] = codec
	recognized[name] = true
}

// Lookup returns the backend for the given name.
//
// A recognized name without an implementation yields
// errs.ErrCompressionUnavailable; an unknown name yields
// errs.ErrUnsupportedCompression listing the valid choices.
func Lookup(name string) (Codec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if codec, ok := registry[name]; ok {
		return codec, nil
	}

	if recognized[name] {
		return nil, fmt.Errorf("%w: %q requires a registered backend (see compress.Register)",
			errs.ErrCompressionUnavailable, name)
	}

	return nil, fmt.Errorf("%w: %q, compress must be one of %v",
		errs.ErrUnsupportedCompression, name, knownNamesLocked())
}

// Names returns the sorted set of names Lookup recognizes.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	return knownNamesLocked()
}

func knownNamesLocked() []string {
	names := make([]string, 0, len(recognized))
	for name := range recognized {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
