package pack

import (
	"github.com/framepack/framepack/compress"
	"github.com/framepack/framepack/internal/options"
)

type encoderConfig struct {
	compress string
}

// Option configures an Encoder or a Pack/Marshal call.
type Option = options.Option[*encoderConfig]

// WithCompression selects the compression backend applied to raw array
// payloads, by name ("zlib", "zstd", "lz4", "s2", or a name installed via
// compress.Register). The empty string disables compression.
//
// The setting is per call, never shared state, so concurrent encodes with
// different settings cannot observe each other.
func WithCompression(name string) Option {
	return options.New(func(cfg *encoderConfig) error {
		if name == "" {
			cfg.compress = ""
			return nil
		}
		if _, err := compress.Lookup(name); err != nil {
			return err
		}
		cfg.compress = name

		return nil
	})
}
