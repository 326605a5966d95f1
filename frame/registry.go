package frame

import (
	"fmt"
	"sync"

	"github.com/framepack/framepack/errs"
)

// FrameBuilder assembles a table variant from decoded blocks and axes. The
// strict flag requests placement partition validation; decoders disable it
// for old-format payloads whose placements were resolved by label lookup.
type FrameBuilder func(columns, index any, blocks []*Block, strict bool) (any, error)

var (
	frameClassesMu sync.RWMutex
	frameClasses   = map[string]FrameBuilder{}
)

func init() {
	RegisterFrameClass("DataFrame", func(columns, index any, blocks []*Block, strict bool) (any, error) {
		if strict {
			df, err := NewDataFrame(columns, index, blocks)
			if err != nil {
				return nil, err
			}

			return df, nil
		}

		return newDataFrameUnchecked(columns, index, blocks), nil
	})
}

// RegisterFrameClass installs a constructor for a recorded table class key.
func RegisterFrameClass(key string, builder FrameBuilder) {
	frameClassesMu.Lock()
	defer frameClassesMu.Unlock()

	frameClasses[key] = builder
}

// FrameClass returns the constructor registered for key.
func FrameClass(key string) (FrameBuilder, error) {
	frameClassesMu.RLock()
	defer frameClassesMu.RUnlock()

	builder, ok := frameClasses[key]
	if !ok {
		return nil, fmt.Errorf("%w: table class %q", errs.ErrUnknownClass, key)
	}

	return builder, nil
}
