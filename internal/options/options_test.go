package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type codecConfig struct {
	backend string
	level   int
}

func withBackend(name string) Option[*codecConfig] {
	return New(func(c *codecConfig) error {
		if name == "" {
			return errors.New("backend name must not be empty")
		}
		c.backend = name

		return nil
	})
}

func withLevel(level int) Option[*codecConfig] {
	return NoError(func(c *codecConfig) {
		c.level = level
	})
}

func TestApplyInOrder(t *testing.T) {
	cfg := &codecConfig{}

	err := Apply(cfg, withBackend("zstd"), withLevel(3), withBackend("lz4"))
	require.NoError(t, err)
	require.Equal(t, "lz4", cfg.backend)
	require.Equal(t, 3, cfg.level)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	cfg := &codecConfig{}

	err := Apply(cfg, withLevel(5), withBackend(""), withLevel(9))
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be empty")
	require.Equal(t, 5, cfg.level, "options after the failing one must not run")
}

func TestApplyNoOptions(t *testing.T) {
	cfg := &codecConfig{}
	require.NoError(t, Apply(cfg))
	require.Equal(t, &codecConfig{}, cfg)
}
