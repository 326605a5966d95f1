package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/framepack/framepack/errs"
)

func testPayload() []byte {
	// Repetitive fixed-width data, similar to a flattened int64 column.
	payload := make([]byte, 0, 8*256)
	for i := range 256 {
		payload = append(payload, byte(i), 0, 0, 0, 0, 0, 0, 0)
	}

	return payload
}

func TestBuiltinCodecsRoundTrip(t *testing.T) {
	payload := testPayload()

	for _, name := range []string{Zlib, Zstd, LZ4, S2} {
		t.Run(name, func(t *testing.T) {
			codec, err := Lookup(name)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)
			require.NotEmpty(t, compressed)
			require.Less(t, len(compressed), len(payload), "payload should shrink")

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, restored)
		})
	}
}

func TestDecompressEmptyInput(t *testing.T) {
	for _, name := range []string{Zlib, Zstd, LZ4, S2} {
		t.Run(name, func(t *testing.T) {
			codec, err := Lookup(name)
			require.NoError(t, err)

			out, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Empty(t, out)
		})
	}
}

func TestDecompressCorruptedInput(t *testing.T) {
	garbage := bytes.Repeat([]byte{0xde, 0xad}, 32)

	for _, name := range []string{Zlib, Zstd} {
		t.Run(name, func(t *testing.T) {
			codec, err := Lookup(name)
			require.NoError(t, err)

			_, err = codec.Decompress(garbage)
			require.Error(t, err)
		})
	}
}

func TestLookupUnknownName(t *testing.T) {
	_, err := Lookup("brotli")
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	require.Contains(t, err.Error(), "zlib", "error should enumerate the valid choices")
}

func TestLookupBloscUnavailable(t *testing.T) {
	_, err := Lookup(Blosc)
	require.ErrorIs(t, err, errs.ErrCompressionUnavailable)
	require.Contains(t, err.Error(), "blosc")
}

type reverseCodec struct{}

func (reverseCodec) Compress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	for i, b := range data {
		out[len(data)-1-i] = b
	}

	return out, nil
}

func (reverseCodec) Decompress(data []byte) ([]byte, error) {
	return reverseCodec{}.Compress(data)
}

func TestRegisterCustomBackend(t *testing.T) {
	Register("reverse", reverseCodec{})

	codec, err := Lookup("reverse")
	require.NoError(t, err)

	payload := []byte{1, 2, 3}
	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	restored, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, restored)

	require.Contains(t, Names(), "reverse")
}
