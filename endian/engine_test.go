package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	result := CheckEndianness()

	switch result {
	case binary.LittleEndian, binary.BigEndian:
	default:
		t.Fatalf("CheckEndianness() returned unexpected ByteOrder: %v", result)
	}

	// Consistent across calls.
	for range 10 {
		require.Equal(t, result, CheckEndianness())
	}

	require.NotEqual(t, IsNativeLittleEndian(), IsNativeBigEndian())
}

func TestCompareNativeEndian(t *testing.T) {
	if IsNativeLittleEndian() {
		require.True(t, CompareNativeEndian(GetLittleEndianEngine()))
		require.False(t, CompareNativeEndian(GetBigEndianEngine()))
	} else {
		require.False(t, CompareNativeEndian(GetLittleEndianEngine()))
		require.True(t, CompareNativeEndian(GetBigEndianEngine()))
	}
}

func TestLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()
	require.Implements(t, (*EndianEngine)(nil), engine)

	// The wire format is little-endian: LSB first.
	buf := engine.AppendUint16(nil, 0x0102)
	require.Equal(t, []byte{0x02, 0x01}, buf)
	require.Equal(t, uint16(0x0102), engine.Uint16(buf))

	buf = engine.AppendUint64(nil, 0x0102030405060708)
	require.Equal(t, byte(0x08), buf[0])
	require.Equal(t, uint64(0x0102030405060708), engine.Uint64(buf))
}

func TestBigEndianEngine(t *testing.T) {
	engine := GetBigEndianEngine()
	require.Implements(t, (*EndianEngine)(nil), engine)

	buf := engine.AppendUint16(nil, 0x0102)
	require.Equal(t, []byte{0x01, 0x02}, buf)
	require.Equal(t, uint16(0x0102), engine.Uint16(buf))

	little := GetLittleEndianEngine().AppendUint32(nil, 0x01020304)
	big := engine.AppendUint32(nil, 0x01020304)
	require.NotEqual(t, little, big)
	require.Equal(t, engine.Uint32(big), GetLittleEndianEngine().Uint32(little))
}
