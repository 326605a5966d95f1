// Package endian provides byte order utilities for flattening typed arrays
// to raw byte buffers and back.
//
// It combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single EndianEngine interface so array flattening
// can both read fixed-width values and append them without scratch slices.
//
// The wire format stores array payloads little-endian regardless of host
// byte order, so most callers should use GetLittleEndianEngine.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it, keeping the
// engine fully compatible with standard library code.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine used by the wire format.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
