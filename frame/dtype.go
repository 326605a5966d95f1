package frame

import (
	"fmt"
	"strings"

	"github.com/framepack/framepack/errs"
)

// Dtype names an element type using numpy-style dtype names, which is how
// dtypes appear in tagged records. Timezone-aware datetime dtypes are
// parametrized: "datetime64[ns, US/Eastern]".
type Dtype string

const (
	Int8       Dtype = "int8"
	Int16      Dtype = "int16"
	Int32      Dtype = "int32"
	Int64      Dtype = "int64"
	Uint8      Dtype = "uint8"
	Uint16     Dtype = "uint16"
	Uint32     Dtype = "uint32"
	Uint64     Dtype = "uint64"
	Float32    Dtype = "float32"
	Float64    Dtype = "float64"
	Complex64  Dtype = "complex64"
	Complex128 Dtype = "complex128"
	Bool       Dtype = "bool"
	Object     Dtype = "object"
	Datetime64 Dtype = "datetime64[ns]"
	Timedelta64 Dtype = "timedelta64[ns]"
	Category   Dtype = "category"
)

// Early format versions also wrote microsecond-resolution time dtypes.
// Storage here is nanosecond-only, so they resolve to the nanosecond base
// dtypes and their payload counts are scaled up on restore.
const (
	datetime64us  Dtype = "datetime64[us]"
	timedelta64us Dtype = "timedelta64[us]"
)

const datetimeTZPrefix = "datetime64[ns, "

// DatetimeTZ returns the parametrized dtype for a timezone-aware datetime
// with the given zone name, e.g. DatetimeTZ("US/Eastern").
func DatetimeTZ(zone string) Dtype {
	return Dtype(datetimeTZPrefix + zone + "]")
}

// IsDatetimeTZ reports whether d is a timezone-aware datetime dtype.
func (d Dtype) IsDatetimeTZ() bool {
	return strings.HasPrefix(string(d), datetimeTZPrefix) && strings.HasSuffix(string(d), "]")
}

// TZ returns the zone name of a timezone-aware datetime dtype, or "".
func (d Dtype) TZ() string {
	if !d.IsDatetimeTZ() {
		return ""
	}

	return strings.TrimSuffix(strings.TrimPrefix(string(d), datetimeTZPrefix), "]")
}

// IsLegacyMicros reports whether d is a microsecond-resolution time dtype
// written by early format versions.
func (d Dtype) IsLegacyMicros() bool {
	return d == datetime64us || d == timedelta64us
}

// Base strips dtype parameters: timezone-aware and legacy microsecond
// datetimes reduce to their nanosecond base dtype; everything else is
// returned unchanged.
func (d Dtype) Base() Dtype {
	if d.IsDatetimeTZ() {
		return Datetime64
	}

	switch d {
	case datetime64us:
		return Datetime64
	case timedelta64us:
		return Timedelta64
	}

	return d
}

// IsTimeLike reports whether values of this dtype are held as int64
// nanosecond counts and bit-cast to a fixed-width integer buffer on the
// wire.
func (d Dtype) IsTimeLike() bool {
	switch d.Base() {
	case Datetime64, Timedelta64:
		return true
	default:
		return false
	}
}

// ItemSize returns the fixed element width in bytes, or 0 for variable
// width dtypes (object, category).
func (d Dtype) ItemSize() int {
	switch d.Base() {
	case Int8, Uint8, Bool:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Complex64, Datetime64, Timedelta64:
		return 8
	case Complex128:
		return 16
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (d Dtype) String() string {
	return string(d)
}

// valid reports whether d names a supported dtype.
func (d Dtype) valid() bool {
	switch d.Base() {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64,
		Float32, Float64, Complex64, Complex128, Bool, Object,
		Datetime64, Timedelta64, Category:
		return true
	}

	return strings.HasPrefix(string(d), "period[")
}

// legacyDtypeCodes maps numeric dtype codes written by early format
// versions to their modern names. Code 7 was platform int, remapped to
// int64 for cross-platform stability.
var legacyDtypeCodes = map[int64]Dtype{
	7:  Int64,
	21: Datetime64,
	22: Timedelta64,
}

// ParseDtype resolves a recorded dtype field, which is either a name string
// or a legacy numeric code.
func ParseDtype(v any) (Dtype, error) {
	switch x := v.(type) {
	case string:
		d := Dtype(x)
		if !d.valid() {
			return "", fmt.Errorf("%w: %q", errs.ErrUnknownDtype, x)
		}

		return d, nil
	case Dtype:
		if !x.valid() {
			return "", fmt.Errorf("%w: %q", errs.ErrUnknownDtype, x)
		}

		return x, nil
	case int64, uint64, int, int8, int16, int32:
		code, _ := toInt64(x)
		if d, ok := legacyDtypeCodes[code]; ok {
			return d, nil
		}

		return "", fmt.Errorf("%w: legacy code %d", errs.ErrUnknownDtype, code)
	default:
		return "", fmt.Errorf("%w: %T", errs.ErrUnknownDtype, v)
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case uint64:
		return int64(x), true
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}

	return 0, false
}
