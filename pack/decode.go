package pack

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/framepack/framepack/errs"
	"github.com/framepack/framepack/frame"
)

// Decoder restores domain objects from tagged records. Records without a
// typ field, and records with a tag the decoder does not know, pass through
// unchanged so newer-format payloads degrade instead of failing.
type Decoder struct{}

// NewDecoder builds a decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode dispatches rec on its typ field.
func (d *Decoder) Decode(rec map[string]any) (any, error) {
	typ, _ := rec["typ"].(string)

	switch typ {
	case "timestamp":
		return d.decodeTimestamp(rec)
	case "nat":
		return frame.NaT, nil
	case "period":
		return d.decodePeriod(rec)
	case "index":
		return d.decodeIndex(rec)
	case "range_index":
		return d.decodeRangeIndex(rec)
	case "multi_index":
		return d.decodeMultiIndex(rec)
	case "datetime_index":
		return d.decodeDatetimeIndex(rec)
	case "period_index":
		return d.decodePeriodIndex(rec)
	case "interval_index", "interval_array":
		return d.decodeIntervalContainer(rec, typ)
	case "category":
		return d.decodeCategory(rec)
	case "interval":
		return d.decodeInterval(rec)
	case "series":
		return d.decodeSeries(rec)
	case "block_manager":
		return d.decodeBlockManager(rec)
	case "datetime", "datetime64":
		return d.decodeDatetimeString(rec)
	case "date":
		return d.decodeDate(rec)
	case "timedelta":
		return d.decodeTimedelta(rec)
	case "timedelta64":
		return d.decodeTimedelta64(rec)
	case "block_index":
		return d.decodeBlockIndexRecord(rec)
	case "int_index":
		return d.decodeIntIndexRecord(rec)
	case "ndarray":
		return d.decodeNdarray(rec)
	case "np_scalar":
		return d.decodeNpScalar(rec)
	case "np_complex":
		return d.decodeNpComplex(rec)
	}

	return rec, nil
}

func (d *Decoder) decodeTimestamp(rec map[string]any) (any, error) {
	value, err := asI64(rec["value"])
	if err != nil {
		return nil, fmt.Errorf("timestamp value: %w", err)
	}

	// Records written before the freq field was renamed carry it as offset.
	var freq string
	if v, ok := rec["freq"]; ok {
		freq = asString(v)
	} else {
		freq = asString(rec["offset"])
	}

	return &frame.Timestamp{Value: value, Freq: freq, TZ: asString(rec["tz"])}, nil
}

func (d *Decoder) decodePeriod(rec map[string]any) (any, error) {
	ordinal, err := asI64(rec["ordinal"])
	if err != nil {
		return nil, fmt.Errorf("period ordinal: %w", err)
	}

	return &frame.Period{Ordinal: ordinal, Freq: asString(rec["freq"])}, nil
}

func (d *Decoder) decodeIndex(rec map[string]any) (any, error) {
	dtype, err := frame.ParseDtype(rec["dtype"])
	if err != nil {
		return nil, err
	}
	values, err := unconvert(rec["data"], dtype, asString(rec["compress"]))
	if err != nil {
		return nil, err
	}
	if arr, ok := values.(*frame.Array); ok && dtype.IsDatetimeTZ() {
		values = frame.NewDatetimeArray(dtype.TZ(), arr.Int64s())
	}

	return &frame.Index{Name: rec["name"], Values: values}, nil
}

func (d *Decoder) decodeRangeIndex(rec map[string]any) (any, error) {
	start, err := asI64(rec["start"])
	if err != nil {
		return nil, fmt.Errorf("range start: %w", err)
	}
	stop, err := asI64(rec["stop"])
	if err != nil {
		return nil, fmt.Errorf("range stop: %w", err)
	}
	step, err := asI64(rec["step"])
	if err != nil {
		return nil, fmt.Errorf("range step: %w", err)
	}

	return &frame.RangeIndex{Name: rec["name"], Start: start, Stop: stop, Step: step}, nil
}

func (d *Decoder) decodeMultiIndex(rec map[string]any) (any, error) {
	values, err := unconvert(rec["data"], frame.Object, asString(rec["compress"]))
	if err != nil {
		return nil, err
	}
	arr, ok := values.(*frame.Array)
	if !ok {
		return nil, fmt.Errorf("%w: multi index data %T", errs.ErrInvalidPayload, values)
	}

	tuples := make([][]any, arr.Len())
	for i, elem := range arr.Elems() {
		if tup, ok := elem.([]any); ok {
			tuples[i] = tup
			continue
		}
		tuples[i] = []any{elem}
	}

	names, _ := rec["names"].([]any)

	return &frame.MultiIndex{Names: names, Tuples: tuples}, nil
}

func (d *Decoder) decodeDatetimeIndex(rec map[string]any) (any, error) {
	dtype, err := frame.ParseDtype(rec["dtype"])
	if err != nil {
		return nil, err
	}
	values, err := unconvert(rec["data"], dtype, asString(rec["compress"]))
	if err != nil {
		return nil, err
	}
	arr, ok := values.(*frame.Array)
	if !ok {
		return nil, fmt.Errorf("%w: datetime index data %T", errs.ErrInvalidPayload, values)
	}

	tz := asString(rec["tz"])
	if tz == "" {
		tz = dtype.TZ()
	}

	return &frame.DatetimeIndex{
		Name:   rec["name"],
		Values: arr.Int64s(),
		Freq:   asString(rec["freq"]),
		TZ:     tz,
	}, nil
}

func (d *Decoder) decodePeriodIndex(rec map[string]any) (any, error) {
	dtype, err := frame.ParseDtype(rec["dtype"])
	if err != nil {
		return nil, err
	}
	values, err := unconvert(rec["data"], dtype, asString(rec["compress"]))
	if err != nil {
		return nil, err
	}
	arr, ok := values.(*frame.Array)
	if !ok {
		return nil, fmt.Errorf("%w: period index data %T", errs.ErrInvalidPayload, values)
	}

	return &frame.PeriodIndex{
		Name:     rec["name"],
		Freq:     asString(rec["freq"]),
		Ordinals: arr.Int64s(),
	}, nil
}

func (d *Decoder) decodeIntervalContainer(rec map[string]any, typ string) (any, error) {
	left, err := boundArray(rec["left"])
	if err != nil {
		return nil, fmt.Errorf("interval left bounds: %w", err)
	}
	right, err := boundArray(rec["right"])
	if err != nil {
		return nil, fmt.Errorf("interval right bounds: %w", err)
	}
	closed := asString(rec["closed"])

	klass := asString(rec["klass"])
	if klass == "" {
		if typ == "interval_array" {
			klass = "IntervalArray"
		} else {
			klass = "IntervalIndex"
		}
	}

	switch klass {
	case "IntervalIndex":
		return &frame.IntervalIndex{Name: rec["name"], Left: left, Right: right, Closed: closed}, nil
	case "IntervalArray":
		return &frame.IntervalArray{Left: left, Right: right, Closed: closed}, nil
	}

	return nil, fmt.Errorf("%w: interval container %q", errs.ErrUnknownClass, klass)
}

func (d *Decoder) decodeCategory(rec map[string]any) (any, error) {
	codes, err := boundArray(rec["codes"])
	if err != nil {
		return nil, fmt.Errorf("category codes: %w", err)
	}

	categories := rec["categories"]
	if arr, ok := categories.(*frame.Array); ok {
		categories = &frame.Index{Values: arr}
	}

	cat := &frame.Categorical{
		Name:       rec["name"],
		Codes:      codes,
		Categories: categories,
		Ordered:    asBool(rec["ordered"]),
	}

	switch asString(rec["klass"]) {
	case "", "Categorical":
		return cat, nil
	case "CategoricalIndex":
		return &frame.Index{Name: rec["name"], Values: cat}, nil
	}

	return nil, fmt.Errorf("%w: categorical %q", errs.ErrUnknownClass, asString(rec["klass"]))
}

func (d *Decoder) decodeInterval(rec map[string]any) (any, error) {
	return &frame.Interval{
		Left:   rec["left"],
		Right:  rec["right"],
		Closed: asString(rec["closed"]),
	}, nil
}

func (d *Decoder) decodeSeries(rec map[string]any) (any, error) {
	dtype, err := frame.ParseDtype(rec["dtype"])
	if err != nil {
		return nil, err
	}
	values, err := unconvert(rec["data"], dtype, asString(rec["compress"]))
	if err != nil {
		return nil, err
	}
	if arr, ok := values.(*frame.Array); ok && dtype.IsDatetimeTZ() {
		values = frame.NewDatetimeArray(dtype.TZ(), arr.Int64s())
	}

	return &frame.Series{Name: rec["name"], Index: rec["index"], Values: values}, nil
}

func (d *Decoder) decodeBlockManager(rec map[string]any) (any, error) {
	klass := asString(rec["klass"])
	if klass == "" {
		klass = "DataFrame"
	}
	builder, err := frame.FrameClass(klass)
	if err != nil {
		return nil, err
	}

	axes, ok := rec["axes"].([]any)
	if !ok || len(axes) < 2 {
		return nil, fmt.Errorf("%w: block manager needs a columns and a rows axis", errs.ErrInvalidPayload)
	}
	columns, index := axes[0], axes[1]

	rawBlocks, ok := rec["blocks"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: block manager blocks %T", errs.ErrInvalidPayload, rec["blocks"])
	}

	strict := true
	blocks := make([]*frame.Block, 0, len(rawBlocks))
	for _, rawBlock := range rawBlocks {
		b, ok := rawBlock.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: block %T", errs.ErrInvalidPayload, rawBlock)
		}

		values, err := d.decodeBlockValues(b)
		if err != nil {
			return nil, err
		}

		placement, labelBased, err := d.decodeBlockPlacement(b, columns)
		if err != nil {
			return nil, err
		}
		if labelBased {
			// Label lookup takes the first match per label, so payloads with
			// duplicate column labels cannot be validated as a partition.
			strict = false
		}

		blocks = append(blocks, &frame.Block{Values: values, Placement: placement})
	}

	return builder(columns, index, blocks, strict)
}

func (d *Decoder) decodeBlockValues(b map[string]any) (any, error) {
	dtype, err := frame.ParseDtype(b["dtype"])
	if err != nil {
		return nil, err
	}
	values, err := unconvert(b["values"], dtype, asString(b["compress"]))
	if err != nil {
		return nil, err
	}

	arr, ok := values.(*frame.Array)
	if !ok {
		// Category blocks carry their values as an already-decoded nested
		// record, not a byte payload.
		return values, nil
	}
	if dtype.IsDatetimeTZ() {
		return frame.NewDatetimeArray(dtype.TZ(), arr.Int64s()), nil
	}

	if shape, err := intSlice(b["shape"]); err == nil && len(shape) > 0 {
		shaped, err := arr.Reshape(shape)
		if err != nil {
			return nil, err
		}

		return shaped, nil
	}

	return arr, nil
}

// decodeBlockPlacement resolves a block's column positions: from the
// explicit locs payload when present, otherwise by looking up the block's
// recorded item labels in the columns axis, first match per label.
func (d *Decoder) decodeBlockPlacement(b map[string]any, columns any) ([]int, bool, error) {
	if rawLocs, ok := b["locs"]; ok {
		values, err := unconvert(rawLocs, frame.Int64, asString(b["compress"]))
		if err != nil {
			return nil, false, fmt.Errorf("block locs: %w", err)
		}
		placement, err := intSlice(values)
		if err != nil {
			return nil, false, fmt.Errorf("block locs: %w", err)
		}

		return placement, false, nil
	}

	items, err := frame.Labels(b["items"])
	if err != nil {
		return nil, false, fmt.Errorf("block items: %w", err)
	}
	axis, err := frame.Labels(columns)
	if err != nil {
		return nil, false, fmt.Errorf("columns axis: %w", err)
	}

	placement := make([]int, len(items))
	for i, label := range items {
		pos := -1
		for k, candidate := range axis {
			if reflect.DeepEqual(label, candidate) {
				pos = k
				break
			}
		}
		if pos < 0 {
			return nil, false, fmt.Errorf("%w: item label %v not in columns axis", errs.ErrInvalidPlacement, label)
		}
		placement[i] = pos
	}

	return placement, true, nil
}

func (d *Decoder) decodeDatetimeString(rec map[string]any) (any, error) {
	s := asString(rec["data"])
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return &frame.Timestamp{Value: t.UnixNano()}, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", errs.ErrUnknownDatetimeLike, s)
}

func (d *Decoder) decodeDate(rec map[string]any) (any, error) {
	t, err := time.Parse("2006-01-02", asString(rec["data"]))
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", errs.ErrInvalidPayload, asString(rec["data"]))
	}

	return frame.DateOf(t), nil
}

// decodeTimedelta handles the three-part (days, seconds, microseconds)
// duration form written by early format versions.
func (d *Decoder) decodeTimedelta(rec map[string]any) (any, error) {
	parts, ok := rec["data"].([]any)
	if !ok || len(parts) != 3 {
		return nil, fmt.Errorf("%w: timedelta needs (days, seconds, microseconds)", errs.ErrInvalidPayload)
	}

	days, err := asI64(parts[0])
	if err != nil {
		return nil, fmt.Errorf("timedelta days: %w", err)
	}
	seconds, err := asI64(parts[1])
	if err != nil {
		return nil, fmt.Errorf("timedelta seconds: %w", err)
	}
	micros, err := asI64(parts[2])
	if err != nil {
		return nil, fmt.Errorf("timedelta microseconds: %w", err)
	}

	const nanosPerDay = 24 * 60 * 60 * 1e9

	return frame.Timedelta(days*nanosPerDay + seconds*1e9 + micros*1e3), nil
}

func (d *Decoder) decodeTimedelta64(rec map[string]any) (any, error) {
	ns, err := asI64(rec["data"])
	if err != nil {
		return nil, fmt.Errorf("timedelta64: %w", err)
	}

	return frame.Timedelta(ns), nil
}

func (d *Decoder) decodeBlockIndexRecord(rec map[string]any) (any, error) {
	length, err := asI64(rec["length"])
	if err != nil {
		return nil, fmt.Errorf("block index length: %w", err)
	}
	blocs, err := int32Slice(rec["blocs"])
	if err != nil {
		return nil, fmt.Errorf("block index blocs: %w", err)
	}
	blengths, err := int32Slice(rec["blengths"])
	if err != nil {
		return nil, fmt.Errorf("block index blengths: %w", err)
	}

	return &frame.BlockIndex{Length: int(length), Blocs: blocs, Blengths: blengths}, nil
}

func (d *Decoder) decodeIntIndexRecord(rec map[string]any) (any, error) {
	length, err := asI64(rec["length"])
	if err != nil {
		return nil, fmt.Errorf("int index length: %w", err)
	}
	indices, err := int32Slice(rec["indices"])
	if err != nil {
		return nil, fmt.Errorf("int index indices: %w", err)
	}

	return &frame.IntIndex{Length: int(length), Indices: indices}, nil
}

func (d *Decoder) decodeNdarray(rec map[string]any) (any, error) {
	dtype, err := frame.ParseDtype(rec["dtype"])
	if err != nil {
		return nil, err
	}
	values, err := unconvert(rec["data"], dtype, asString(rec["compress"]))
	if err != nil {
		return nil, err
	}

	arr, ok := values.(*frame.Array)
	if !ok {
		return values, nil
	}
	if dtype.IsDatetimeTZ() {
		return frame.NewDatetimeArray(dtype.TZ(), arr.Int64s()), nil
	}

	if shape, err := intSlice(rec["shape"]); err == nil && len(shape) > 0 {
		shaped, err := arr.Reshape(shape)
		if err != nil {
			return nil, err
		}

		return shaped, nil
	}

	return arr, nil
}

func (d *Decoder) decodeNpScalar(rec map[string]any) (any, error) {
	dtype, err := frame.ParseDtype(rec["dtype"])
	if err != nil {
		return nil, err
	}

	if asString(rec["sub_typ"]) == "np_complex" {
		re, err := strconv.ParseFloat(asString(rec["real"]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: complex real part %q", errs.ErrInvalidPayload, asString(rec["real"]))
		}
		im, err := strconv.ParseFloat(asString(rec["imag"]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: complex imaginary part %q", errs.ErrInvalidPayload, asString(rec["imag"]))
		}

		if dtype.Base() == frame.Complex64 {
			return &frame.Scalar{Dtype: dtype, Value: complex64(complex(re, im))}, nil
		}

		return &frame.Scalar{Dtype: dtype, Value: complex(re, im)}, nil
	}

	value, err := parseScalar(dtype, asString(rec["data"]))
	if err != nil {
		return nil, err
	}

	return &frame.Scalar{Dtype: dtype, Value: value}, nil
}

func (d *Decoder) decodeNpComplex(rec map[string]any) (any, error) {
	re, err := strconv.ParseFloat(asString(rec["real"]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: complex real part %q", errs.ErrInvalidPayload, asString(rec["real"]))
	}
	im, err := strconv.ParseFloat(asString(rec["imag"]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: complex imaginary part %q", errs.ErrInvalidPayload, asString(rec["imag"]))
	}

	return complex(re, im), nil
}

func parseScalar(dtype frame.Dtype, s string) (any, error) {
	switch dtype.Base() {
	case frame.Int8:
		v, err := strconv.ParseInt(s, 10, 8)
		return int8(v), wrapParseErr(dtype, s, err)
	case frame.Int16:
		v, err := strconv.ParseInt(s, 10, 16)
		return int16(v), wrapParseErr(dtype, s, err)
	case frame.Int32:
		v, err := strconv.ParseInt(s, 10, 32)
		return int32(v), wrapParseErr(dtype, s, err)
	case frame.Int64, frame.Datetime64, frame.Timedelta64:
		v, err := strconv.ParseInt(s, 10, 64)
		return v, wrapParseErr(dtype, s, err)
	case frame.Uint8:
		v, err := strconv.ParseUint(s, 10, 8)
		return uint8(v), wrapParseErr(dtype, s, err)
	case frame.Uint16:
		v, err := strconv.ParseUint(s, 10, 16)
		return uint16(v), wrapParseErr(dtype, s, err)
	case frame.Uint32:
		v, err := strconv.ParseUint(s, 10, 32)
		return uint32(v), wrapParseErr(dtype, s, err)
	case frame.Uint64:
		v, err := strconv.ParseUint(s, 10, 64)
		return v, wrapParseErr(dtype, s, err)
	case frame.Float32:
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), wrapParseErr(dtype, s, err)
	case frame.Float64:
		v, err := strconv.ParseFloat(s, 64)
		return v, wrapParseErr(dtype, s, err)
	case frame.Bool:
		v, err := strconv.ParseBool(s)
		return v, wrapParseErr(dtype, s, err)
	}

	return nil, fmt.Errorf("%w: scalar dtype %s", errs.ErrUnknownDtype, dtype)
}

func wrapParseErr(dtype frame.Dtype, s string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %s scalar %q", errs.ErrInvalidPayload, dtype, s)
}

// boundArray extracts the typed array from values that arrive either as a
// bare array record or wrapped in an axis record.
func boundArray(v any) (*frame.Array, error) {
	switch x := v.(type) {
	case *frame.Array:
		return x, nil
	case *frame.Index:
		if arr, ok := x.Values.(*frame.Array); ok {
			return arr, nil
		}
	case *frame.DatetimeIndex:
		return frame.NewArray(frame.Datetime64, x.Values)
	}

	return nil, fmt.Errorf("%w: expected an array, have %T", errs.ErrInvalidPayload, v)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asI64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case uint64:
		return int64(x), nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case float32:
		return int64(x), nil
	}

	return 0, fmt.Errorf("%w: %T is not an integer", errs.ErrInvalidPayload, v)
}

func intSlice(v any) ([]int, error) {
	switch x := v.(type) {
	case []any:
		out := make([]int, len(x))
		for i, elem := range x {
			n, err := asI64(elem)
			if err != nil {
				return nil, err
			}
			out[i] = int(n)
		}

		return out, nil
	case *frame.Array:
		out := make([]int, x.Len())
		for i := range out {
			n, err := asI64(x.ElementAt(i))
			if err != nil {
				return nil, err
			}
			out[i] = int(n)
		}

		return out, nil
	}

	return nil, fmt.Errorf("%w: %T is not an integer sequence", errs.ErrInvalidPayload, v)
}

func int32Slice(v any) ([]int32, error) {
	if arr, ok := v.(*frame.Array); ok {
		if data, ok := arr.Data.([]int32); ok {
			out := make([]int32, len(data))
			copy(out, data)

			return out, nil
		}
	}

	ints, err := intSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]int32, len(ints))
	for i, n := range ints {
		out[i] = int32(n)
	}

	return out, nil
}
