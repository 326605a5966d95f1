package pack

import (
	"fmt"
	"strconv"
	"time"

	"github.com/framepack/framepack/errs"
	"github.com/framepack/framepack/frame"
	"github.com/framepack/framepack/internal/options"
)

// Encoder normalizes domain objects into tagged record trees ready for the
// wire layer. Encoders are cheap; build one per call.
type Encoder struct {
	compress string
}

// NewEncoder builds an encoder from the given options.
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg := &encoderConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{compress: cfg.compress}, nil
}

// Encode returns the tagged record tree for obj. Values with no tagged
// representation pass through unchanged for the wire layer to handle.
func (e *Encoder) Encode(obj any) (any, error) {
	return e.encodeAny(obj)
}

func (e *Encoder) encodeAny(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		[]byte:
		return x, nil
	case []any:
		return e.encodeSeq(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			nv, err := e.encodeAny(vv)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}

		return out, nil
	}

	return e.encodeObject(v)
}

func (e *Encoder) encodeSeq(in []any) (any, error) {
	out := make([]any, len(in))
	for i, v := range in {
		nv, err := e.encodeAny(v)
		if err != nil {
			return nil, err
		}
		out[i] = nv
	}

	return out, nil
}

// encodeObject dispatches on the domain type, most specific first. Sparse
// containers are refused up front so they cannot fall through to a lossy
// generic rendering.
func (e *Encoder) encodeObject(v any) (any, error) {
	switch x := v.(type) {
	case *frame.SparseSeries:
		return nil, fmt.Errorf("%w: sparse series", errs.ErrSparseNotImplemented)
	case *frame.SparseFrame:
		return nil, fmt.Errorf("%w: sparse frame", errs.ErrSparseNotImplemented)

	case *frame.RangeIndex:
		return e.encodeRangeIndex(x)
	case *frame.PeriodIndex:
		return e.encodePeriodIndex(x)
	case *frame.DatetimeIndex:
		return e.encodeDatetimeIndex(x)
	case *frame.IntervalIndex:
		return e.encodeIntervalRecord("interval_index", "IntervalIndex", x.Name, x.Left, x.Right, x.Closed)
	case *frame.IntervalArray:
		return e.encodeIntervalRecord("interval_array", "IntervalArray", nil, x.Left, x.Right, x.Closed)
	case *frame.MultiIndex:
		return e.encodeMultiIndex(x)
	case *frame.Index:
		return e.encodeIndex(x)

	case *frame.Categorical:
		return e.encodeCategorical(x, "Categorical", x.Name)
	case *frame.Series:
		return e.encodeSeries(x)
	case *frame.DataFrame:
		return e.encodeFrame(x)
	case *frame.Array:
		return e.encodeNdarray(x)
	case *frame.DatetimeArray:
		return e.encodeTZArray(x)

	case *frame.BlockIndex:
		return e.encodeBlockIndex(x)
	case *frame.IntIndex:
		return e.encodeIntIndex(x)

	case *frame.Timestamp:
		return e.encodeTimestamp(x)
	case time.Time:
		return e.encodeTimestamp(frame.NewTimestamp(x))
	case frame.NaTType:
		return map[string]any{"typ": "nat"}, nil
	case frame.Timedelta:
		return map[string]any{"typ": "timedelta64", "data": int64(x)}, nil
	case time.Duration:
		return map[string]any{"typ": "timedelta64", "data": int64(x)}, nil
	case frame.Date:
		return map[string]any{"typ": "date", "data": x.String()}, nil
	case *frame.Period:
		return map[string]any{"typ": "period", "ordinal": x.Ordinal, "freq": x.Freq}, nil
	case *frame.Interval:
		return e.encodeInterval(x)

	case *frame.Scalar:
		return encodeScalar(x)
	case complex64:
		return encodeComplex(float64(real(x)), float64(imag(x)), 32), nil
	case complex128:
		return encodeComplex(real(x), imag(x), 64), nil
	}

	// Unknown value. Leave it to the wire layer, which either has a native
	// representation for it or fails with a serialization error.
	return v, nil
}

// convertValues flattens block or series values, dispatching categoricals
// to their nested record form and normalizing boxed object elements.
func (e *Encoder) convertValues(values any) (any, error) {
	if cat, ok := values.(*frame.Categorical); ok {
		return e.encodeCategorical(cat, "Categorical", cat.Name)
	}

	out, err := convert(values, e.compress)
	if err != nil {
		return nil, err
	}
	if seq, ok := out.([]any); ok {
		return e.encodeSeq(seq)
	}

	return out, nil
}

func (e *Encoder) encodeIndex(ix *frame.Index) (any, error) {
	name, err := e.encodeAny(ix.Name)
	if err != nil {
		return nil, err
	}

	switch v := ix.Values.(type) {
	case *frame.Categorical:
		return e.encodeCategorical(v, "CategoricalIndex", ix.Name)
	case *frame.Array:
		data, err := e.convertValues(v)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"typ":      "index",
			"klass":    "Index",
			"name":     name,
			"dtype":    v.Dtype.String(),
			"data":     data,
			"compress": nilIfEmpty(e.compress),
		}, nil
	}

	return nil, fmt.Errorf("%w: index values %T", errs.ErrInvalidPayload, ix.Values)
}

func (e *Encoder) encodeRangeIndex(ix *frame.RangeIndex) (any, error) {
	name, err := e.encodeAny(ix.Name)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"typ":   "range_index",
		"klass": "RangeIndex",
		"name":  name,
		"start": ix.Start,
		"stop":  ix.Stop,
		"step":  ix.Step,
	}, nil
}

func (e *Encoder) encodeDatetimeIndex(ix *frame.DatetimeIndex) (any, error) {
	name, err := e.encodeAny(ix.Name)
	if err != nil {
		return nil, err
	}
	// Values are already UTC nanosecond counts; the zone travels separately
	// and is reapplied at decode time.
	data, err := convert(ix.Values, e.compress)
	if err != nil {
		return nil, err
	}

	dtype := frame.Datetime64
	if ix.TZ != "" {
		dtype = frame.DatetimeTZ(ix.TZ)
	}

	return map[string]any{
		"typ":      "datetime_index",
		"klass":    "DatetimeIndex",
		"name":     name,
		"dtype":    dtype.String(),
		"data":     data,
		"freq":     nilIfEmpty(ix.Freq),
		"tz":       nilIfEmpty(ix.TZ),
		"compress": nilIfEmpty(e.compress),
	}, nil
}

func (e *Encoder) encodePeriodIndex(ix *frame.PeriodIndex) (any, error) {
	name, err := e.encodeAny(ix.Name)
	if err != nil {
		return nil, err
	}
	data, err := convert(ix.Ordinals, e.compress)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"typ":      "period_index",
		"klass":    "PeriodIndex",
		"name":     name,
		"freq":     nilIfEmpty(ix.Freq),
		"dtype":    frame.Int64.String(),
		"data":     data,
		"compress": nilIfEmpty(e.compress),
	}, nil
}

func (e *Encoder) encodeMultiIndex(ix *frame.MultiIndex) (any, error) {
	names, err := e.encodeSeq(ix.Names)
	if err != nil {
		return nil, err
	}

	tuples := make([]any, len(ix.Tuples))
	for i, tup := range ix.Tuples {
		nt, err := e.encodeSeq(tup)
		if err != nil {
			return nil, err
		}
		tuples[i] = nt
	}

	return map[string]any{
		"typ":      "multi_index",
		"klass":    "MultiIndex",
		"names":    names,
		"dtype":    frame.Object.String(),
		"data":     tuples,
		"compress": nilIfEmpty(e.compress),
	}, nil
}

func (e *Encoder) encodeIntervalRecord(typ, klass string, name any, left, right *frame.Array, closed string) (any, error) {
	encName, err := e.encodeAny(name)
	if err != nil {
		return nil, err
	}
	encLeft, err := e.encodeAny(left)
	if err != nil {
		return nil, err
	}
	encRight, err := e.encodeAny(right)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"typ":    typ,
		"klass":  klass,
		"name":   encName,
		"left":   encLeft,
		"right":  encRight,
		"closed": closed,
	}, nil
}

func (e *Encoder) encodeCategorical(c *frame.Categorical, klass string, name any) (any, error) {
	encName, err := e.encodeAny(name)
	if err != nil {
		return nil, err
	}
	codes, err := e.encodeAny(c.Codes)
	if err != nil {
		return nil, err
	}
	categories, err := e.encodeAny(c.Categories)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"typ":        "category",
		"klass":      klass,
		"name":       encName,
		"codes":      codes,
		"categories": categories,
		"ordered":    c.Ordered,
		"compress":   nilIfEmpty(e.compress),
	}, nil
}

func (e *Encoder) encodeSeries(s *frame.Series) (any, error) {
	name, err := e.encodeAny(s.Name)
	if err != nil {
		return nil, err
	}
	index, err := e.encodeAny(s.Index)
	if err != nil {
		return nil, err
	}
	data, err := e.convertValues(s.Values)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"typ":      "series",
		"klass":    "Series",
		"name":     name,
		"index":    index,
		"dtype":    s.Dtype().String(),
		"data":     data,
		"compress": nilIfEmpty(e.compress),
	}, nil
}

func (e *Encoder) encodeFrame(df *frame.DataFrame) (any, error) {
	columns, err := e.encodeAny(df.Columns)
	if err != nil {
		return nil, err
	}
	index, err := e.encodeAny(df.Index)
	if err != nil {
		return nil, err
	}

	blocks := make([]any, len(df.Blocks))
	for i, b := range df.Blocks {
		locs := make([]int64, len(b.Placement))
		for k, pos := range b.Placement {
			locs[k] = int64(pos)
		}
		encLocs, err := convert(locs, e.compress)
		if err != nil {
			return nil, err
		}
		values, err := e.convertValues(b.Values)
		if err != nil {
			return nil, err
		}

		dims := b.Shape()
		shape := make([]any, len(dims))
		for k, d := range dims {
			shape[k] = int64(d)
		}

		dtype := b.Dtype()
		blocks[i] = map[string]any{
			"locs":     encLocs,
			"values":   values,
			"shape":    shape,
			"dtype":    dtype.String(),
			"klass":    blockClass(dtype),
			"compress": nilIfEmpty(e.compress),
		}
	}

	return map[string]any{
		"typ":    "block_manager",
		"klass":  "DataFrame",
		"axes":   []any{columns, index},
		"blocks": blocks,
	}, nil
}

func (e *Encoder) encodeNdarray(a *frame.Array) (any, error) {
	data, err := e.convertValues(a.Ravel())
	if err != nil {
		return nil, err
	}

	shape := make([]any, len(a.Shape))
	for i, d := range a.Shape {
		shape[i] = int64(d)
	}

	return map[string]any{
		"typ":      "ndarray",
		"shape":    shape,
		"ndim":     int64(a.Ndim()),
		"dtype":    a.Dtype.String(),
		"data":     data,
		"compress": nilIfEmpty(e.compress),
	}, nil
}

// encodeTZArray writes a standalone timezone-aware datetime array as a
// one-dimensional ndarray record with the parametrized dtype.
func (e *Encoder) encodeTZArray(a *frame.DatetimeArray) (any, error) {
	data, err := convert(a.Values, e.compress)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"typ":      "ndarray",
		"shape":    []any{int64(a.Len())},
		"ndim":     int64(1),
		"dtype":    a.Dtype.String(),
		"data":     data,
		"compress": nilIfEmpty(e.compress),
	}, nil
}

func (e *Encoder) encodeBlockIndex(ix *frame.BlockIndex) (any, error) {
	blocs, err := frame.NewArray(frame.Int32, ix.Blocs)
	if err != nil {
		return nil, err
	}
	blengths, err := frame.NewArray(frame.Int32, ix.Blengths)
	if err != nil {
		return nil, err
	}
	encBlocs, err := e.encodeNdarray(blocs)
	if err != nil {
		return nil, err
	}
	encBlengths, err := e.encodeNdarray(blengths)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"typ":      "block_index",
		"klass":    "BlockIndex",
		"length":   int64(ix.Length),
		"blocs":    encBlocs,
		"blengths": encBlengths,
	}, nil
}

func (e *Encoder) encodeIntIndex(ix *frame.IntIndex) (any, error) {
	indices, err := frame.NewArray(frame.Int32, ix.Indices)
	if err != nil {
		return nil, err
	}
	encIndices, err := e.encodeNdarray(indices)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"typ":     "int_index",
		"klass":   "IntIndex",
		"length":  int64(ix.Length),
		"indices": encIndices,
	}, nil
}

func (e *Encoder) encodeTimestamp(ts *frame.Timestamp) (any, error) {
	return map[string]any{
		"typ":   "timestamp",
		"value": ts.Value,
		"freq":  nilIfEmpty(ts.Freq),
		"tz":    nilIfEmpty(ts.TZ),
	}, nil
}

func (e *Encoder) encodeInterval(iv *frame.Interval) (any, error) {
	left, err := e.encodeAny(iv.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.encodeAny(iv.Right)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"typ":    "interval",
		"klass":  "Interval",
		"left":   left,
		"right":  right,
		"closed": iv.Closed,
	}, nil
}

// encodeScalar writes a width-faithful numeric scalar. Real and complex
// values travel as canonical decimal strings so no precision is lost to an
// intermediate float conversion.
func encodeScalar(sc *frame.Scalar) (any, error) {
	switch x := sc.Value.(type) {
	case complex64:
		rec := encodeComplex(float64(real(x)), float64(imag(x)), 32)
		rec["typ"] = "np_scalar"
		rec["sub_typ"] = "np_complex"
		rec["dtype"] = sc.Dtype.String()

		return rec, nil
	case complex128:
		rec := encodeComplex(real(x), imag(x), 64)
		rec["typ"] = "np_scalar"
		rec["sub_typ"] = "np_complex"
		rec["dtype"] = sc.Dtype.String()

		return rec, nil
	}

	data, err := formatScalar(sc.Value)
	if err != nil {
		return nil, fmt.Errorf("scalar dtype %s: %w", sc.Dtype, err)
	}

	return map[string]any{
		"typ":   "np_scalar",
		"dtype": sc.Dtype.String(),
		"data":  data,
	}, nil
}

func encodeComplex(re, im float64, bits int) map[string]any {
	return map[string]any{
		"typ":  "np_complex",
		"real": strconv.FormatFloat(re, 'g', -1, bits),
		"imag": strconv.FormatFloat(im, 'g', -1, bits),
	}
}

func formatScalar(v any) (string, error) {
	switch x := v.(type) {
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	}

	return "", fmt.Errorf("%w: scalar value %T", errs.ErrInvalidPayload, v)
}

// blockClass names the block flavor recorded alongside each frame block.
func blockClass(dtype frame.Dtype) string {
	switch {
	case dtype == frame.Category:
		return "CategoricalBlock"
	case dtype.IsDatetimeTZ():
		return "DatetimeTZBlock"
	}

	switch dtype.Base() {
	case frame.Datetime64:
		return "DatetimeBlock"
	case frame.Timedelta64:
		return "TimeDeltaBlock"
	case frame.Object:
		return "ObjectBlock"
	case frame.Bool:
		return "BoolBlock"
	case frame.Float32, frame.Float64:
		return "FloatBlock"
	case frame.Complex64, frame.Complex128:
		return "ComplexBlock"
	default:
		return "IntBlock"
	}
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}
