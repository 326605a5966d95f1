package frame

import (
	"fmt"
	"time"

	"github.com/framepack/framepack/errs"
)

// Index is a plain labeled axis. Values is an *Array for ordinary dtypes or
// a *Categorical for category-dtype axes.
type Index struct {
	Name   any
	Values any
}

// Dtype returns the axis dtype.
func (ix *Index) Dtype() Dtype {
	switch v := ix.Values.(type) {
	case *Array:
		return v.Dtype
	case *Categorical:
		return Category
	}

	return ""
}

// Len returns the number of labels.
func (ix *Index) Len() int {
	switch v := ix.Values.(type) {
	case *Array:
		return v.Len()
	case *Categorical:
		return v.Len()
	}

	return 0
}

// RangeIndex is a memory-free integer axis defined by start/stop/step.
type RangeIndex struct {
	Name  any
	Start int64
	Stop  int64
	Step  int64
}

// Len returns the number of positions in the range.
func (ix *RangeIndex) Len() int {
	if ix.Step == 0 {
		return 0
	}
	n := (ix.Stop - ix.Start + ix.Step - 1) / ix.Step
	if ix.Step < 0 {
		n = (ix.Stop - ix.Start + ix.Step + 1) / ix.Step
	}
	if n < 0 {
		return 0
	}

	return int(n)
}

// DatetimeIndex is an instant axis. Values are UTC nanosecond counts; TZ
// carries the zone name for timezone-aware axes ("" for naive). Freq is the
// recorded frequency string ("" for none).
type DatetimeIndex struct {
	Name   any
	Values []int64
	Freq   string
	TZ     string
}

// Len returns the number of instants.
func (ix *DatetimeIndex) Len() int {
	return len(ix.Values)
}

// Times materializes the instants, localized to the index zone when one is
// set.
func (ix *DatetimeIndex) Times() ([]time.Time, error) {
	loc := time.UTC
	if ix.TZ != "" {
		var err error
		loc, err = time.LoadLocation(ix.TZ)
		if err != nil {
			return nil, err
		}
	}

	out := make([]time.Time, len(ix.Values))
	for i, ns := range ix.Values {
		out[i] = time.Unix(0, ns).In(loc)
	}

	return out, nil
}

// PeriodIndex is an axis of regular periods identified by ordinal counts
// since the epoch at the given frequency.
type PeriodIndex struct {
	Name     any
	Freq     string
	Ordinals []int64
}

// Len returns the number of periods.
func (ix *PeriodIndex) Len() int {
	return len(ix.Ordinals)
}

// MultiIndex is a hierarchical axis stored as one label tuple per row.
type MultiIndex struct {
	Names  []any
	Tuples [][]any
}

// Len returns the number of rows.
func (ix *MultiIndex) Len() int {
	return len(ix.Tuples)
}

// IntervalIndex is an axis of intervals given by parallel left/right bound
// arrays and a shared closed side ("left", "right", "both", "neither").
type IntervalIndex struct {
	Name   any
	Left   *Array
	Right  *Array
	Closed string
}

// Len returns the number of intervals.
func (ix *IntervalIndex) Len() int {
	if ix.Left == nil {
		return 0
	}

	return ix.Left.Len()
}

// IntervalArray is the array (non-axis) form of an interval container. It
// shares IntervalIndex's payload shape; only the runtime type, and hence
// the tag, differs.
type IntervalArray struct {
	Left   *Array
	Right  *Array
	Closed string
}

// Len returns the number of intervals.
func (a *IntervalArray) Len() int {
	if a.Left == nil {
		return 0
	}

	return a.Left.Len()
}

// Length returns the label count of any index variant.
func Length(index any) (int, error) {
	switch ix := index.(type) {
	case *Index:
		return ix.Len(), nil
	case *RangeIndex:
		return ix.Len(), nil
	case *DatetimeIndex:
		return ix.Len(), nil
	case *PeriodIndex:
		return ix.Len(), nil
	case *MultiIndex:
		return ix.Len(), nil
	case *IntervalIndex:
		return ix.Len(), nil
	}

	return 0, fmt.Errorf("%w: %T is not an index", errs.ErrInvalidPayload, index)
}

// Labels returns the boxed label values of an index variant, used for
// positional label lookup when old-format payloads lack explicit block
// placements.
func Labels(index any) ([]any, error) {
	switch ix := index.(type) {
	case *Index:
		switch v := ix.Values.(type) {
		case *Array:
			return v.Elems(), nil
		case *Categorical:
			return v.Elems()
		}

		return nil, fmt.Errorf("%w: index values %T", errs.ErrInvalidPayload, ix.Values)
	case *RangeIndex:
		out := make([]any, 0, ix.Len())
		for v := ix.Start; (ix.Step > 0 && v < ix.Stop) || (ix.Step < 0 && v > ix.Stop); v += ix.Step {
			out = append(out, v)
		}

		return out, nil
	case *DatetimeIndex:
		out := make([]any, len(ix.Values))
		for i, v := range ix.Values {
			out[i] = v
		}

		return out, nil
	case *PeriodIndex:
		out := make([]any, len(ix.Ordinals))
		for i, v := range ix.Ordinals {
			out[i] = v
		}

		return out, nil
	case *MultiIndex:
		out := make([]any, len(ix.Tuples))
		for i, tup := range ix.Tuples {
			out[i] = tup
		}

		return out, nil
	}

	return nil, fmt.Errorf("%w: cannot enumerate labels of %T", errs.ErrInvalidPayload, index)
}
