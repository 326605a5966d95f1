package frame

import (
	"fmt"

	"github.com/framepack/framepack/errs"
)

// Block is one homogeneous slab of frame data: values plus the ordered
// column positions it fills. Values is a two-dimensional *Array with shape
// (len(Placement), nrows), or a single-column *Categorical or
// *DatetimeArray.
//
// Placement is positional, not name-keyed, which is what makes duplicate
// column labels safe.
type Block struct {
	Values    any
	Placement []int
}

// Dtype returns the block's value dtype.
func (b *Block) Dtype() Dtype {
	switch v := b.Values.(type) {
	case *Array:
		return v.Dtype
	case *Categorical:
		return Category
	case *DatetimeArray:
		return v.Dtype
	}

	return ""
}

// Shape returns the block's (columns, rows) shape.
func (b *Block) Shape() []int {
	switch v := b.Values.(type) {
	case *Array:
		return v.Shape
	case *Categorical:
		return []int{1, v.Len()}
	case *DatetimeArray:
		return []int{1, v.Len()}
	}

	return nil
}

// DataFrame is a column-block table: a columns axis, a rows axis, and a set
// of blocks whose placements partition the column range.
type DataFrame struct {
	Columns any
	Index   any
	Blocks  []*Block
}

// NewDataFrame builds a frame and validates that block placements
// partition [0, ncols) exactly, where ncols is the columns axis length.
func NewDataFrame(columns, index any, blocks []*Block) (*DataFrame, error) {
	ncols, err := Length(columns)
	if err != nil {
		return nil, err
	}
	if err := ValidatePlacements(ncols, blocks); err != nil {
		return nil, err
	}

	return &DataFrame{Columns: columns, Index: index, Blocks: blocks}, nil
}

// newDataFrameUnchecked assembles a frame without the placement partition
// check. Old-format payloads resolved by label lookup cannot guarantee the
// invariant for duplicate labels.
func newDataFrameUnchecked(columns, index any, blocks []*Block) *DataFrame {
	return &DataFrame{Columns: columns, Index: index, Blocks: blocks}
}

// ValidatePlacements checks that placements across blocks are pairwise
// disjoint and cover exactly [0, ncols).
func ValidatePlacements(ncols int, blocks []*Block) error {
	seen := make([]bool, ncols)
	total := 0
	for _, b := range blocks {
		for _, pos := range b.Placement {
			if pos < 0 || pos >= ncols {
				return fmt.Errorf("%w: position %d outside [0, %d)", errs.ErrInvalidPlacement, pos, ncols)
			}
			if seen[pos] {
				return fmt.Errorf("%w: position %d filled twice", errs.ErrInvalidPlacement, pos)
			}
			seen[pos] = true
			total++
		}
	}
	if total != ncols {
		return fmt.Errorf("%w: %d of %d positions filled", errs.ErrInvalidPlacement, total, ncols)
	}

	return nil
}

// NumCols returns the columns axis length.
func (df *DataFrame) NumCols() int {
	n, _ := Length(df.Columns)
	return n
}

// NumRows returns the rows axis length.
func (df *DataFrame) NumRows() int {
	n, _ := Length(df.Index)
	return n
}

// ColumnAt returns the values of the column at position pos: a 1-D *Array,
// or the *Categorical / *DatetimeArray for single-column blocks.
func (df *DataFrame) ColumnAt(pos int) (any, error) {
	for _, b := range df.Blocks {
		for k, p := range b.Placement {
			if p != pos {
				continue
			}
			switch v := b.Values.(type) {
			case *Array:
				row, err := v.Row(k)
				if err != nil {
					return nil, err
				}

				return row, nil
			case *Categorical, *DatetimeArray:
				return v, nil
			}

			return nil, fmt.Errorf("%w: block values %T", errs.ErrInvalidPayload, b.Values)
		}
	}

	return nil, fmt.Errorf("%w: no block fills column %d", errs.ErrInvalidPlacement, pos)
}
