package frame

// BlockIndex is a sparse index encoding: runs of present values given by
// block start positions and lengths over a logical length.
type BlockIndex struct {
	Length   int
	Blocs    []int32
	Blengths []int32
}

// IntIndex is a sparse index encoding: explicit positions of present values
// over a logical length.
type IntIndex struct {
	Length  int
	Indices []int32
}

// SparseSeries is a sparse-valued series container. It has no tagged
// representation; encoding one fails with errs.ErrSparseNotImplemented.
type SparseSeries struct {
	Name      any
	Index     any
	Values    *Array
	FillValue any
	Kind      string
}

// SparseFrame is a sparse-valued frame container. It has no tagged
// representation; encoding one fails with errs.ErrSparseNotImplemented.
type SparseFrame struct {
	Columns          any
	DefaultFillValue any
	DefaultKind      string
}
