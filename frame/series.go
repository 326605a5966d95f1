package frame

// Series is a labeled one-dimensional array: a name, an index variant, and
// values. Values is an *Array for ordinary dtypes, a *Categorical for
// category dtype, or a *DatetimeArray for timezone-aware datetimes.
type Series struct {
	Name   any
	Index  any
	Values any
}

// Dtype returns the value dtype.
func (s *Series) Dtype() Dtype {
	switch v := s.Values.(type) {
	case *Array:
		return v.Dtype
	case *Categorical:
		return Category
	case *DatetimeArray:
		return v.Dtype
	}

	return ""
}

// Len returns the number of values.
func (s *Series) Len() int {
	switch v := s.Values.(type) {
	case *Array:
		return v.Len()
	case *Categorical:
		return v.Len()
	case *DatetimeArray:
		return v.Len()
	}

	return 0
}
