package frame

import "fmt"

// Categorical is a dictionary-encoded array: integer codes into an ordered
// set of category labels. A code of -1 marks a missing value.
type Categorical struct {
	Name       any
	Codes      *Array
	Categories any // an index variant
	Ordered    bool
}

// Len returns the number of encoded values.
func (c *Categorical) Len() int {
	if c.Codes == nil {
		return 0
	}

	return c.Codes.Len()
}

// Elems materializes the encoded values by looking codes up in the
// category labels. Missing values (code -1) come back as nil.
func (c *Categorical) Elems() ([]any, error) {
	labels, err := Labels(c.Categories)
	if err != nil {
		return nil, err
	}

	out := make([]any, c.Len())
	for i := range out {
		code, ok := toInt64(c.Codes.ElementAt(i))
		if !ok {
			return nil, fmt.Errorf("categorical codes must be integers, have %T", c.Codes.ElementAt(i))
		}
		if code < 0 {
			continue
		}
		if code >= int64(len(labels)) {
			return nil, fmt.Errorf("categorical code %d out of range for %d categories", code, len(labels))
		}
		out[i] = labels[code]
	}

	return out, nil
}
