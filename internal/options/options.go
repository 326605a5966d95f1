// Package options implements the generic functional option pattern shared
// by the configurable entry points.
package options

// Option configures a target of type T and may fail validation eagerly, at
// option-apply time rather than first use.
type Option[T any] interface {
	apply(T) error
}

// Func adapts a plain function into an Option.
type Func[T any] struct {
	fn func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.fn(target)
}

// New wraps a fallible configuration function.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{fn: fn}
}

// NoError wraps a configuration function that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{fn: func(target T) error {
		fn(target)
		return nil
	}}
}

// Apply runs opts against target in order, stopping at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
