// Package resolve implements ordered resolution: given a prioritized list of
// optional values, take the first one that is present.
//
// The pipeline uses it for license precedence during fusion, for remote config
// field aliases, and for the parameter-count fallback chain during derivation.
package resolve

// Optional is a value that may be absent.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some returns a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Or returns the value if present, otherwise fallback.
func (o Optional[T]) Or(fallback T) T {
	if o.Valid {
		return o.Value
	}
	return fallback
}

// First returns the first present candidate.
func First[T any](candidates ...Optional[T]) Optional[T] {
	for _, c := range candidates {
		if c.Valid {
			return c
		}
	}
	return None[T]()
}

// FirstPtr returns the first non-nil pointer.
func FirstPtr[T any](candidates ...*T) *T {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

// Step lazily produces a candidate. Steps after the first present value are never called.
type Step[T any] func() (Optional[T], error)

// FirstFunc evaluates steps in order and returns the first present value.
// An error from a step stops resolution and is returned.
func FirstFunc[T any](steps ...Step[T]) (Optional[T], error) {
	for _, step := range steps {
		v, err := step()
		if err != nil {
			return None[T](), err
		}
		if v.Valid {
			return v, nil
		}
	}
	return None[T](), nil
}
