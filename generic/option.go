package generic

// Option holds either a value or nothing. Cache lookups return one, so "never reported" is distinct from a zero
// value.
type Option[T any] struct {
	Value    T
	hasValue bool
}

func Some[T any](value T) Option[T] {
	return Option[T]{Value: value, hasValue: true}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether there was one.
func (o Option[T]) Get() (T, bool) {
	return o.Value, o.hasValue
}

func (o Option[T]) IsSome() bool {
	return o.hasValue
}

func (o Option[T]) IsNone() bool {
	return !o.hasValue
}

// Unwrap returns the value, and panics if there is none.
func (o Option[T]) Unwrap() T {
	if !o.hasValue {
		panic("Unwrap of an empty Option")
	}
	return o.Value
}
