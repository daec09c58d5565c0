package model

// Result is either a populated value or an explicit "no data available"
// marker with the reason. Callers must check Get before using the value.
type Result[T any] struct {
	value  T
	reason string
	ok     bool
}

func Available[T any](v T) Result[T] { return Result[T]{value: v, ok: true} }

func Unavailable[T any](reason string) Result[T] { return Result[T]{reason: reason} }

func (r Result[T]) Get() (T, bool) { return r.value, r.ok }

func (r Result[T]) Available() bool { return r.ok }

// Reason is empty for available results.
func (r Result[T]) Reason() string { return r.reason }
