// Package store provides observable value containers that notify their
// subscribers on change, and derived containers computed from them.
package store

import "github.com/AnatoleLucet/store/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Store is anything that can be subscribed to.
// run is called right away with the current value, then on every change.
// invalidate (which may be nil) is called before a change is delivered.
type Store[T any] interface {
	Subscribe(run func(T), invalidate func()) (unsubscribe func())
}

// StartFunc is called when a store gets its first subscriber, with a setter for the store's value.
// The returned stop function (which may be nil) is called when the store loses its last subscriber.
type StartFunc[T any] func(set func(T)) (stop func())

type Readable[T any] struct {
	store *internal.Store
}

// NewReadable creates a store that can only be read by subscription.
// Its value is set by start, which runs each time the store goes from zero to one subscriber.
func NewReadable[T any](initial T, start StartFunc[T], opts ...Option) *Readable[T] {
	return &Readable[T]{
		internal.NewStore(initial, wrapStart(start), buildOptions(opts).store()),
	}
}

// Subscribe calls run with the current value, and again every time the value changes.
func (r *Readable[T]) Subscribe(run func(T), invalidate func()) (unsubscribe func()) {
	return r.store.Subscribe(func(v any) { run(as[T](v)) }, invalidate)
}

func (r *Readable[T]) coordinator() *internal.Coordinator {
	return r.store.Coordinator()
}

type Writable[T any] struct {
	Readable[T]
}

// NewWritable creates a store that can be both read by subscription and set.
// start may be nil.
func NewWritable[T any](initial T, start StartFunc[T], opts ...Option) *Writable[T] {
	return &Writable[T]{
		Readable[T]{internal.NewStore(initial, wrapStart(start), buildOptions(opts).store())},
	}
}

// Set the value and notify subscribers if it changed.
func (w *Writable[T]) Set(v T) {
	w.store.Set(v)
}

// Update sets the value to the result of fn applied to the current one.
func (w *Writable[T]) Update(fn func(T) T) {
	w.store.Update(func(v any) any { return fn(as[T](v)) })
}

// Get reads the current value of s by subscribing and unsubscribing right away.
func Get[T any](s Store[T]) T {
	var value T
	s.Subscribe(func(v T) { value = v }, nil)()
	return value
}

func wrapStart[T any](start StartFunc[T]) internal.StartFunc {
	if start == nil {
		return nil
	}

	return func(set func(any)) func() {
		return start(func(v T) { set(v) })
	}
}
