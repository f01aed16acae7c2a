package internal

import "slices"

// Source is anything a derived store can subscribe to.
type Source interface {
	Subscribe(run func(any), invalidate func()) (unsubscribe func())
}

// AggregateFunc receives the current value of every source and the setter of
// the derived store. It may return a cleanup called before the next run and
// when the derived store stops.
type AggregateFunc func(values []any, set func(any)) (cleanup func())

// NewDerived creates a store whose value is kept in sync with sources through fn.
// fn never runs while a source is known to be stale.
func NewDerived(sources []Source, fn AggregateFunc, initial any, opts StoreOptions) *Store {
	return NewStore(initial, func(set func(any)) func() {
		inited := false
		values := make([]any, len(sources))
		pending := NewPendingMask(len(sources))

		var cleanup func()

		sync := func() {
			if pending.Any() {
				return
			}

			if cleanup != nil {
				cleanup()
				cleanup = nil
			}

			cleanup = fn(slices.Clone(values), set)
		}

		unsubscribers := make([]func(), len(sources))
		for i, source := range sources {
			unsubscribers[i] = source.Subscribe(
				func(value any) {
					values[i] = value
					pending.Clear(i)

					if inited {
						sync()
					}
				},
				func() {
					pending.Set(i)
				},
			)
		}

		inited = true
		sync()

		return func() {
			defer func() {
				if cleanup != nil {
					cleanup()
					cleanup = nil
				}
			}()

			RunAll(unsubscribers)
		}
	}, opts)
}
