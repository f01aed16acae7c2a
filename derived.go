package store

import "github.com/AnatoleLucet/store/internal"

type storeSource[T any] struct {
	store Store[T]
}

func (s storeSource[T]) Subscribe(run func(any), invalidate func()) func() {
	return s.store.Subscribe(func(v T) { run(v) }, invalidate)
}

func toSource[T any](s Store[T]) internal.Source {
	switch s := s.(type) {
	case *Readable[T]:
		return s.store
	case *Writable[T]:
		return s.store
	}

	return storeSource[T]{s}
}

type coordinated interface {
	coordinator() *internal.Coordinator
}

// a derived store shares the coordinator of its first source unless told otherwise
func derivedOptions(sources []any, opts []Option) internal.StoreOptions {
	o := buildOptions(opts).store()
	if o.Coordinator != nil {
		return o
	}

	for _, s := range sources {
		if c, ok := s.(coordinated); ok {
			o.Coordinator = c.coordinator()
			break
		}
	}

	return o
}

// Derive creates a read-only store whose value is fn applied to the value of source.
// Until fn first runs, the store holds the zero value or the one given WithInitial.
func Derive[S, T any](source Store[S], fn func(S) T, opts ...Option) *Readable[T] {
	return newDerived([]internal.Source{toSource(source)}, []any{source}, func(values []any, set func(any)) func() {
		set(fn(as[S](values[0])))
		return nil
	}, initialValue[T](opts), opts)
}

// DeriveAsync creates a read-only store set by fn, which receives the value of source and the store's setter.
// fn can call set at any time, zero or more times, and may return a cleanup (or nil)
// called before fn runs again and when the store stops.
func DeriveAsync[S, T any](source Store[S], fn func(value S, set func(T)) (cleanup func()), initial T, opts ...Option) *Readable[T] {
	return newDerived([]internal.Source{toSource(source)}, []any{source}, func(values []any, set func(any)) func() {
		return fn(as[S](values[0]), func(v T) { set(v) })
	}, initial, opts)
}

// DeriveMany creates a read-only store whose value is fn applied to the values of sources, in order.
func DeriveMany[S, T any](sources []Store[S], fn func([]S) T, opts ...Option) *Readable[T] {
	internalSources, raw := manySources(sources)
	return newDerived(internalSources, raw, func(values []any, set func(any)) func() {
		set(fn(typedValues[S](values)))
		return nil
	}, initialValue[T](opts), opts)
}

// DeriveManyAsync is DeriveAsync over several sources.
func DeriveManyAsync[S, T any](sources []Store[S], fn func(values []S, set func(T)) (cleanup func()), initial T, opts ...Option) *Readable[T] {
	internalSources, raw := manySources(sources)
	return newDerived(internalSources, raw, func(values []any, set func(any)) func() {
		return fn(typedValues[S](values), func(v T) { set(v) })
	}, initial, opts)
}

// Derive2 creates a read-only store whose value is fn applied to the values of two sources of different types.
func Derive2[A, B, T any](a Store[A], b Store[B], fn func(A, B) T, opts ...Option) *Readable[T] {
	return newDerived([]internal.Source{toSource(a), toSource(b)}, []any{a, b}, func(values []any, set func(any)) func() {
		set(fn(as[A](values[0]), as[B](values[1])))
		return nil
	}, initialValue[T](opts), opts)
}

func newDerived[T any](sources []internal.Source, raw []any, fn internal.AggregateFunc, initial T, opts []Option) *Readable[T] {
	return &Readable[T]{
		internal.NewDerived(sources, fn, initial, derivedOptions(raw, opts)),
	}
}

func manySources[S any](sources []Store[S]) ([]internal.Source, []any) {
	internalSources := make([]internal.Source, len(sources))
	raw := make([]any, len(sources))
	for i, s := range sources {
		internalSources[i] = toSource(s)
		raw[i] = s
	}
	return internalSources, raw
}

func typedValues[S any](values []any) []S {
	typed := make([]S, len(values))
	for i, v := range values {
		typed[i] = as[S](v)
	}
	return typed
}
