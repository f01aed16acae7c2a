package store

import (
	"github.com/AnatoleLucet/store/internal"
	"github.com/rs/zerolog"
)

type options struct {
	name        string
	equal       internal.EqualFunc
	coordinator *Coordinator

	initial    any
	hasInitial bool
}

func (o options) store() internal.StoreOptions {
	opts := internal.StoreOptions{
		Name:  o.name,
		Equal: o.equal,
	}
	if o.coordinator != nil {
		opts.Coordinator = o.coordinator.coordinator
	}

	return opts
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a store.
type Option func(*options)

// WithName names the store in log events.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithEqual replaces the default change detection.
// T must be the value type of the store the option is given to.
func WithEqual[T any](equal func(a, b T) bool) Option {
	return func(o *options) {
		o.equal = func(a, b any) bool { return equal(as[T](a), as[T](b)) }
	}
}

// WithInitial sets the value a derived store holds until its first computation,
// which is all it ever holds if a source never delivers.
// T must be the value type of the derived store.
func WithInitial[T any](v T) Option {
	return func(o *options) {
		o.initial = v
		o.hasInitial = true
	}
}

func initialValue[T any](opts []Option) T {
	if o := buildOptions(opts); o.hasInitial {
		return as[T](o.initial)
	}

	var zero T
	return zero
}

// WithCoordinator binds the store to c instead of the goroutine's default coordinator.
// Stores that depend on each other should share a coordinator.
func WithCoordinator(c *Coordinator) Option {
	return func(o *options) { o.coordinator = c }
}

// Coordinator batches the notifications of every store bound to it, so
// that a set call reaching several derived stores is delivered without glitches.
type Coordinator struct {
	coordinator *internal.Coordinator
}

type CoordinatorOption func(*[]internal.CoordinatorOption)

// WithLogger makes the coordinator log flushes and store lifecycle events to logger.
func WithLogger(logger zerolog.Logger) CoordinatorOption {
	return func(opts *[]internal.CoordinatorOption) {
		*opts = append(*opts, internal.WithLogger(logger))
	}
}

// NewCoordinator creates a coordinator independent from any other.
func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	var internalOpts []internal.CoordinatorOption
	for _, opt := range opts {
		opt(&internalOpts)
	}

	return &Coordinator{internal.NewCoordinator(internalOpts...)}
}

// DefaultCoordinator returns the coordinator used by stores created on the
// calling goroutine without WithCoordinator.
func DefaultCoordinator() *Coordinator {
	return &Coordinator{internal.GetCoordinator()}
}

// ReleaseDefaultCoordinator forgets the calling goroutine's default coordinator.
// Call it before a goroutine that created stores exits; stores already bound
// to the coordinator keep working.
func ReleaseDefaultCoordinator() { internal.ReleaseCoordinator() }

// Add a function to be called when a panic occurs while notifying subscribers.
// If no error listener is registered, the panic propagates to the caller of Set.
func (c *Coordinator) OnError(fn func(any)) { c.coordinator.OnError(fn) }
