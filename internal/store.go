package internal

import "slices"

// StartFunc is called when a store gets its first subscriber.
// The returned function (if any) is called when it loses its last one.
type StartFunc func(set func(any)) (stop func())

// EqualFunc reports whether two values are considered the same.
type EqualFunc func(a, b any) bool

// Subscriber is a (run, invalidate) pair registered on a store.
// Pairs are unique by identity.
type Subscriber struct {
	run        func(any)
	invalidate func()

	removed bool
}

type Store struct {
	value any

	// in subscription order
	subs []*Subscriber

	start StartFunc
	stop  func()
	state Lifecycle

	equal EqualFunc
	name  string

	coord *Coordinator
}

type StoreOptions struct {
	Name        string
	Equal       EqualFunc
	Coordinator *Coordinator
}

func NewStore(initial any, start StartFunc, opts StoreOptions) *Store {
	s := &Store{
		value: initial,
		start: start,
		state: LifecycleInactive,
		equal: opts.Equal,
		name:  opts.Name,
		coord: opts.Coordinator,
	}

	if s.equal == nil {
		s.equal = func(a, b any) bool { return !SafeNotEqual(a, b) }
	}
	if s.coord == nil {
		s.coord = GetCoordinator()
	}
	if s.name == "" {
		s.name = "store"
	}

	return s
}

func (s *Store) Coordinator() *Coordinator { return s.coord }

func (s *Store) State() Lifecycle { return s.state }

func (s *Store) Len() int { return len(s.subs) }

// Value returns the stored value without subscribing.
func (s *Store) Value() any { return s.value }

// Subscribe registers run and invalidate (which may be nil), starting the
// store if this is its first subscriber, then calls run with the current value.
func (s *Store) Subscribe(run func(any), invalidate func()) (unsubscribe func()) {
	if invalidate == nil {
		invalidate = func() {}
	}

	sub := &Subscriber{run: run, invalidate: invalidate}
	s.subs = append(s.subs, sub)

	if len(s.subs) == 1 && s.state == LifecycleInactive {
		s.activate()
	}

	run(s.value)

	return func() { s.unsubscribe(sub) }
}

func (s *Store) unsubscribe(sub *Subscriber) {
	if sub.removed {
		return
	}
	sub.removed = true

	if i := slices.Index(s.subs, sub); i != -1 {
		s.subs = slices.Delete(s.subs, i, i+1)
	}

	if len(s.subs) == 0 && s.state == LifecycleActive {
		s.deactivate()
	}
}

func (s *Store) activate() {
	stop := func() {}
	if s.start != nil {
		if fn := s.start(s.Set); fn != nil {
			stop = fn
		}
	}

	s.stop = stop
	s.state = LifecycleActive
	s.coord.logger.Debug().Str("name", s.name).Msg("store started")
}

func (s *Store) deactivate() {
	stop := s.stop
	s.stop = nil
	s.state = LifecycleInactive

	s.coord.logger.Debug().Str("name", s.name).Msg("store stopped")
	stop()
}

// Set stores v and, if the store is active, invalidates every subscriber
// then delivers v once the outermost set call flushes.
func (s *Store) Set(v any) {
	if s.equal(s.value, v) {
		return
	}

	s.value = v

	// no subscriber to notify
	if s.state != LifecycleActive {
		return
	}

	s.coord.Batch(func() {
		// clonning to avoid mutation during iteration
		subs := slices.Clone(s.subs)

		for _, sub := range subs {
			if sub.removed {
				continue
			}

			sub.invalidate()
			s.coord.Enqueue(sub, s.value)
		}
	})
}

func (s *Store) Update(fn func(any) any) {
	s.Set(fn(s.value))
}
