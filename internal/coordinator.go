package internal

import "github.com/rs/zerolog"

// Coordinator owns the pending queue shared by every store bound to it.
// A set call nested inside another one only enqueues; the outermost call
// runs the flush.
type Coordinator struct {
	// each nested set increases the depth by 1
	// if depth > 1, notifications are queued until the outermost set is complete
	depth int

	queue *PendingQueue

	// panic handlers for flushes
	catchers []func(any)

	logger zerolog.Logger
}

type CoordinatorOption func(*Coordinator)

func WithLogger(logger zerolog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = logger }
}

func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		queue:  NewPendingQueue(),
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IsFlushing reports whether a set call is currently in progress.
func (c *Coordinator) IsFlushing() bool {
	return c.depth > 0
}

// Pending returns the number of queued notifications not yet delivered.
func (c *Coordinator) Pending() int {
	return c.queue.Len()
}

func (c *Coordinator) OnError(fn func(any)) {
	c.catchers = append(c.catchers, fn)
}

// Enqueue schedules the delivery of value to sub during the current flush.
func (c *Coordinator) Enqueue(sub *Subscriber, value any) {
	c.queue.Enqueue(sub, value)
}

// Batch runs fn (the invalidate pass of a set call). If it is the outermost
// call, the queue is flushed afterwards.
//
// Without catchers, a panic aborts the flush and propagates once the queue
// is reset. With catchers, each panic is handed to them and delivery resumes
// with the next entry, so every invalidated subscriber still gets its value.
func (c *Coordinator) Batch(fn func()) {
	c.depth++
	if c.depth > 1 {
		defer func() { c.depth-- }()
		fn()
		return
	}

	defer c.reset()

	c.guard(fn)
	for c.queue.Len() > 0 {
		c.guard(c.flush)
	}
}

func (c *Coordinator) flush() {
	c.logger.Debug().Int("entries", c.queue.Len()).Msg("flush")

	c.queue.Drain(func(sub *Subscriber, value any) {
		sub.run(value)
	})
}

// guard runs fn, routing its panic to the catchers if there are any.
func (c *Coordinator) guard(fn func()) {
	if len(c.catchers) == 0 {
		fn()
		return
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Msg("panic recovered")
			for _, catcher := range c.catchers {
				catcher(r)
			}
		}
	}()

	fn()
}

func (c *Coordinator) reset() {
	c.depth = 0
	c.queue.Clear()
}
