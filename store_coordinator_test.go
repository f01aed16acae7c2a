package store

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCoordinator(t *testing.T) {
	t.Run("nested sets are delivered by the outermost flush", func(t *testing.T) {
		log := []string{}

		base := NewWritable(0, nil)
		other := NewWritable(0, nil)

		base.Subscribe(func(v int) { other.Set(v * 10) }, nil)
		base.Subscribe(func(v int) { log = append(log, fmt.Sprintf("base %d", v)) }, nil)
		other.Subscribe(func(v int) { log = append(log, fmt.Sprintf("other %d", v)) }, nil)
		log = log[:0]

		base.Set(1)

		assert.Equal(t, []string{"base 1", "other 10"}, log)
	})

	t.Run("independent coordinators flush on their own", func(t *testing.T) {
		log := []string{}

		base := NewWritable(0, nil, WithCoordinator(NewCoordinator()))
		other := NewWritable(0, nil, WithCoordinator(NewCoordinator()))

		base.Subscribe(func(v int) { other.Set(v * 10) }, nil)
		base.Subscribe(func(v int) { log = append(log, fmt.Sprintf("base %d", v)) }, nil)
		other.Subscribe(func(v int) { log = append(log, fmt.Sprintf("other %d", v)) }, nil)
		log = log[:0]

		base.Set(1)

		assert.Equal(t, []string{"other 10", "base 1"}, log)
	})

	t.Run("subscriber writing back to its store", func(t *testing.T) {
		log := []string{}

		count := NewWritable(0, nil)
		count.Subscribe(func(v int) { log = append(log, fmt.Sprintf("a %d", v)) }, nil)
		count.Subscribe(func(v int) {
			log = append(log, fmt.Sprintf("b %d", v))
			if v == 1 {
				count.Set(2)
			}
		}, nil)
		log = log[:0]

		count.Set(1)

		assert.Equal(t, []string{"a 1", "b 1", "a 2", "b 2"}, log)
	})

	t.Run("derived stores share their source's coordinator", func(t *testing.T) {
		c := NewCoordinator()

		base := NewWritable(1, nil, WithCoordinator(c))
		doubled := Derive(base, func(v int) int { return v * 2 })

		assert.Same(t, c.coordinator, doubled.coordinator())
	})

	t.Run("default coordinator is per goroutine", func(t *testing.T) {
		var wg sync.WaitGroup
		current := DefaultCoordinator()

		var other *Coordinator
		wg.Go(func() {
			other = DefaultCoordinator()
		})
		wg.Wait()

		assert.Same(t, current.coordinator, DefaultCoordinator().coordinator)
		assert.NotSame(t, current.coordinator, other.coordinator)
	})

	t.Run("set from an invalidate callback waits for the invalidate pass", func(t *testing.T) {
		log := []string{}

		base := NewWritable(0, nil)
		other := NewWritable(0, nil)

		other.Subscribe(func(v int) { log = append(log, fmt.Sprintf("other %d", v)) }, nil)
		base.Subscribe(func(int) {}, func() {
			log = append(log, "invalidate a")
			other.Set(5)
		})
		base.Subscribe(func(int) {}, func() {
			log = append(log, "invalidate b")
		})
		log = log[:0]

		base.Set(1)

		assert.Equal(t, []string{"invalidate a", "invalidate b", "other 5"}, log)
	})

	t.Run("logs recovered panics", func(t *testing.T) {
		var buf bytes.Buffer

		c := NewCoordinator(WithLogger(zerolog.New(&buf)))
		c.OnError(func(any) {})

		count := NewWritable(0, nil, WithCoordinator(c))
		count.Subscribe(func(v int) {
			if v == 1 {
				panic("boom")
			}
		}, nil)

		count.Set(1)

		assert.Contains(t, buf.String(), `"level":"error","panic":"boom","message":"panic recovered"`)
	})

	t.Run("released default coordinator is replaced", func(t *testing.T) {
		before := DefaultCoordinator()
		ReleaseDefaultCoordinator()

		assert.NotSame(t, before.coordinator, DefaultCoordinator().coordinator)
	})

	t.Run("logs flushes and lifecycle", func(t *testing.T) {
		var buf bytes.Buffer

		c := NewCoordinator(WithLogger(zerolog.New(&buf)))
		count := NewWritable(0, nil, WithCoordinator(c), WithName("count"))

		unsubscribe := count.Subscribe(func(int) {}, nil)
		count.Set(1)
		unsubscribe()

		out := buf.String()
		assert.Contains(t, out, `"name":"count","message":"store started"`)
		assert.Contains(t, out, `"entries":1,"message":"flush"`)
		assert.Contains(t, out, `"name":"count","message":"store stopped"`)
	})
}

func TestErrors(t *testing.T) {
	t.Run("panic propagates and resets the queue", func(t *testing.T) {
		got := []int{}

		c := NewCoordinator()
		base := NewWritable(1, nil, WithCoordinator(c))
		checked := Derive(base, func(v int) int {
			if v == 2 {
				panic("boom")
			}
			return v
		})
		checked.Subscribe(func(v int) { got = append(got, v) }, nil)

		assert.PanicsWithValue(t, "boom", func() { base.Set(2) })
		assert.False(t, c.coordinator.IsFlushing())
		assert.Equal(t, 0, c.coordinator.Pending())

		base.Set(3)
		assert.Equal(t, []int{1, 3}, got)
	})

	t.Run("error listener recovers and keeps delivering", func(t *testing.T) {
		log := []string{}

		c := NewCoordinator()
		c.OnError(func(r any) {
			log = append(log, fmt.Sprintf("caught %v", r))
		})

		count := NewWritable(0, nil, WithCoordinator(c))
		count.Subscribe(func(v int) {
			if v == 1 {
				panic("oops")
			}
		}, nil)
		count.Subscribe(func(v int) {
			log = append(log, fmt.Sprintf("got %d", v))
		}, nil)

		assert.NotPanics(t, func() { count.Set(1) })
		count.Set(2)

		assert.Equal(t, []string{
			"got 0",
			"caught oops",
			"got 1",
			"got 2",
		}, log)
	})

	t.Run("derived store keeps updating after a caught panic", func(t *testing.T) {
		got := []int{}

		c := NewCoordinator()
		c.OnError(func(any) {})

		base := NewWritable(0, nil, WithCoordinator(c))
		other := NewWritable(0, nil, WithCoordinator(c))

		base.Subscribe(func(v int) {
			if v == 1 {
				panic("boom")
			}
		}, nil)
		sum := Derive2(base, other, func(a, b int) int { return a + b })
		sum.Subscribe(func(v int) { got = append(got, v) }, nil)

		base.Set(1)
		other.Set(10)

		assert.Equal(t, []int{0, 1, 11}, got)
		assert.False(t, c.coordinator.IsFlushing())
	})

	t.Run("every source is unsubscribed even if one panics", func(t *testing.T) {
		log := []string{}

		a := NewReadable(0, func(set func(int)) func() {
			return func() { panic("stop a") }
		})
		b := NewReadable(0, func(set func(int)) func() {
			return func() { log = append(log, "stop b") }
		})
		d := DeriveMany([]Store[int]{a, b}, func(values []int) int { return 0 })

		unsubscribe := d.Subscribe(func(int) {}, nil)

		assert.PanicsWithValue(t, "stop a", unsubscribe)
		assert.Equal(t, []string{"stop b"}, log)
	})
}
