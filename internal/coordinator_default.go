//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// keyed by goroutine id, entries are only removed by ReleaseCoordinator
var coordinators sync.Map

// GetCoordinator returns the default coordinator of the calling goroutine,
// creating it on first use. It stays registered after the goroutine exits
// unless ReleaseCoordinator was called from it.
func GetCoordinator() *Coordinator {
	gid := goid.Get()

	if c, ok := coordinators.Load(gid); ok {
		return c.(*Coordinator)
	}

	c := NewCoordinator()
	coordinators.Store(gid, c)
	return c
}

// ReleaseCoordinator forgets the default coordinator of the calling goroutine.
// Stores already bound to it keep using it.
func ReleaseCoordinator() {
	coordinators.Delete(goid.Get())
}
