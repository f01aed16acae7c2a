//go:build wasm

package internal

import "sync"

var (
	mu                sync.Mutex
	globalCoordinator *Coordinator
)

// GetCoordinator returns the single coordinator shared by the whole program.
func GetCoordinator() *Coordinator {
	mu.Lock()
	defer mu.Unlock()

	if globalCoordinator == nil {
		globalCoordinator = NewCoordinator()
	}
	return globalCoordinator
}

// ReleaseCoordinator drops the shared coordinator; the next GetCoordinator creates a new one.
func ReleaseCoordinator() {
	mu.Lock()
	defer mu.Unlock()

	globalCoordinator = nil
}
