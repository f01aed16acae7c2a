package internal

// Lifecycle is the activation state of a store.
type Lifecycle uint8

const (
	// LifecycleInactive means the store has no subscriber and its start function is not running
	LifecycleInactive Lifecycle = iota
	// LifecycleActive means the start function ran and its stop callback is held
	LifecycleActive
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleActive:
		return "active"
	default:
		return "inactive"
	}
}
