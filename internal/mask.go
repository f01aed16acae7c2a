package internal

// PendingMask holds one bit per source of a derived store.
type PendingMask []uint64

func NewPendingMask(n int) PendingMask {
	return make(PendingMask, (n+63)/64)
}

func (m PendingMask) Has(i int) bool {
	return m[i/64]&(1<<(i%64)) != 0
}

func (m PendingMask) Set(i int) {
	m[i/64] |= 1 << (i % 64)
}

func (m PendingMask) Clear(i int) {
	m[i/64] &^= 1 << (i % 64)
}

// Any reports whether at least one bit is set.
func (m PendingMask) Any() bool {
	for _, w := range m {
		if w != 0 {
			return true
		}
	}
	return false
}
