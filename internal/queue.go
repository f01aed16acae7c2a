package internal

type pendingEntry struct {
	sub   *Subscriber
	value any
}

// PendingQueue is an ordered map of subscriber to the value it will receive.
type PendingQueue struct {
	entries []pendingEntry

	// position of each subscriber's latest entry
	index map[*Subscriber]int

	// entries before the cursor have been delivered
	cursor int
}

func NewPendingQueue() *PendingQueue {
	return &PendingQueue{
		entries: make([]pendingEntry, 0),
		index:   make(map[*Subscriber]int),
	}
}

// Enqueue records value for sub. A subscriber still waiting for delivery
// keeps its position and gets the new value, one that was already notified
// in this flush is queued again.
func (q *PendingQueue) Enqueue(sub *Subscriber, value any) {
	if i, ok := q.index[sub]; ok && i >= q.cursor {
		q.entries[i].value = value
		return
	}

	q.index[sub] = len(q.entries)
	q.entries = append(q.entries, pendingEntry{sub, value})
}

// Len returns the number of entries not yet delivered.
func (q *PendingQueue) Len() int {
	return len(q.entries) - q.cursor
}

// Drain delivers every entry in order, including the ones enqueued while
// draining. Entries of removed subscribers are skipped.
func (q *PendingQueue) Drain(deliver func(*Subscriber, any)) {
	for q.cursor < len(q.entries) {
		entry := q.entries[q.cursor]
		q.cursor++

		if entry.sub.removed {
			continue
		}

		deliver(entry.sub, entry.value)
	}

	q.Clear()
}

func (q *PendingQueue) Clear() {
	clear(q.entries)
	q.entries = q.entries[:0]
	clear(q.index)
	q.cursor = 0
}
