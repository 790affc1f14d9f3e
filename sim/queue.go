// Implements the ItemQueue, a station's bounded input buffer.
// Items are enqueued by the upstream station or the item source and
// dequeued into the processing slot.

package sim

import (
	"fmt"
	"strings"
)

// ItemQueue is a FIFO queue of items waiting in front of a station's
// processing slot. The capacity bound is enforced by the callers (the push
// pass and the item source check for spare capacity first); the queue itself
// never drops items, so a one-time migration during a station removal or a
// capacity reduction may leave it transiently over capacity.
type ItemQueue struct {
	items []*Item
}

// Enqueue adds an item to the back of the queue.
func (q *ItemQueue) Enqueue(it *Item) {
	q.items = append(q.items, it)
}

// Dequeue removes and returns the item at the front of the queue.
// Returns nil if the queue is empty.
func (q *ItemQueue) Dequeue() *Item {
	if len(q.items) == 0 {
		return nil
	}
	it := q.items[0]
	q.items = q.items[1:]
	return it
}

// Peek returns the front item without removing it, or nil if empty.
func (q *ItemQueue) Peek() *Item {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// Len returns the number of queued items.
func (q *ItemQueue) Len() int {
	return len(q.items)
}

// Items returns the queue contents for iteration. The returned slice is the
// queue's internal storage -- callers within the sim package may iterate over
// it but MUST NOT append to or reslice it.
func (q *ItemQueue) Items() []*Item {
	return q.items
}

func (q *ItemQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, it := range q.items {
		sb.WriteString(fmt.Sprint(it))
		if i < len(q.items)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
