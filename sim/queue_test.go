package sim

import "testing"

func TestItemQueue_Dequeue_ReturnsFIFOOrder(t *testing.T) {
	// GIVEN a queue with items [1, 2]
	q := &ItemQueue{}
	itemA := &Item{ID: 1}
	itemB := &Item{ID: 2}
	q.Enqueue(itemA)
	q.Enqueue(itemB)

	// WHEN Dequeue() is called twice
	first := q.Dequeue()
	second := q.Dequeue()

	// THEN items come out in insertion order
	if first != itemA {
		t.Errorf("Dequeue: got item %d, want 1", first.ID)
	}
	if second != itemB {
		t.Errorf("Dequeue: got item %d, want 2", second.ID)
	}
	if q.Len() != 0 {
		t.Errorf("Len after draining: got %d, want 0", q.Len())
	}
}

func TestItemQueue_Dequeue_Empty_ReturnsNil(t *testing.T) {
	// GIVEN an empty queue
	q := &ItemQueue{}

	// WHEN Dequeue() is called
	got := q.Dequeue()

	// THEN it returns nil
	if got != nil {
		t.Errorf("Dequeue on empty queue: got %v, want nil", got)
	}
}

func TestItemQueue_Peek_DoesNotRemove(t *testing.T) {
	// GIVEN a queue with one item
	q := &ItemQueue{}
	item := &Item{ID: 7}
	q.Enqueue(item)

	// WHEN Peek() is called
	got := q.Peek()

	// THEN it returns the front element without removing it
	if got != item {
		t.Errorf("Peek: got %v, want item 7", got)
	}
	if q.Len() != 1 {
		t.Errorf("Peek modified queue length: got %d, want 1", q.Len())
	}
}

func TestItemQueue_Peek_Empty_ReturnsNil(t *testing.T) {
	q := &ItemQueue{}
	if got := q.Peek(); got != nil {
		t.Errorf("Peek on empty queue: got %v, want nil", got)
	}
}
