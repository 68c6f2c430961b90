package session

import "bazarbot/internal/catalog"

// BrowseQueue is an ephemeral FIFO of candidate products consumed one at
// a time during swipe browsing. It is filled wholesale by a single
// upstream fetch; consuming is destructive and items are never re-shown.
type BrowseQueue struct {
	items []catalog.Product
}

// Fill replaces the queue contents with a fresh fetch result.
func (q *BrowseQueue) Fill(items []catalog.Product) {
	q.items = append(q.items[:0:0], items...)
}

// Pop removes and returns the head of the queue. The second return value
// is false when the queue is empty.
func (q *BrowseQueue) Pop() (catalog.Product, bool) {
	if len(q.items) == 0 {
		return catalog.Product{}, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Len returns the number of queued products.
func (q *BrowseQueue) Len() int {
	return len(q.items)
}
