package session

import (
	"testing"

	"bazarbot/internal/catalog"
)

func TestQueuePopOrder(t *testing.T) {
	var q BrowseQueue
	q.Fill([]catalog.Product{{ID: 1}, {ID: 2}, {ID: 3}})

	for want := int64(1); want <= 3; want++ {
		p, ok := q.Pop()
		if !ok {
			t.Fatalf("pop %d: queue unexpectedly empty", want)
		}
		if p.ID != want {
			t.Fatalf("pop = %d, want %d", p.ID, want)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("queue should be exhausted")
	}
}

func TestQueueEmptyPopIsSafe(t *testing.T) {
	var q BrowseQueue
	if _, ok := q.Pop(); ok {
		t.Fatal("empty queue must report no items")
	}
	// Repeated pops stay safe.
	if _, ok := q.Pop(); ok {
		t.Fatal("empty queue must report no items")
	}
}

func TestQueueFillReplacesWholesale(t *testing.T) {
	var q BrowseQueue
	q.Fill([]catalog.Product{{ID: 1}, {ID: 2}})
	q.Fill([]catalog.Product{{ID: 9}})

	if q.Len() != 1 {
		t.Fatalf("len = %d, want 1", q.Len())
	}
	p, _ := q.Pop()
	if p.ID != 9 {
		t.Fatalf("pop = %d, want 9", p.ID)
	}
}

func TestQueueFillCopiesInput(t *testing.T) {
	src := []catalog.Product{{ID: 1}, {ID: 2}}
	var q BrowseQueue
	q.Fill(src)
	src[0].ID = 99

	p, _ := q.Pop()
	if p.ID != 1 {
		t.Fatalf("pop = %d, queue must snapshot the fetch result", p.ID)
	}
}
