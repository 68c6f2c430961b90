package session

import (
	"fmt"
	"testing"
)

func TestMediaBufferKeepsFirstFive(t *testing.T) {
	b := NewMediaBuffer(5)
	for i := 0; i < 7; i++ {
		b.Append(MediaItem{Filename: fmt.Sprintf("photo_%d.jpg", i), Kind: MediaImage})
	}

	if b.Len() != 5 {
		t.Fatalf("len = %d, want 5", b.Len())
	}
	for i, item := range b.Items() {
		want := fmt.Sprintf("photo_%d.jpg", i)
		if item.Filename != want {
			t.Fatalf("item %d = %q, want %q (first items must win)", i, item.Filename, want)
		}
	}
}

func TestMediaBufferClearReopens(t *testing.T) {
	b := NewMediaBuffer(5)
	b.Append(MediaItem{Kind: MediaImage})
	b.MarkComplete()

	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("len = %d after clear", b.Len())
	}
	if !b.AcceptingMore() {
		t.Fatal("clear must reopen the buffer")
	}
}

func TestMediaBufferMarkComplete(t *testing.T) {
	b := NewMediaBuffer(5)
	if !b.AcceptingMore() {
		t.Fatal("new buffer must accept more")
	}
	b.MarkComplete()
	if b.AcceptingMore() {
		t.Fatal("completed buffer must not accept more")
	}
}

func TestMediaBufferDefaultLimit(t *testing.T) {
	b := NewMediaBuffer(0)
	if b.Limit() != DefaultMediaLimit {
		t.Fatalf("limit = %d, want %d", b.Limit(), DefaultMediaLimit)
	}
}
