package utils

import (
	"testing"
	"time"
)

func TestRingEvictsOldestFirst(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 3; i++ {
		if r.Push(i) {
			t.Fatalf("unexpected eviction while filling at %d", i)
		}
	}
	if !r.Push(4) {
		t.Fatalf("expected eviction when full")
	}

	got := r.Slice()
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d: expected %d, got %d", i, want[i], got[i])
		}
	}
	if last, ok := r.Last(); !ok || last != 4 {
		t.Fatalf("expected last 4, got %d (%t)", last, ok)
	}
}

func TestRingTail(t *testing.T) {
	r := NewRing[int](5)
	for i := 0; i < 8; i++ {
		r.Push(i)
	}
	tail := r.Tail(2)
	if len(tail) != 2 || tail[0] != 6 || tail[1] != 7 {
		t.Fatalf("unexpected tail %v", tail)
	}
	if len(r.Tail(10)) != 5 {
		t.Fatalf("expected tail capped at length")
	}
	if r.Tail(0) != nil {
		t.Fatalf("expected nil tail for n=0")
	}
}

func TestRingEmpty(t *testing.T) {
	r := NewRing[string](0)
	if _, ok := r.Last(); ok {
		t.Fatalf("expected empty ring")
	}
	if len(r.Slice()) != 0 {
		t.Fatalf("expected empty slice")
	}
	r.Push("a")
	if evicted := r.Push("b"); !evicted || r.Len() != 1 {
		t.Fatalf("expected minimum capacity 1, got len %d", r.Len())
	}
}

func TestWithinWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if !WithinWindow(now.Add(-5*time.Minute), now, 5*time.Minute) {
		t.Fatalf("expected window edge to be inclusive")
	}
	if WithinWindow(now.Add(-6*time.Minute), now, 5*time.Minute) {
		t.Fatalf("expected old timestamp outside window")
	}
	if WithinWindow(now.Add(time.Second), now, 5*time.Minute) {
		t.Fatalf("expected future timestamp outside window")
	}
}
