package filter

import (
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	var q Queue[int]
	q.Push(1)
	q.Push(2)
	q.Push(3)

	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	for want := 1; want <= 3; want++ {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Errorf("Pop = %d (ok=%v), want %d", got, ok, want)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue reported ok")
	}
}

func TestQueueReset(t *testing.T) {
	var q Queue[string]
	q.Push("a")
	q.Push("b")
	q.Reset()
	if q.Len() != 0 {
		t.Errorf("Len after Reset = %d", q.Len())
	}
}
