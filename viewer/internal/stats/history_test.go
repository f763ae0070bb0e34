package stats

import (
	"testing"
	"time"
)

func TestHistoryCapacity(t *testing.T) {
	tests := []struct{ in, want int }{{0, 1}, {1, 1}, {3, 4}, {120, 128}, {128, 128}}
	for _, tt := range tests {
		if got := NewHistory(tt.in).Cap(); got != tt.want {
			t.Errorf("NewHistory(%d).Cap() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHistoryWraps(t *testing.T) {
	h := NewHistory(4)
	for i := 1; i <= 6; i++ {
		h.Push(time.Duration(i))
	}
	if h.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", h.Len())
	}
	var got []time.Duration
	h.Each(func(i int, d time.Duration) {
		if i != len(got) {
			t.Errorf("index %d out of order", i)
		}
		got = append(got, d)
	})
	want := []time.Duration{3, 4, 5, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Each() = %v, want %v", got, want)
		}
	}
	if h.Max() != 6 {
		t.Errorf("Max() = %v", h.Max())
	}
}

func TestHistoryPartial(t *testing.T) {
	h := NewHistory(8)
	h.Push(5)
	h.Push(2)
	if h.Len() != 2 || h.Max() != 5 {
		t.Errorf("Len/Max = %d/%v", h.Len(), h.Max())
	}
}
