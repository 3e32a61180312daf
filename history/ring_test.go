package history

import (
	"fmt"
	"testing"
)

func TestRingAppendBelowCapacity(t *testing.T) {
	t.Parallel()

	r := newRing(10)
	for i := 0; i < 7; i++ {
		r.append(Turn{Role: "user", Content: fmt.Sprintf("m%d", i)})
	}
	if r.len() != 7 {
		t.Fatalf("len() = %d, want 7", r.len())
	}
	got := r.slice()
	for i, turn := range got {
		if want := fmt.Sprintf("m%d", i); turn.Content != want {
			t.Fatalf("slice()[%d].Content = %q, want %q", i, turn.Content, want)
		}
	}
}

func TestRingEvictsOldest(t *testing.T) {
	t.Parallel()

	r := newRing(4)
	for i := 0; i < 9; i++ {
		r.append(Turn{Content: fmt.Sprintf("m%d", i)})
	}
	if r.len() != 4 {
		t.Fatalf("len() = %d, want 4", r.len())
	}
	got := r.slice()
	want := []string{"m5", "m6", "m7", "m8"}
	for i := range want {
		if got[i].Content != want[i] {
			t.Fatalf("slice()[%d].Content = %q, want %q", i, got[i].Content, want[i])
		}
	}
}

func TestRingFillTruncatesToCapacity(t *testing.T) {
	t.Parallel()

	var turns []Turn
	for i := 0; i < 15; i++ {
		turns = append(turns, Turn{Content: fmt.Sprintf("m%d", i)})
	}
	r := newRing(10)
	r.fill(turns)
	got := r.slice()
	if len(got) != 10 {
		t.Fatalf("len(slice()) = %d, want 10", len(got))
	}
	if got[0].Content != "m5" || got[9].Content != "m14" {
		t.Fatalf("slice() = [%s .. %s], want [m5 .. m14]", got[0].Content, got[9].Content)
	}
}

func TestRingSliceIsACopy(t *testing.T) {
	t.Parallel()

	r := newRing(3)
	r.append(Turn{Content: "a"})
	got := r.slice()
	got[0].Content = "mutated"
	if r.slice()[0].Content != "a" {
		t.Fatalf("ring contents changed through returned slice")
	}
}
