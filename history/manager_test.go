package history

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func newTestManager(t *testing.T, maxTurns int) *Manager {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"), discardLogger())
	return NewManager(store, maxTurns, discardLogger())
}

func TestAppendPreservesOrderBelowBound(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 10)
	for i := 0; i < 10; i++ {
		m.Append("u1", "user", fmt.Sprintf("m%d", i))
	}
	got := m.Read("u1")
	if len(got) != 10 {
		t.Fatalf("Read() length = %d, want 10", len(got))
	}
	for i, turn := range got {
		if want := fmt.Sprintf("m%d", i); turn.Content != want {
			t.Fatalf("Read()[%d].Content = %q, want %q", i, turn.Content, want)
		}
	}
}

func TestAppendEvictsBeyondBound(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 10)
	for i := 0; i < 25; i++ {
		m.Append("u1", "user", fmt.Sprintf("m%d", i))
	}
	got := m.Read("u1")
	if len(got) != 10 {
		t.Fatalf("Read() length = %d, want 10", len(got))
	}
	if got[0].Content != "m15" || got[9].Content != "m24" {
		t.Fatalf("Read() = [%s .. %s], want [m15 .. m24]", got[0].Content, got[9].Content)
	}
}

func TestReadUnknownUser(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 10)
	if got := m.Read("nobody"); len(got) != 0 {
		t.Fatalf("Read() = %v, want empty", got)
	}
}

func TestAppendIsWrittenThrough(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sessions.json")
	store := NewFileStore(path, discardLogger())
	m := NewManager(store, 10, discardLogger())
	m.Append("u1", "user", "hello")
	m.Append("u1", "assistant", "hi there")

	// A fresh manager over the same file sees the persisted turns.
	reloaded := NewManager(NewFileStore(path, discardLogger()), 10, discardLogger())
	got := reloaded.Read("u1")
	if len(got) != 2 {
		t.Fatalf("Read() length = %d, want 2", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "assistant" {
		t.Fatalf("Read() roles = %s/%s, want user/assistant", got[0].Role, got[1].Role)
	}
}

func TestManagerLoadsOversizedHistoryTrimmed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sessions.json")
	store := NewFileStore(path, discardLogger())
	var turns []Turn
	for i := 0; i < 30; i++ {
		turns = append(turns, Turn{Role: "user", Content: fmt.Sprintf("m%d", i)})
	}
	if err := store.Save(Snapshot{"u1": turns}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	m := NewManager(store, 10, discardLogger())
	got := m.Read("u1")
	if len(got) != 10 {
		t.Fatalf("Read() length = %d, want 10", len(got))
	}
	if got[0].Content != "m20" {
		t.Fatalf("Read()[0].Content = %q, want m20", got[0].Content)
	}
}

func TestAppendSurvivesSaveFailure(t *testing.T) {
	t.Parallel()

	// Store pointed at an unwritable path: saves fail, appends still land.
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "\x00", "s.json"), discardLogger())
	m := NewManager(store, 10, discardLogger())
	m.Append("u1", "user", "hello")
	if got := m.Read("u1"); len(got) != 1 || got[0].Content != "hello" {
		t.Fatalf("Read() = %v, want single hello turn", got)
	}
}

func TestConcurrentAppendsAreNotLost(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 200)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Append("u1", "user", fmt.Sprintf("m%d", i))
		}(i)
	}
	wg.Wait()
	if got := m.Read("u1"); len(got) != 100 {
		t.Fatalf("Read() length = %d, want 100", len(got))
	}
}
