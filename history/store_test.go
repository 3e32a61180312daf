package history

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"), discardLogger())
	in := Snapshot{
		"u1": {{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}},
		"u2": {{Role: "user", Content: "ping"}},
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	out := s.Load()
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("Load() = %+v, want %+v", out, in)
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	t.Parallel()

	s := NewFileStore(filepath.Join(t.TempDir(), "absent.json"), discardLogger())
	got := s.Load()
	if got == nil || len(got) != 0 {
		t.Fatalf("Load() = %v, want empty snapshot", got)
	}
}

func TestStoreLoadEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got := NewFileStore(path, discardLogger()).Load()
	if len(got) != 0 {
		t.Fatalf("Load() = %v, want empty snapshot", got)
	}
}

func TestStoreLoadCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte(`["not","an","object"]`), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got := NewFileStore(path, discardLogger()).Load()
	if len(got) != 0 {
		t.Fatalf("Load() = %v, want empty snapshot", got)
	}
}

func TestStoreSaveNilSnapshot(t *testing.T) {
	t.Parallel()

	s := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"), discardLogger())
	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil) error = %v", err)
	}
	if got := s.Load(); len(got) != 0 {
		t.Fatalf("Load() = %v, want empty snapshot", got)
	}
}
