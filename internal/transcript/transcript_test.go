package transcript

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestRecordAppendsExchanges(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	r, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	defer r.Close()

	if err := r.Record("u1", "hello", "hi there"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := r.Record("u2", "ping", "pong"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	var got []Exchange
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Exchange
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("exchange count = %d, want 2", len(got))
	}
	if got[0].UserID != "u1" || got[0].AssistantResponse != "hi there" {
		t.Fatalf("first exchange = %+v", got[0])
	}
	if got[1].Timestamp.IsZero() {
		t.Fatalf("timestamp not stamped")
	}
}

func TestNilRecorderIsANoOp(t *testing.T) {
	t.Parallel()

	var r *Recorder
	if err := r.Record("u1", "a", "b"); err != nil {
		t.Fatalf("Record() on nil error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() on nil error = %v", err)
	}
}
