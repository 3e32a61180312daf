package fsstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONLWriter appends one JSON document per line to a log file. Each append
// is flushed before returning so a crash loses at most the in-flight line.
type JSONLWriter struct {
	path string

	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	closed bool
}

func NewJSONLWriter(path string) (*JSONLWriter, error) {
	normalizedPath, err := normalizePath(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureDir(filepath.Dir(normalizedPath)); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(normalizedPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, defaultFilePerm)
	if err != nil {
		return nil, fmt.Errorf("fsstore open jsonl %s: %w", normalizedPath, err)
	}
	return &JSONLWriter{
		path:   normalizedPath,
		file:   f,
		writer: bufio.NewWriter(f),
	}, nil
}

func (w *JSONLWriter) AppendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: jsonl encode %s: %v", ErrEncodeFailed, w.path, err)
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("jsonl writer closed")
	}
	if _, err := w.writer.Write(data); err != nil {
		return err
	}
	return w.writer.Flush()
}

func (w *JSONLWriter) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.writer != nil {
		_ = w.writer.Flush()
	}
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		w.writer = nil
		return err
	}
	return nil
}
