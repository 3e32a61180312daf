package history

import (
	"log/slog"
	"strings"

	"github.com/JAssiston43/whatsapp-ai-bot/internal/fsstore"
)

// FileStore is the durability boundary for conversation history: one JSON
// file holding the whole Snapshot, rewritten atomically on every save.
type FileStore struct {
	path   string
	logger *slog.Logger
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: strings.TrimSpace(path), logger: logger}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads the artifact. A missing, empty or corrupt file yields an empty
// snapshot with a warning; startup never fails on bad history.
func (s *FileStore) Load() Snapshot {
	snap := Snapshot{}
	ok, err := fsstore.ReadJSON(s.path, &snap)
	if err != nil {
		s.logger.Warn("history_load_error", "path", s.path, "error", err.Error())
		return Snapshot{}
	}
	if !ok {
		return Snapshot{}
	}
	if snap == nil {
		return Snapshot{}
	}
	return snap
}

func (s *FileStore) Save(snap Snapshot) error {
	if snap == nil {
		snap = Snapshot{}
	}
	return fsstore.WriteJSONAtomic(s.path, snap)
}
