// Package transcript keeps an append-only JSONL log of completed exchanges
// for offline inspection. It is observability, not state: losing the file
// loses nothing the bot needs.
package transcript

import (
	"time"

	"github.com/JAssiston43/whatsapp-ai-bot/internal/fsstore"
)

type Exchange struct {
	Timestamp         time.Time `json:"timestamp"`
	UserID            string    `json:"user_id"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
}

type Recorder struct {
	w   *fsstore.JSONLWriter
	now func() time.Time
}

func NewRecorder(path string) (*Recorder, error) {
	w, err := fsstore.NewJSONLWriter(path)
	if err != nil {
		return nil, err
	}
	return &Recorder{w: w, now: time.Now}, nil
}

func (r *Recorder) Record(userID, userMessage, assistantResponse string) error {
	if r == nil {
		return nil
	}
	return r.w.AppendJSON(Exchange{
		Timestamp:         r.now().UTC(),
		UserID:            userID,
		UserMessage:       userMessage,
		AssistantResponse: assistantResponse,
	})
}

func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	return r.w.Close()
}
