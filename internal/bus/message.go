// Package bus defines the transport-neutral inbound event shape handed from
// a chat transport to the dispatcher.
package bus

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Inbound struct {
	ID         string
	SenderID   string
	PushName   string
	Text       string
	Media      []byte
	MIMEType   string
	ReceivedAt time.Time
}

// NewInbound stamps an event with an id and receive time.
func NewInbound(senderID, pushName, text string) Inbound {
	return Inbound{
		ID:         uuid.NewString(),
		SenderID:   strings.TrimSpace(senderID),
		PushName:   strings.TrimSpace(pushName),
		Text:       text,
		ReceivedAt: time.Now().UTC(),
	}
}

func (m Inbound) HasMedia() bool {
	return len(m.Media) > 0
}

func (m Inbound) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(m.SenderID) == "" {
		return fmt.Errorf("sender_id is required")
	}
	if strings.Contains(m.SenderID, " ") {
		return fmt.Errorf("sender_id must not contain spaces")
	}
	if m.ReceivedAt.IsZero() {
		return fmt.Errorf("received_at is required")
	}
	if len(m.Media) > 0 && strings.TrimSpace(m.MIMEType) == "" {
		return fmt.Errorf("mime_type is required when media is attached")
	}
	return nil
}
