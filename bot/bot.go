// Package bot routes inbound chat events to the reply orchestrator or to
// the one-shot command handlers, one worker per sender so requests from the
// same user never interleave.
package bot

import (
	"context"
)

// Transport is the outbound half of the chat channel. The bot never touches
// protocol details; adapters implement this against the real transport.
type Transport interface {
	SendText(ctx context.Context, to, text string) error
	SendImage(ctx context.Context, to string, data []byte, mimeType, caption string) error
	SendVoice(ctx context.Context, to string, data []byte, mimeType string) error
}

// Replier produces an AI reply for a user message.
type Replier interface {
	GetReply(ctx context.Context, userID, text string) (string, error)
}

// MediaClient serves the stateless image and voice commands.
type MediaClient interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	EditImage(ctx context.Context, image []byte, prompt string) ([]byte, error)
	Speech(ctx context.Context, text string) ([]byte, error)
}
