// Package reply turns an inbound user message into an AI reply, reading and
// updating the user's bounded conversation history around the provider call.
package reply

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JAssiston43/whatsapp-ai-bot/history"
	"github.com/JAssiston43/whatsapp-ai-bot/llm"
)

type Config struct {
	System         string
	MaxTokens      int
	Temperature    float64
	RequestTimeout time.Duration
}

type Orchestrator struct {
	mem    *history.Manager
	client llm.Client
	cfg    Config
	logger *slog.Logger

	mu    sync.Mutex
	users map[string]*sync.Mutex
}

func NewOrchestrator(mem *history.Manager, client llm.Client, cfg Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		mem:    mem,
		client: client,
		cfg:    cfg,
		logger: logger,
		users:  make(map[string]*sync.Mutex),
	}
}

// GetReply records text as a user turn, asks the provider chain for a reply
// with the bounded history as context, and records the reply as an
// assistant turn. At most one call per user id runs at a time; without the
// per-user lock two interleaved calls could both read history before either
// appends and silently drop a turn.
//
// On provider failure the user turn stays recorded and no assistant turn is
// appended; what the user said still counts as said.
func (o *Orchestrator) GetReply(ctx context.Context, userID, text string) (string, error) {
	unlock := o.lockUser(userID)
	defer unlock()

	o.mem.Append(userID, llm.RoleUser, text)

	turns := o.mem.Read(userID)
	messages := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}

	if o.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RequestTimeout)
		defer cancel()
	}

	res, err := o.client.Chat(ctx, llm.Request{
		System:      o.cfg.System,
		Messages:    messages,
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}

	o.mem.Append(userID, llm.RoleAssistant, res.Text)
	o.logger.Debug("reply_generated",
		"user_id", userID,
		"input_tokens", res.Usage.InputTokens,
		"output_tokens", res.Usage.OutputTokens,
		"duration", res.Duration.String(),
	)
	return res.Text, nil
}

func (o *Orchestrator) lockUser(userID string) func() {
	o.mu.Lock()
	m, ok := o.users[userID]
	if !ok {
		m = &sync.Mutex{}
		o.users[userID] = m
	}
	o.mu.Unlock()

	m.Lock()
	return m.Unlock
}
