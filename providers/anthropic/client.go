// Package anthropic adapts the official Anthropic SDK to the llm.Client
// interface so Claude models can serve as either chain position.
package anthropic

import (
	"context"
	"errors"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/JAssiston43/whatsapp-ai-bot/llm"
)

const defaultModel = string(anthropicsdk.ModelClaude3_5HaikuLatest)

type Config struct {
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

type Client struct {
	apiKey string
	model  string
	sdk    *anthropicsdk.Client
}

func New(cfg Config) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.RequestTimeout))
	}
	sdk := anthropicsdk.NewClient(opts...)
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  model,
		sdk:    &sdk,
	}
}

func (c *Client) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	if c.apiKey == "" {
		return llm.Result{}, llm.ErrMissingCredentials
	}
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	messages := make([]anthropicsdk.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		block := anthropicsdk.NewTextBlock(m.Content)
		if m.Role == llm.RoleAssistant {
			messages = append(messages, anthropicsdk.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropicsdk.NewUserMessage(block))
		}
	}

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}
	if req.System != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropicsdk.Float(req.Temperature)
	}

	msg, err := c.sdk.Messages.New(ctx, params)
	if err != nil {
		return llm.Result{}, mapError(err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return llm.Result{
		Text: text.String(),
		Usage: llm.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
			TotalTokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
		Duration: time.Since(start),
	}, nil
}

func mapError(err error) error {
	var apierr *anthropicsdk.Error
	if !errors.As(err, &apierr) {
		return err
	}
	return &llm.ProviderError{
		Provider: "anthropic",
		Status:   apierr.StatusCode,
		Message:  apierr.Error(),
	}
}
