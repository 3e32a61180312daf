// Package gemini is a thin client for the Google Generative Language API
// (generateContent) used as a chat backend.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/JAssiston43/whatsapp-ai-bot/llm"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
)

type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func New(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature,omitempty"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
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

	body := generateRequest{}
	if req.System != "" {
		body.SystemInstruction = &generateContent{Parts: []generatePart{{Text: req.System}}}
	}
	for _, m := range req.Messages {
		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "model"
		}
		body.Contents = append(body.Contents, generateContent{
			Role:  role,
			Parts: []generatePart{{Text: m.Content}},
		})
	}
	body.GenerationConfig.Temperature = req.Temperature
	body.GenerationConfig.MaxOutputTokens = req.MaxTokens

	b, err := json.Marshal(body)
	if err != nil {
		return llm.Result{}, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return llm.Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return llm.Result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Result{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return llm.Result{}, apiError(resp.StatusCode, raw)
	}

	var text strings.Builder
	for _, part := range gjson.GetBytes(raw, "candidates.0.content.parts").Array() {
		text.WriteString(part.Get("text").String())
	}

	return llm.Result{
		Text: text.String(),
		Usage: llm.Usage{
			InputTokens:  int(gjson.GetBytes(raw, "usageMetadata.promptTokenCount").Int()),
			OutputTokens: int(gjson.GetBytes(raw, "usageMetadata.candidatesTokenCount").Int()),
			TotalTokens:  int(gjson.GetBytes(raw, "usageMetadata.totalTokenCount").Int()),
		},
		Duration: time.Since(start),
	}, nil
}

// apiError maps a Generative Language error body to a ProviderError. The
// vendor's symbolic status (RESOURCE_EXHAUSTED, PERMISSION_DENIED, ...)
// becomes the classification code.
func apiError(status int, raw []byte) error {
	message := gjson.GetBytes(raw, "error.message").String()
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	return &llm.ProviderError{
		Provider: "gemini",
		Status:   status,
		Code:     gjson.GetBytes(raw, "error.status").String(),
		Message:  message,
	}
}
