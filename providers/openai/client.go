// Package openai is a thin client for the OpenAI REST API: chat
// completions for the reply path plus one-shot image and speech calls used
// by the bot's media commands.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/JAssiston43/whatsapp-ai-bot/llm"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini"

	imageModel  = "gpt-image-1"
	speechModel = "gpt-4o-mini-tts"
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

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_completion_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
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
	messages := make([]llm.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, llm.Message{Role: "system", Content: req.System})
	}
	messages = append(messages, req.Messages...)

	body := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	raw, status, err := c.post(ctx, "/v1/chat/completions", body)
	if err != nil {
		return llm.Result{}, err
	}
	if status < 200 || status >= 300 {
		return llm.Result{}, apiError(status, raw)
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return llm.Result{}, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return llm.Result{}, fmt.Errorf("openai: empty choices")
	}

	return llm.Result{
		Text: out.Choices[0].Message.Content,
		Usage: llm.Usage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
			TotalTokens:  out.Usage.TotalTokens,
		},
		Duration: time.Since(start),
	}, nil
}

// GenerateImage returns PNG bytes for prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, llm.ErrMissingCredentials
	}
	body := map[string]any{
		"model":  imageModel,
		"prompt": prompt,
		"n":      1,
		"size":   "1024x1024",
	}
	raw, status, err := c.post(ctx, "/v1/images/generations", body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, raw)
	}
	b64 := gjson.GetBytes(raw, "data.0.b64_json").String()
	if b64 == "" {
		return nil, fmt.Errorf("openai: image response has no data")
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("openai: decode image payload: %w", err)
	}
	return data, nil
}

// EditImage applies prompt to the supplied image and returns PNG bytes.
func (c *Client) EditImage(ctx context.Context, image []byte, prompt string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, llm.ErrMissingCredentials
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "image.png")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := w.WriteField("model", imageModel); err != nil {
		return nil, err
	}
	if err := w.WriteField("prompt", prompt); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/edits", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp.StatusCode, raw)
	}
	b64 := gjson.GetBytes(raw, "data.0.b64_json").String()
	if b64 == "" {
		return nil, fmt.Errorf("openai: image edit response has no data")
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("openai: decode image payload: %w", err)
	}
	return data, nil
}

// Speech synthesizes text and returns opus audio bytes suitable for a
// voice-note reply.
func (c *Client) Speech(ctx context.Context, text string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, llm.ErrMissingCredentials
	}
	body := map[string]any{
		"model":           speechModel,
		"voice":           "alloy",
		"input":           text,
		"response_format": "opus",
	}
	raw, status, err := c.post(ctx, "/v1/audio/speech", body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, raw)
	}
	return raw, nil
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return raw, resp.StatusCode, nil
}

// apiError lifts the vendor error body into a structured ProviderError.
// gjson tolerates error.code being a string, number or null, which the
// OpenAI API mixes freely across failure kinds.
func apiError(status int, raw []byte) error {
	message := gjson.GetBytes(raw, "error.message").String()
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	return &llm.ProviderError{
		Provider: "openai",
		Status:   status,
		Code:     gjson.GetBytes(raw, "error.code").String(),
		Message:  message,
	}
}
