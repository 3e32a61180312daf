package router

import (
	"errors"
	"fmt"
	"testing"

	"github.com/JAssiston43/whatsapp-ai-bot/llm"
)

func TestRetryableWithFallback(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "structured quota code",
			err:  &llm.ProviderError{Provider: "openai", Status: 429, Code: "insufficient_quota", Message: "quota"},
			want: true,
		},
		{
			name: "quota phrase without code",
			err:  &llm.ProviderError{Provider: "openai", Status: 400, Message: "You exceeded your current quota, please check your plan"},
			want: true,
		},
		{
			name: "payment required",
			err:  &llm.ProviderError{Provider: "gemini", Status: 402, Message: "payment required"},
			want: true,
		},
		{
			name: "429 mentioning quota",
			err:  &llm.ProviderError{Provider: "gemini", Status: 429, Message: "Quota exceeded for metric generate_requests"},
			want: true,
		},
		{
			name: "plain rate limit without quota mention",
			err:  &llm.ProviderError{Provider: "openai", Status: 429, Code: "rate_limit_exceeded", Message: "Too many requests, slow down"},
			want: false,
		},
		{
			name: "auth failure",
			err:  &llm.ProviderError{Provider: "openai", Status: 401, Code: "invalid_api_key", Message: "Incorrect API key provided"},
			want: false,
		},
		{
			name: "server error",
			err:  &llm.ProviderError{Provider: "gemini", Status: 500, Message: "internal error"},
			want: false,
		},
		{
			name: "plain error value",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "wrapped provider error",
			err:  fmt.Errorf("chat: %w", &llm.ProviderError{Provider: "openai", Status: 402, Message: "payment required"}),
			want: true,
		},
		{
			name: "missing credentials sentinel",
			err:  llm.ErrMissingCredentials,
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := RetryableWithFallback(tc.err); got != tc.want {
				t.Fatalf("RetryableWithFallback(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
