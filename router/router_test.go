package router

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/JAssiston43/whatsapp-ai-bot/llm"
)

type fakeClient struct {
	result llm.Result
	err    error
	calls  int
}

func (f *fakeClient) Chat(_ context.Context, _ llm.Request) (llm.Result, error) {
	f.calls++
	if f.err != nil {
		return llm.Result{}, f.err
	}
	return f.result, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func TestPrimarySuccessSkipsFallback(t *testing.T) {
	t.Parallel()

	primary := &fakeClient{result: llm.Result{Text: "from primary"}}
	fallback := &fakeClient{result: llm.Result{Text: "from fallback"}}
	r := New(primary, "openai", fallback, "gemini", quietLogger())

	res, err := r.Chat(context.Background(), llm.Request{})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if res.Text != "from primary" {
		t.Fatalf("Chat() text = %q, want %q", res.Text, "from primary")
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback calls = %d, want 0", fallback.calls)
	}
}

func TestQuotaFailureTriggersFallbackOnce(t *testing.T) {
	t.Parallel()

	primary := &fakeClient{err: &llm.ProviderError{Provider: "openai", Status: 429, Code: "insufficient_quota", Message: "You exceeded your current quota"}}
	fallback := &fakeClient{result: llm.Result{Text: "from fallback"}}
	r := New(primary, "openai", fallback, "gemini", quietLogger())

	res, err := r.Chat(context.Background(), llm.Request{})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if res.Text != "from fallback" {
		t.Fatalf("Chat() text = %q, want %q", res.Text, "from fallback")
	}
	if fallback.calls != 1 {
		t.Fatalf("fallback calls = %d, want 1", fallback.calls)
	}
}

func TestHardFailureSurfacesWithoutFallback(t *testing.T) {
	t.Parallel()

	authErr := &llm.ProviderError{Provider: "openai", Status: 401, Code: "invalid_api_key", Message: "Incorrect API key provided"}
	primary := &fakeClient{err: authErr}
	fallback := &fakeClient{result: llm.Result{Text: "from fallback"}}
	r := New(primary, "openai", fallback, "gemini", quietLogger())

	_, err := r.Chat(context.Background(), llm.Request{})
	if err == nil {
		t.Fatalf("Chat() expected error")
	}
	var pe *llm.ProviderError
	if !errors.As(err, &pe) || pe.Status != 401 {
		t.Fatalf("Chat() error = %v, want wrapped 401 provider error", err)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback calls = %d, want 0", fallback.calls)
	}
}

func TestMissingPrimaryCredentialsUsesFallback(t *testing.T) {
	t.Parallel()

	primary := &fakeClient{err: llm.ErrMissingCredentials}
	fallback := &fakeClient{result: llm.Result{Text: "fallback reply"}}
	r := New(primary, "openai", fallback, "gemini", quietLogger())

	res, err := r.Chat(context.Background(), llm.Request{})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if res.Text != "fallback reply" {
		t.Fatalf("Chat() text = %q, want %q", res.Text, "fallback reply")
	}
}

func TestBothFailingYieldsAllFailedError(t *testing.T) {
	t.Parallel()

	primary := &fakeClient{err: &llm.ProviderError{Provider: "openai", Status: 402, Message: "payment required"}}
	fallback := &fakeClient{err: &llm.ProviderError{Provider: "gemini", Status: 500, Message: "internal"}}
	r := New(primary, "openai", fallback, "gemini", quietLogger())

	_, err := r.Chat(context.Background(), llm.Request{})
	var all *AllFailedError
	if !errors.As(err, &all) {
		t.Fatalf("Chat() error = %v, want *AllFailedError", err)
	}
	if all.Primary == nil || all.Fallback == nil {
		t.Fatalf("AllFailedError missing component errors: %+v", all)
	}
}

func TestNoFallbackConfigured(t *testing.T) {
	t.Parallel()

	primary := &fakeClient{err: &llm.ProviderError{Provider: "openai", Status: 402, Message: "payment required"}}
	r := New(primary, "openai", nil, "", quietLogger())

	_, err := r.Chat(context.Background(), llm.Request{})
	var all *AllFailedError
	if !errors.As(err, &all) {
		t.Fatalf("Chat() error = %v, want *AllFailedError", err)
	}
}

func TestTimeoutDoesNotTriggerFallback(t *testing.T) {
	t.Parallel()

	primary := &fakeClient{err: context.DeadlineExceeded}
	fallback := &fakeClient{result: llm.Result{Text: "fallback"}}
	r := New(primary, "openai", fallback, "gemini", quietLogger())

	if _, err := r.Chat(context.Background(), llm.Request{}); err == nil {
		t.Fatalf("Chat() expected error")
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback calls = %d, want 0", fallback.calls)
	}
}
