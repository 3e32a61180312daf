// Package router chains a primary and a fallback llm.Client. The fallback
// is attempted only when the primary's failure is classified as quota or
// billing exhaustion, or when the primary has no credentials at all.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JAssiston43/whatsapp-ai-bot/llm"
)

// AllFailedError is the terminal failure: both backends were attempted (or
// skipped for missing credentials) and neither produced a reply.
type AllFailedError struct {
	Primary  error
	Fallback error
}

func (e *AllFailedError) Error() string {
	return fmt.Sprintf("all providers failed: primary: %v; fallback: %v", e.Primary, e.Fallback)
}

type Router struct {
	primary      llm.Client
	primaryName  string
	fallback     llm.Client
	fallbackName string
	logger       *slog.Logger
}

func New(primary llm.Client, primaryName string, fallback llm.Client, fallbackName string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		primary:      primary,
		primaryName:  primaryName,
		fallback:     fallback,
		fallbackName: fallbackName,
		logger:       logger,
	}
}

// Chat attempts the primary backend, then the fallback at most once. A
// primary failure that is neither quota exhaustion nor missing credentials
// surfaces immediately.
func (r *Router) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	res, primaryErr := r.primary.Chat(ctx, req)
	if primaryErr == nil {
		return res, nil
	}

	if !errors.Is(primaryErr, llm.ErrMissingCredentials) && !RetryableWithFallback(primaryErr) {
		return llm.Result{}, fmt.Errorf("provider %s: %w", r.primaryName, primaryErr)
	}
	if r.fallback == nil {
		return llm.Result{}, &AllFailedError{Primary: primaryErr, Fallback: errors.New("no fallback configured")}
	}

	r.logger.Warn("provider_fallback",
		"primary", r.primaryName,
		"fallback", r.fallbackName,
		"error", primaryErr.Error(),
	)

	res, fallbackErr := r.fallback.Chat(ctx, req)
	if fallbackErr == nil {
		return res, nil
	}
	return llm.Result{}, &AllFailedError{Primary: primaryErr, Fallback: fallbackErr}
}
