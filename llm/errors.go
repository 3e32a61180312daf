package llm

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials marks a backend that was configured without an API
// key. Adapters must return it before any network call is attempted.
var ErrMissingCredentials = errors.New("llm: missing credentials")

// ProviderError is a structured vendor failure. Adapters populate Status,
// Code and Message from the vendor response so callers can classify the
// failure without matching on opaque error strings.
type ProviderError struct {
	Provider string
	Status   int
	Code     string
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s http %d (%s): %s", e.Provider, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.Status, e.Message)
}
