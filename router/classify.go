package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JAssiston43/whatsapp-ai-bot/llm"
)

// quotaExhaustedCode is OpenAI's structured code for a spent allowance.
const quotaExhaustedCode = "insufficient_quota"

// Phrases vendors use when the account's allowance is exhausted, as opposed
// to transient rate limiting.
var quotaExhaustionPhrases = []string{
	"insufficient_quota",
	"exceeded your current quota",
	"billing hard limit",
	"check your plan and billing",
}

// RetryableWithFallback reports whether a primary-provider failure should
// trigger the fallback backend. Only quota/billing exhaustion qualifies:
//   - the structured code equals insufficient_quota, or
//   - the message carries a known exhaustion phrase, or
//   - HTTP 402, or
//   - HTTP 429 whose message mentions quota. A bare 429 is ambiguous between
//     rate limiting and exhaustion, so it does not qualify on its own.
//
// Anything else (auth, network, malformed request, timeouts) is not
// retryable and must surface immediately.
func RetryableWithFallback(err error) bool {
	var pe *llm.ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	if pe.Code == quotaExhaustedCode {
		return true
	}
	msg := strings.ToLower(pe.Message)
	for _, phrase := range quotaExhaustionPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	switch pe.Status {
	case http.StatusPaymentRequired:
		return true
	case http.StatusTooManyRequests:
		return strings.Contains(msg, "quota")
	}
	return false
}
