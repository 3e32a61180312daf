package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JAssiston43/whatsapp-ai-bot/llm"
	"github.com/JAssiston43/whatsapp-ai-bot/providers/anthropic"
	"github.com/JAssiston43/whatsapp-ai-bot/providers/gemini"
	"github.com/JAssiston43/whatsapp-ai-bot/providers/openai"
)

// providerFromViper builds a chat backend by name. A missing API key is not
// an error here: the client reports ErrMissingCredentials on use, which the
// router treats as that provider's failure.
func providerFromViper(name string, timeout time.Duration) (llm.Client, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return openai.New(openai.Config{
			BaseURL:        viper.GetString("providers.openai.endpoint"),
			APIKey:         viper.GetString("providers.openai.api_key"),
			Model:          viper.GetString("providers.openai.model"),
			RequestTimeout: timeout,
		}), nil
	case "gemini":
		return gemini.New(gemini.Config{
			BaseURL:        viper.GetString("providers.gemini.endpoint"),
			APIKey:         viper.GetString("providers.gemini.api_key"),
			Model:          viper.GetString("providers.gemini.model"),
			RequestTimeout: timeout,
		}), nil
	case "anthropic":
		return anthropic.New(anthropic.Config{
			APIKey:         viper.GetString("providers.anthropic.api_key"),
			Model:          viper.GetString("providers.anthropic.model"),
			RequestTimeout: timeout,
		}), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai|gemini|anthropic)", name)
	}
}
