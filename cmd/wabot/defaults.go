package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	// Provider chain. Keys come from the environment (WABOT_PROVIDERS_*).
	viper.SetDefault("providers.primary", "openai")
	viper.SetDefault("providers.fallback", "gemini")

	viper.SetDefault("providers.openai.endpoint", "https://api.openai.com")
	viper.SetDefault("providers.openai.api_key", "")
	viper.SetDefault("providers.openai.model", "gpt-4o-mini")

	viper.SetDefault("providers.gemini.endpoint", "https://generativelanguage.googleapis.com")
	viper.SetDefault("providers.gemini.api_key", "")
	viper.SetDefault("providers.gemini.model", "gemini-2.0-flash")

	viper.SetDefault("providers.anthropic.api_key", "")
	viper.SetDefault("providers.anthropic.model", "claude-3-5-haiku-latest")

	// Reply generation.
	viper.SetDefault("reply.max_output_tokens", 1024)
	viper.SetDefault("reply.temperature", 0.7)
	viper.SetDefault("reply.history_max_turns", 10)
	viper.SetDefault("reply.request_timeout", 90*time.Second)
	viper.SetDefault("persona.path", "")

	// Durable state.
	viper.SetDefault("store.path", "~/.wabot/sessions.json")
	viper.SetDefault("transcript.enabled", false)
	viper.SetDefault("transcript.path", "~/.wabot/transcript.jsonl")

	// Transport and dispatch.
	viper.SetDefault("whatsapp.db_path", "~/.wabot/whatsapp.db")
	viper.SetDefault("bot.name", "wabot")
	viper.SetDefault("bot.creator_info", "")
	viper.SetDefault("bot.task_timeout", 2*time.Minute)
	viper.SetDefault("bot.max_concurrency", 3)
	viper.SetDefault("bot.queue_size", 16)
}
