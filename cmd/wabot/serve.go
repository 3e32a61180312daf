package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JAssiston43/whatsapp-ai-bot/bot"
	"github.com/JAssiston43/whatsapp-ai-bot/history"
	"github.com/JAssiston43/whatsapp-ai-bot/internal/pathutil"
	"github.com/JAssiston43/whatsapp-ai-bot/internal/transcript"
	"github.com/JAssiston43/whatsapp-ai-bot/internal/whatsapp"
	"github.com/JAssiston43/whatsapp-ai-bot/persona"
	"github.com/JAssiston43/whatsapp-ai-bot/providers/openai"
	"github.com/JAssiston43/whatsapp-ai-bot/reply"
	"github.com/JAssiston43/whatsapp-ai-bot/router"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to WhatsApp and answer messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := persona.Load(pathutil.ExpandHomePath(viper.GetString("persona.path")))
			if err != nil {
				return err
			}

			requestTimeout := viper.GetDuration("reply.request_timeout")
			primaryName := viper.GetString("providers.primary")
			fallbackName := viper.GetString("providers.fallback")
			primary, err := providerFromViper(primaryName, requestTimeout)
			if err != nil {
				return err
			}
			if primary == nil {
				return fmt.Errorf("providers.primary is required")
			}
			fallback, err := providerFromViper(fallbackName, requestTimeout)
			if err != nil {
				return err
			}

			chain := router.New(primary, primaryName, fallback, fallbackName, logger)

			store := history.NewFileStore(pathutil.ExpandHomePath(viper.GetString("store.path")), logger)
			mem := history.NewManager(store, viper.GetInt("reply.history_max_turns"), logger)
			orch := reply.NewOrchestrator(mem, chain, reply.Config{
				System:         p.System,
				MaxTokens:      viper.GetInt("reply.max_output_tokens"),
				Temperature:    viper.GetFloat64("reply.temperature"),
				RequestTimeout: requestTimeout,
			}, logger)

			var recorder *transcript.Recorder
			if viper.GetBool("transcript.enabled") {
				recorder, err = transcript.NewRecorder(pathutil.ExpandHomePath(viper.GetString("transcript.path")))
				if err != nil {
					return err
				}
				defer recorder.Close()
			}

			// Media commands always ride on OpenAI, independent of which
			// backend answers text.
			media := openai.New(openai.Config{
				BaseURL:        viper.GetString("providers.openai.endpoint"),
				APIKey:         viper.GetString("providers.openai.api_key"),
				Model:          viper.GetString("providers.openai.model"),
				RequestTimeout: requestTimeout,
			})

			wa, err := whatsapp.New(ctx, whatsapp.Config{
				DBPath: viper.GetString("whatsapp.db_path"),
			}, logger)
			if err != nil {
				return err
			}

			dispatcher := bot.NewDispatcher(wa, orch, media, recorder, bot.Config{
				BotName:        viper.GetString("bot.name"),
				CreatorInfo:    viper.GetString("bot.creator_info"),
				TaskTimeout:    viper.GetDuration("bot.task_timeout"),
				MaxConcurrency: viper.GetInt("bot.max_concurrency"),
				QueueSize:      viper.GetInt("bot.queue_size"),
			}, logger)
			wa.SetHandler(dispatcher.Dispatch)

			if err := wa.Connect(ctx); err != nil {
				return err
			}

			logger.Info("wabot_start",
				"persona", p.Name,
				"primary", primaryName,
				"fallback", fallbackName,
				"history_max_turns", viper.GetInt("reply.history_max_turns"),
				"store_path", store.Path(),
			)

			<-ctx.Done()
			logger.Info("wabot_stopping")
			wa.Disconnect()
			dispatcher.Shutdown()
			return nil
		},
	}
}
