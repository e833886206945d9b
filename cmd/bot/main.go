package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/gemini-chat-bot/config"
	"github.com/yourusername/gemini-chat-bot/internal/delivery/httpapi"
	"github.com/yourusername/gemini-chat-bot/internal/delivery/telegram"
	"github.com/yourusername/gemini-chat-bot/internal/domain/repository"
	"github.com/yourusername/gemini-chat-bot/internal/infrastructure/export"
	"github.com/yourusername/gemini-chat-bot/internal/infrastructure/gemini"
	"github.com/yourusername/gemini-chat-bot/internal/infrastructure/scheduler"
	"github.com/yourusername/gemini-chat-bot/internal/infrastructure/storage"
	"github.com/yourusername/gemini-chat-bot/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	persona, err := config.LoadPersona(cfg.PersonaFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aiRepo, closeAI, err := newAIRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAI()

	conversations := storage.NewMemoryConversationRepository(cfg.MaxExchanges,
		storage.WithEvictionPolicy(evictionPolicy(cfg)),
	)
	cooldowns := storage.NewMemoryCooldownTracker()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	chat := usecase.NewChatUseCase(aiRepo, conversations, usecase.NewPromptBuilder(persona), cfg.AITimeout, logger)
	dispatch := usecase.NewDispatchUseCase(chat, cooldowns, usecase.DispatchConfig{
		Cooldown:         cfg.Cooldown,
		MaxMessageLength: cfg.MaxMessageLength,
		BotAddress:       usecase.BotAddressPattern(bot.Self.UserName),
	}, nil, logger)

	handler := telegram.NewBotHandler(bot, telegram.Deps{
		Dispatch: dispatch,
		Chat:     chat,
		Analysis: usecase.NewAnalysisUseCase(aiRepo, cfg.AITimeout),
		Exporter: export.NewXLSXExporter(),
	}, logger)

	cleanup := scheduler.NewCleanupService(conversations, cooldowns, cfg.GCInterval, logger)
	cleanup.Start(ctx)
	defer cleanup.Stop()

	if cfg.HTTPAddr != "" {
		srv := httpapi.NewServer(cfg.HTTPAddr, chat, cooldowns, logger)
		if err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("HTTP server shutdown error", slog.Any("err", err))
			}
		}()
	}

	logger.Info("Starting bot",
		slog.String("transport", cfg.AITransport),
		slog.String("model", cfg.GeminiModel),
		slog.String("eviction", cfg.Eviction),
	)
	if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("bot stopped: %w", err)
	}
	logger.Info("Bot stopped")
	return nil
}

// newAIRepository AI_TRANSPORT bo'yicha Gemini klientini tanlash
func newAIRepository(ctx context.Context, cfg *config.Config) (repository.AIRepository, func(), error) {
	switch cfg.AITransport {
	case config.TransportSDK:
		client, err := gemini.NewSDKClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, func() { _ = client.Close() }, nil
	default:
		client := gemini.NewRESTClient(gemini.RESTConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
			Timeout: cfg.AITimeout,
		})
		return client, func() {}, nil
	}
}

func evictionPolicy(cfg *config.Config) storage.EvictionPolicy {
	if cfg.Eviction == config.EvictionIdle {
		return storage.IdleEviction{MaxIdle: cfg.MaxIdle}
	}
	return storage.NewRandomEviction(cfg.EvictionFraction, nil)
}
