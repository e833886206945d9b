package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
	"github.com/yourusername/gemini-chat-bot/internal/domain/repository"
)

// DefaultGenerateTimeout AI so'rovlari osilib qolmasligi uchun
const DefaultGenerateTimeout = 30 * time.Second

var errBlankResponse = errors.New("blank response")

// ChatUseCase chat bilan bog'liq business logic
type ChatUseCase interface {
	// Generate returns the assistant reply and records the exchange.
	// Failures are *entity.GenerationError; history is untouched on failure.
	Generate(ctx context.Context, identity, message string, uc entity.UserContext) (string, error)
	ClearHistory(ctx context.Context, identity string) error
	GetHistory(ctx context.Context, identity string) ([]entity.Turn, error)
	Stats(ctx context.Context) (entity.ConversationStats, error)
}

type chatUseCase struct {
	aiRepo   repository.AIRepository
	convRepo repository.ConversationRepository
	prompts  *PromptBuilder
	timeout  time.Duration
	logger   *slog.Logger
}

// NewChatUseCase yangi ChatUseCase yaratish
func NewChatUseCase(
	aiRepo repository.AIRepository,
	convRepo repository.ConversationRepository,
	prompts *PromptBuilder,
	timeout time.Duration,
	logger *slog.Logger,
) ChatUseCase {
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &chatUseCase{
		aiRepo:   aiRepo,
		convRepo: convRepo,
		prompts:  prompts,
		timeout:  timeout,
		logger:   logger.With(slog.String("component", "chat")),
	}
}

// Generate foydalanuvchi xabariga javob yaratish
func (u *chatUseCase) Generate(ctx context.Context, identity, message string, uc entity.UserContext) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	history, err := u.convRepo.GetHistory(ctx, identity)
	if err != nil {
		return "", &entity.GenerationError{Kind: entity.ErrUnknown, Cause: fmt.Errorf("failed to get history: %w", err)}
	}

	systemPrompt := u.prompts.BuildSystemPrompt(uc)
	payload := u.prompts.BuildPayload(systemPrompt, history, message)

	started := time.Now()
	reply, err := u.aiRepo.GenerateContent(ctx, payload)
	if err != nil {
		gerr := classifyGenerationError(err)
		u.logger.ErrorContext(ctx, "Gemini API error",
			slog.String("user", identity),
			slog.String("kind", gerr.Kind.Error()),
			slog.Any("err", err),
			slog.Duration("elapsed", time.Since(started)),
		)
		return "", gerr
	}

	// Whitespace-only text splits into no chunks; never record it
	if strings.TrimSpace(reply) == "" {
		u.logger.WarnContext(ctx, "Gemini returned a blank response", slog.String("user", identity))
		return "", &entity.GenerationError{Kind: entity.ErrUnknown, Cause: errBlankResponse}
	}

	if err := u.convRepo.AppendExchange(ctx, identity, entity.UserTurn(message), entity.AssistantTurn(reply)); err != nil {
		return "", &entity.GenerationError{Kind: entity.ErrUnknown, Cause: fmt.Errorf("failed to save exchange: %w", err)}
	}

	u.logger.InfoContext(ctx, "Generated AI response",
		slog.String("user", identity),
		slog.Int("history_turns", len(history)),
		slog.Duration("elapsed", time.Since(started)),
	)
	return reply, nil
}

// ClearHistory foydalanuvchi tarixini tozalash
func (u *chatUseCase) ClearHistory(ctx context.Context, identity string) error {
	if err := u.convRepo.ClearHistory(ctx, identity); err != nil {
		return err
	}
	u.logger.InfoContext(ctx, "Cleared conversation history", slog.String("user", identity))
	return nil
}

// GetHistory foydalanuvchi tarixini olish
func (u *chatUseCase) GetHistory(ctx context.Context, identity string) ([]entity.Turn, error) {
	return u.convRepo.GetHistory(ctx, identity)
}

func (u *chatUseCase) Stats(ctx context.Context) (entity.ConversationStats, error) {
	return u.convRepo.Stats(ctx)
}

// classifyGenerationError maps provider failures onto the four kinds
func classifyGenerationError(err error) *entity.GenerationError {
	var gerr *entity.GenerationError
	if errors.As(err, &gerr) {
		return gerr
	}

	kind := entity.ErrUnknown
	var perr *entity.ProviderError
	switch {
	case errors.As(err, &perr):
		switch {
		case strings.Contains(perr.Message, "API key not valid"):
			kind = entity.ErrInvalidCredentials
		case strings.Contains(strings.ToLower(perr.Message), "quota"):
			kind = entity.ErrQuotaExceeded
		case perr.NoResponse:
			kind = entity.ErrTimeout
		}
	case errors.Is(err, context.DeadlineExceeded):
		kind = entity.ErrTimeout
	}

	return &entity.GenerationError{Kind: kind, Cause: err}
}
