package repository

import (
	"context"
	"time"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

// ConversationRepository per-identity bounded chat history
type ConversationRepository interface {
	// GetHistory returns a copy of the turns, oldest first. Empty if absent.
	GetHistory(ctx context.Context, identity string) ([]entity.Turn, error)

	// AppendExchange appends the pair and drops the oldest pairs beyond the limit
	AppendExchange(ctx context.Context, identity string, user, assistant entity.Turn) error

	// ClearHistory foydalanuvchi tarixini tozalash
	ClearHistory(ctx context.Context, identity string) error

	// ClearAll barcha tarixlarni o'chirish
	ClearAll(ctx context.Context) error

	// Stats suhbatlar statistikasi
	Stats(ctx context.Context) (entity.ConversationStats, error)

	// Evict runs one cleanup cycle and reports how many identities were dropped
	Evict(ctx context.Context, now time.Time) (int, error)
}

// CooldownTracker per-identity "next eligible time" limiter
type CooldownTracker interface {
	CheckAndArm(identity string, now time.Time, d time.Duration) entity.CooldownResult
	Sweep(now time.Time) int
	Len() int
}
