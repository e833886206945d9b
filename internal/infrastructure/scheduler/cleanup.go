package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yourusername/gemini-chat-bot/internal/domain/repository"
)

// DefaultCleanupInterval suhbatlarni tozalash oralig'i
const DefaultCleanupInterval = 30 * time.Minute

// CleanupService periodically runs conversation eviction and sweeps expired
// cooldowns. The first pass happens one interval after Start.
type CleanupService struct {
	conversations repository.ConversationRepository
	cooldowns     repository.CooldownTracker
	interval      time.Duration
	now           func() time.Time
	logger        *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewCleanupService yangi CleanupService yaratish. cooldowns may be nil.
func NewCleanupService(
	conversations repository.ConversationRepository,
	cooldowns repository.CooldownTracker,
	interval time.Duration,
	logger *slog.Logger,
) *CleanupService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupService{
		conversations: conversations,
		cooldowns:     cooldowns,
		interval:      interval,
		now:           time.Now,
		logger:        logger.With(slog.String("component", "cleanup")),
	}
}

// Start begins the periodic cleanup. Calling it twice is a no-op.
func (c *CleanupService) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	go c.run(runCtx)
}

// Stop cancels the loop and waits for it to exit
func (c *CleanupService) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	<-done
}

// IsRunning xizmat ishlayaptimi
func (c *CleanupService) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *CleanupService) run(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		c.running = false
		close(c.done)
		c.mu.Unlock()
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.InfoContext(ctx, "Cleanup service started", slog.Duration("interval", c.interval))
	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "Cleanup service stopping")
			return
		case <-ticker.C:
			c.RunOnce(ctx)
		}
	}
}

// RunOnce one eviction pass; returns the number of conversations removed
func (c *CleanupService) RunOnce(ctx context.Context) int {
	started := c.now()

	removed, err := c.conversations.Evict(ctx, started)
	if err != nil {
		c.logger.ErrorContext(ctx, "Conversation eviction failed", slog.Any("err", err))
		return 0
	}

	swept := 0
	if c.cooldowns != nil {
		swept = c.cooldowns.Sweep(started)
	}

	if removed > 0 {
		c.logger.InfoContext(ctx, "Cleaned up old conversations",
			slog.Int("removed", removed),
			slog.Int("cooldowns_swept", swept),
			slog.Duration("duration", time.Since(started)),
		)
	}

	if stats, err := c.conversations.Stats(ctx); err == nil {
		c.logger.DebugContext(ctx, "Conversation stats after cleanup",
			slog.Int("identities", stats.TotalIdentities),
			slog.Int("turns", stats.TotalTurns),
		)
	}
	return removed
}
