package storage

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
	"github.com/yourusername/gemini-chat-bot/internal/domain/repository"
)

// DefaultMaxExchanges user/assistant juftliklari soni
const DefaultMaxExchanges = 10

type conversation struct {
	turns      []entity.Turn
	lastAccess time.Time
}

type memoryConversationRepository struct {
	mu           sync.RWMutex
	entries      map[string]*conversation
	maxExchanges int
	policy       EvictionPolicy
	now          func() time.Time
}

// Option memory repository sozlamasi
type Option func(*memoryConversationRepository)

// WithEvictionPolicy replaces the default random eviction
func WithEvictionPolicy(p EvictionPolicy) Option {
	return func(m *memoryConversationRepository) {
		m.policy = p
	}
}

// WithClock overrides the clock used for last-access stamps
func WithClock(now func() time.Time) Option {
	return func(m *memoryConversationRepository) {
		m.now = now
	}
}

// NewMemoryConversationRepository in-memory conversation repository yaratish
func NewMemoryConversationRepository(maxExchanges int, opts ...Option) repository.ConversationRepository {
	if maxExchanges <= 0 {
		maxExchanges = DefaultMaxExchanges
	}
	m := &memoryConversationRepository{
		entries:      make(map[string]*conversation),
		maxExchanges: maxExchanges,
		policy:       NewRandomEviction(DefaultEvictionFraction, nil),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetHistory foydalanuvchi chat tarixini olish
func (m *memoryConversationRepository) GetHistory(ctx context.Context, identity string) ([]entity.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, exists := m.entries[identity]
	if !exists {
		return []entity.Turn{}, nil
	}
	conv.lastAccess = m.now()

	out := make([]entity.Turn, len(conv.turns))
	copy(out, conv.turns)
	return out, nil
}

// AppendExchange juftlikni qo'shish va eskilarini kesish
func (m *memoryConversationRepository) AppendExchange(ctx context.Context, identity string, user, assistant entity.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, exists := m.entries[identity]
	if !exists {
		conv = &conversation{}
		m.entries[identity] = conv
	}

	conv.turns = append(conv.turns, user, assistant)
	conv.lastAccess = m.now()

	// Pairs only, so no orphaned assistant turn is left at the front
	limit := 2 * m.maxExchanges
	if len(conv.turns) > limit {
		drop := len(conv.turns) - limit
		drop += drop % 2
		trimmed := make([]entity.Turn, len(conv.turns)-drop)
		copy(trimmed, conv.turns[drop:])
		conv.turns = trimmed
	}

	return nil
}

// ClearHistory foydalanuvchi tarixini tozalash
func (m *memoryConversationRepository) ClearHistory(ctx context.Context, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, identity)
	return nil
}

// ClearAll barcha chat tarixlarini tozalash
func (m *memoryConversationRepository) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*conversation)
	return nil
}

// Stats suhbatlar statistikasi
func (m *memoryConversationRepository) Stats(ctx context.Context) (entity.ConversationStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := entity.ConversationStats{TotalIdentities: len(m.entries)}
	for _, conv := range m.entries {
		stats.TotalTurns += len(conv.turns)
	}
	return stats, nil
}

// Evict runs the eviction policy over a snapshot taken under the write lock
func (m *memoryConversationRepository) Evict(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]EntryInfo, 0, len(m.entries))
	for id, conv := range m.entries {
		infos = append(infos, EntryInfo{
			Identity:   id,
			Turns:      len(conv.turns),
			LastAccess: conv.lastAccess,
		})
	}

	removed := 0
	for _, id := range m.policy.SelectVictims(infos, now) {
		if _, ok := m.entries[id]; ok {
			delete(m.entries, id)
			removed++
		}
	}
	return removed, nil
}
