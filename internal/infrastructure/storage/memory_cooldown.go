package storage

import (
	"sync"
	"time"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
	"github.com/yourusername/gemini-chat-bot/internal/domain/repository"
)

type memoryCooldownTracker struct {
	mu    sync.Mutex
	until map[string]time.Time
}

// NewMemoryCooldownTracker in-memory cooldown tracker yaratish
func NewMemoryCooldownTracker() repository.CooldownTracker {
	return &memoryCooldownTracker{
		until: make(map[string]time.Time),
	}
}

// CheckAndArm accepts when no entry exists or it has expired, and re-arms
func (m *memoryCooldownTracker) CheckAndArm(identity string, now time.Time, d time.Duration) entity.CooldownResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if until, ok := m.until[identity]; ok && now.Before(until) {
		return entity.CooldownResult{Allowed: false, Remaining: until.Sub(now)}
	}

	m.until[identity] = now.Add(d)
	return entity.CooldownResult{Allowed: true}
}

// Sweep muddati o'tgan yozuvlarni o'chirish
func (m *memoryCooldownTracker) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, until := range m.until {
		if !until.After(now) {
			delete(m.until, id)
			removed++
		}
	}
	return removed
}

func (m *memoryCooldownTracker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.until)
}
