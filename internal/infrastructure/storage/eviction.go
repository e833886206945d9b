package storage

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultEvictionFraction share of conversations dropped per random sweep
	DefaultEvictionFraction = 0.10
	// DefaultMaxIdle idle cutoff for IdleEviction
	DefaultMaxIdle = time.Hour
)

// EntryInfo snapshot of one conversation handed to an EvictionPolicy
type EntryInfo struct {
	Identity   string
	Turns      int
	LastAccess time.Time
}

// EvictionPolicy decides which conversations a cleanup cycle drops.
// Called with the store lock held; must not call back into the store.
type EvictionPolicy interface {
	SelectVictims(entries []EntryInfo, now time.Time) []string
}

// EvictionFunc adapter for plain functions
type EvictionFunc func(entries []EntryInfo, now time.Time) []string

func (f EvictionFunc) SelectVictims(entries []EntryInfo, now time.Time) []string {
	return f(entries, now)
}

// RandomEviction drops empty conversations and each remaining one with
// probability Fraction, independent of activity. Compatibility behaviour.
type RandomEviction struct {
	fraction float64
	mu       sync.Mutex
	rnd      *rand.Rand
}

// NewRandomEviction rnd nil bo'lsa global manba ishlatiladi
func NewRandomEviction(fraction float64, rnd *rand.Rand) *RandomEviction {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return &RandomEviction{fraction: fraction, rnd: rnd}
}

func (r *RandomEviction) SelectVictims(entries []EntryInfo, now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var victims []string
	for _, e := range entries {
		if e.Turns == 0 || r.float() < r.fraction {
			victims = append(victims, e.Identity)
		}
	}
	return victims
}

func (r *RandomEviction) float() float64 {
	if r.rnd == nil {
		return rand.Float64()
	}
	return r.rnd.Float64()
}

// IdleEviction drops conversations not touched within MaxIdle
type IdleEviction struct {
	MaxIdle time.Duration
}

func (p IdleEviction) SelectVictims(entries []EntryInfo, now time.Time) []string {
	maxIdle := p.MaxIdle
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdle
	}

	var victims []string
	for _, e := range entries {
		if e.Turns == 0 || now.Sub(e.LastAccess) > maxIdle {
			victims = append(victims, e.Identity)
		}
	}
	return victims
}

// LRUEviction keeps at most Capacity conversations, dropping the least
// recently used first
type LRUEviction struct {
	Capacity int
}

func (p LRUEviction) SelectVictims(entries []EntryInfo, now time.Time) []string {
	if len(entries) <= p.Capacity {
		return nil
	}

	sorted := make([]EntryInfo, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LastAccess.Before(sorted[j].LastAccess)
	})

	excess := len(sorted) - p.Capacity
	victims := make([]string, 0, excess)
	for _, e := range sorted[:excess] {
		victims = append(victims, e.Identity)
	}
	return victims
}
