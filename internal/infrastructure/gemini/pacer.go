package gemini

import (
	"context"
	"sync"
	"time"
)

const (
	defaultConcurrency = 3
	defaultMinInterval = 350 * time.Millisecond
)

// pacer bounds in-flight requests and keeps a minimal interval between starts
type pacer struct {
	sem   chan struct{}
	mu    sync.Mutex
	last  time.Time
	delay time.Duration
}

func newPacer(concurrency int, delay time.Duration) *pacer {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &pacer{
		sem:   make(chan struct{}, concurrency),
		delay: delay,
	}
}

func (p *pacer) acquire(ctx context.Context) (func(), error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	release := func() { <-p.sem }

	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if !p.last.IsZero() {
		if wait := p.delay - now.Sub(p.last); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				release()
				return nil, ctx.Err()
			}
			now = time.Now()
		}
	}
	p.last = now

	return release, nil
}
