package entity

import (
	"math"
	"time"
)

// OutcomeKind dispatch natijasi turi
type OutcomeKind int

const (
	OutcomeIgnored OutcomeKind = iota
	OutcomeCooldown
	OutcomeGreeting
	OutcomeAnswered
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeCooldown:
		return "cooldown"
	case OutcomeGreeting:
		return "greeting"
	case OutcomeAnswered:
		return "answered"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome one pass of the dispatch policy. Replies are sent in order.
type Outcome struct {
	Kind    OutcomeKind
	Replies []string
	Err     error
}

// CooldownResult CheckAndArm natijasi
type CooldownResult struct {
	Allowed   bool
	Remaining time.Duration
}

// RemainingSeconds remaining wait rounded up to whole seconds
func (r CooldownResult) RemainingSeconds() int {
	if r.Remaining <= 0 {
		return 0
	}
	return int(math.Ceil(r.Remaining.Seconds()))
}
