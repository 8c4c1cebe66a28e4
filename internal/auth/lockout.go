package auth

import (
	"math"
	"time"

	"github.com/elskow/naviwish/internal/config"
)

type State int

const (
	StateUnregistered State = iota
	StateActive
	StateLocked
)

func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateActive:
		return "active"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Policy decides whether a login attempt may proceed and what happens to an
// identity after a failed one. Expired lockouts are not cleared here: an
// identity whose BlockUntil has passed is simply Active again.
type Policy struct {
	MaxAttempts int
	Duration    time.Duration
}

func NewPolicy(cfg *config.AuthConfig) Policy {
	return Policy{
		MaxAttempts: cfg.MaxFailedAttempts,
		Duration:    cfg.LockoutDuration,
	}
}

func (p Policy) StateOf(identity *Identity, now time.Time) State {
	if identity == nil {
		return StateUnregistered
	}
	if identity.BlockUntil != nil && now.Before(*identity.BlockUntil) {
		return StateLocked
	}
	return StateActive
}

// Remaining returns how long the identity stays locked, or zero.
func (p Policy) Remaining(identity *Identity, now time.Time) time.Duration {
	if p.StateOf(identity, now) != StateLocked {
		return 0
	}
	return identity.BlockUntil.Sub(now)
}

// AfterFailure returns the lockout expiry that a failure bringing the counter
// to attempts triggers, or nil when the identity stays active.
func (p Policy) AfterFailure(attempts int, now time.Time) *time.Time {
	if attempts < p.MaxAttempts {
		return nil
	}
	until := now.Add(p.Duration)
	return &until
}

// RemainingMinutes rounds d up to whole minutes.
func RemainingMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Minutes()))
}
