package adminauth

import (
	"math"
	"time"
)

// LockoutPolicy is the pure lockout state machine over Admin values. The
// persistence side (atomic counter updates) lives in the Admins repository;
// this type only answers questions about plain records.
type LockoutPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
	now          func() time.Time
}

// LockoutOption customizes LockoutPolicy construction.
type LockoutOption func(*LockoutPolicy)

// WithLockoutClock injects a custom clock (useful for tests).
func WithLockoutClock(clock func() time.Time) LockoutOption {
	return func(p *LockoutPolicy) {
		if clock != nil {
			p.now = clock
		}
	}
}

// NewLockoutPolicy builds a policy; non-positive parameters fall back to the
// package defaults.
func NewLockoutPolicy(maxAttempts int, lockDuration time.Duration, opts ...LockoutOption) LockoutPolicy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxLoginAttempts
	}
	if lockDuration <= 0 {
		lockDuration = DefaultLockDuration
	}

	policy := LockoutPolicy{
		MaxAttempts:  maxAttempts,
		LockDuration: lockDuration,
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&policy)
		}
	}

	return policy
}

// IsLocked reports whether the account is currently locked. A lock in the
// past is stale and ignorable: locks lift lazily, no sweeper runs.
func (p LockoutPolicy) IsLocked(admin *Admin) bool {
	if admin == nil || admin.LockedUntil == nil {
		return false
	}
	return admin.LockedUntil.After(p.now())
}

// RemainingLockMinutes returns the minutes left on an active lock, rounded
// up so the user-facing message never promises an earlier retry than the
// lock allows. Zero means not locked.
func (p LockoutPolicy) RemainingLockMinutes(admin *Admin) int {
	if !p.IsLocked(admin) {
		return 0
	}
	remaining := admin.LockedUntil.Sub(p.now())
	return int(math.Ceil(remaining.Minutes()))
}

// CandidateLock returns the timestamp an account would stay locked until if
// the next recorded failure crosses the attempt threshold. The repository
// applies it conditionally inside the same atomic increment.
func (p LockoutPolicy) CandidateLock() time.Time {
	return p.now().Add(p.LockDuration)
}
