// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ratelimit implements per-client fixed-window rate limiting.
//
// Each Limiter owns one policy and one client registry; limiters never share
// state, so a client exhausting the login quota keeps its full general API
// quota. Counting is fixed-window: the counter hard-resets once the window
// has elapsed. A client that spends its whole quota at the end of one window
// may immediately spend a full quota in the next; this imprecision is the
// accepted cost of the strategy.
package ratelimit

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rahanss/Administrasi-Akademik/internal/config"
)

// cleanupChance is the per-call probability of sweeping stale records.
// Cleanup is amortized across requests instead of running on a timer; a
// stale record that lingers never affects admission because staleness is
// rechecked on every Admit.
const cleanupChance = 0.01

// Decision is the outcome of one admission check, with the quota metadata
// exposed to clients through response headers.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time

	// RetryAfter is the whole seconds until the window resets.
	// Set only when the request is rejected.
	RetryAfter int
}

// windowRecord tracks one client's requests within the current window.
// count includes both admitted and rejected requests.
type windowRecord struct {
	count       int
	windowStart time.Time
}

// Limiter admits or rejects requests per client key under a fixed-window
// policy. Safe for concurrent use.
type Limiter struct {
	policy config.RatePolicy

	mu       sync.Mutex
	registry map[string]*windowRecord

	// now is the clock, injectable for tests.
	now func() time.Time

	// cleanupRoll returns a value in [0,1); a roll below cleanupChance
	// triggers a sweep. Injectable for tests.
	cleanupRoll func() float64
}

// New creates a Limiter for the given policy with its own empty registry.
func New(policy config.RatePolicy) *Limiter {
	return &Limiter{
		policy:      policy,
		registry:    make(map[string]*windowRecord),
		now:         time.Now,
		cleanupRoll: rand.Float64,
	}
}

// Policy returns the limiter's policy.
func (l *Limiter) Policy() config.RatePolicy {
	return l.policy
}

// Admit records a request from the given client key and decides whether to
// admit it. Every call increments the client's window counter, so rejected
// requests keep counting against the quota.
func (l *Limiter) Admit(key string) Decision {
	now := l.now()

	l.mu.Lock()
	if l.cleanupRoll() < cleanupChance {
		l.sweepLocked(now)
	}

	rec, ok := l.registry[key]
	if !ok || now.Sub(rec.windowStart) > l.policy.Window {
		rec = &windowRecord{windowStart: now}
		l.registry[key] = rec
	}
	rec.count++
	count := rec.count
	windowStart := rec.windowStart
	l.mu.Unlock()

	resetAt := windowStart.Add(l.policy.Window)
	d := Decision{
		Limit:   l.policy.MaxRequests,
		ResetAt: resetAt,
	}

	if count > l.policy.MaxRequests {
		d.RetryAfter = int(math.Ceil(resetAt.Sub(now).Seconds()))
		return d
	}

	d.Allowed = true
	d.Remaining = l.policy.MaxRequests - count
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	return d
}

// sweepLocked evicts records whose window expired at least a full window
// length ago. Must be called with mu held.
func (l *Limiter) sweepLocked(now time.Time) {
	for key, rec := range l.registry {
		if now.Sub(rec.windowStart) > l.policy.Window {
			delete(l.registry, key)
		}
	}
}

// Size returns the number of tracked clients. Used by tests and metrics.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.registry)
}
