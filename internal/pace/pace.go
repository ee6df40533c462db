// Package pace provides outbound request pacing and fail-fast protection for
// the external APIs the analysis pipeline depends on. The Limiter keeps
// request rates inside provider quotas; the Breaker stops hammering an API
// that is clearly down or quota-starved so the caller can degrade quickly.
package pace

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrOpen is returned by Breaker.Allow while the breaker is failing fast.
var ErrOpen = errors.New("pace: breaker open")

// State represents the state of a Breaker.
type State int

const (
	// StateClosed is the normal state where requests are allowed.
	StateClosed State = iota
	// StateOpen is the state where requests fail fast.
	StateOpen
	// StateHalfOpen allows a single probe request through.
	StateHalfOpen
)

// String returns the string representation of a breaker state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Limiter paces outbound requests with a token bucket. A nil Limiter allows
// everything.
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter creates a limiter allowing rps requests per second with the
// given burst. rps <= 0 returns nil (unlimited).
func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a token is available or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.bucket.Wait(ctx)
}

// Breaker is a minimal circuit breaker: it opens after Threshold consecutive
// failures, stays open for Cooldown, then lets one probe request through.
// A nil Breaker allows everything.
type Breaker struct {
	mu sync.Mutex

	threshold int
	cooldown  time.Duration

	state       State
	failures    int
	lastChange  time.Time
	probeIssued bool
}

// Defaults for NewBreaker.
const (
	DefaultThreshold = 3
	DefaultCooldown  = 30 * time.Second
)

// NewBreaker creates a breaker. Non-positive arguments fall back to the
// defaults.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Breaker{
		threshold:  threshold,
		cooldown:   cooldown,
		state:      StateClosed,
		lastChange: time.Now(),
	}
}

// Allow reports whether a request may proceed. Returns ErrOpen while the
// breaker is failing fast.
func (b *Breaker) Allow() error {
	if b == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(b.lastChange) >= b.cooldown {
			b.state = StateHalfOpen
			b.lastChange = time.Now()
			b.probeIssued = true
			return nil
		}
		return ErrOpen
	case StateHalfOpen:
		if !b.probeIssued {
			b.probeIssued = true
			return nil
		}
		return ErrOpen
	default:
		return nil
	}
}

// RecordSuccess resets failure tracking; in half-open state it closes the
// breaker.
func (b *Breaker) RecordSuccess() {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state != StateClosed {
		b.state = StateClosed
		b.lastChange = time.Now()
	}
	b.probeIssued = false
}

// RecordFailure counts a failure; at the threshold the breaker opens. A
// failed half-open probe reopens immediately.
func (b *Breaker) RecordFailure() {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.threshold {
			b.state = StateOpen
			b.lastChange = time.Now()
		}
	case StateHalfOpen:
		b.failures++
		b.state = StateOpen
		b.lastChange = time.Now()
		b.probeIssued = false
	}
}

// CurrentState returns the breaker's state, accounting for cooldown expiry.
func (b *Breaker) CurrentState() State {
	if b == nil {
		return StateClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && time.Since(b.lastChange) >= b.cooldown {
		return StateHalfOpen
	}
	return b.state
}
