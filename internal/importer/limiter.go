package importer

// limiter.go implements concurrency control for import processing.
//
// Each import job holds a database connection busy for its whole row
// loop, so the limiter restricts parallel jobs to a configurable maximum
// using a semaphore. When all slots are occupied, new requests wait up to
// maxWait before failing with ErrTooManyImports. WaitForDrain supports
// graceful shutdown by blocking until active jobs finish.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyImports is returned when all import slots are occupied and
// the wait timeout expires. Clients should retry after a short delay.
var ErrTooManyImports = errors.New("too many concurrent imports, please try again later")

// DefaultMaxConcurrentImports is the default limit for parallel jobs.
const DefaultMaxConcurrentImports = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 15 * time.Second

// Limiter controls concurrent import processing with a semaphore.
type Limiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewLimiter creates a limiter allowing at most maxConcurrent
// simultaneous imports. Requests that cannot acquire a slot within
// maxWait receive ErrTooManyImports.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &Limiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire attempts to acquire an import slot. Returns nil on success,
// ErrTooManyImports when the timeout expires. The caller must Release
// exactly once per successful Acquire.
func (l *Limiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyImports
	}
}

// TryAcquire attempts to acquire a slot without blocking.
func (l *Limiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release releases a previously acquired slot.
func (l *Limiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of imports currently running.
func (l *Limiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// Available returns the number of free slots.
func (l *Limiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// MaxConcurrent returns the configured slot count.
func (l *Limiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// WaitForDrain blocks until all active imports complete or the context
// is cancelled. Used during graceful shutdown.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// LimiterStatus is a snapshot of the limiter state for monitoring.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *Limiter) Status() LimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return LimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
