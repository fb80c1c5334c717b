package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// apiGate is the explicit acquire-before-call gate in front of every API
// request: a blocking rate limiter plus a running daily quota counter.
type apiGate struct {
	limiter *rate.Limiter

	mu         sync.Mutex
	quotaLimit int
	quotaUsed  int
	day        time.Time

	now func() time.Time
}

func newAPIGate(requestsPerSecond float64, quotaLimit int) *apiGate {
	return &apiGate{
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		quotaLimit: quotaLimit,
		now:        time.Now,
	}
}

// acquire blocks until the rate limiter admits the call, then charges the
// given quota units. It refuses with KindQuotaExceeded once the daily
// ceiling is reached; the counter resets when the (UTC) day rolls over.
func (g *apiGate) acquire(ctx context.Context, op string, units int) error {
	g.mu.Lock()
	today := g.now().UTC().Truncate(24 * time.Hour)
	if !g.day.Equal(today) {
		g.day = today
		g.quotaUsed = 0
	}
	if g.quotaUsed+units > g.quotaLimit {
		g.mu.Unlock()
		return &Error{Kind: KindQuotaExceeded, Op: op}
	}
	g.quotaUsed += units
	g.mu.Unlock()

	if err := g.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindFatal, Op: op, Err: err}
	}
	return nil
}

// used returns the quota units consumed today.
func (g *apiGate) used() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.quotaUsed
}
