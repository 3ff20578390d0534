// Package ratelimit provides token bucket rate limiting for the MCP tools.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrRateLimited is returned by Check when a tool's bucket is empty.
var ErrRateLimited = errors.New("rate limit exceeded")

// Rule is the refill rate and burst size of one bucket.
type Rule struct {
	PerMinute float64
	Burst     int
}

// Limiter is a token bucket. The burst size is also the initial token
// count. It is safe for concurrent use.
type Limiter struct {
	mu        sync.Mutex
	rate      float64 // tokens per second
	burst     float64
	tokens    float64
	lastCheck time.Time
	nowFunc   func() time.Time
}

// NewLimiter creates a limiter from a rule.
func NewLimiter(rule Rule) *Limiter {
	return newLimiterAt(rule, time.Now)
}

func newLimiterAt(rule Rule, now func() time.Time) *Limiter {
	return &Limiter{
		rate:      rule.PerMinute / 60,
		burst:     float64(rule.Burst),
		tokens:    float64(rule.Burst),
		lastCheck: now(),
		nowFunc:   now,
	}
}

// Allow takes one token if available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if elapsed := now.Sub(l.lastCheck).Seconds(); elapsed > 0 {
		l.tokens = min(l.burst, l.tokens+l.rate*elapsed)
		l.lastCheck = now
	}

	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}

// ToolLimiters maps tool names to their limiters.
type ToolLimiters map[string]*Limiter

// DefaultRules returns the limits for the evaluation tools. Evaluations are
// bounded by the round budget, so the limits only guard against runaway
// clients.
func DefaultRules() map[string]Rule {
	return map[string]Rule{
		"gris_evaluate": {PerMinute: 60, Burst: 10},
		"gris_graph":    {PerMinute: 30, Burst: 5},
	}
}

// NewToolLimiters creates one limiter per rule.
func NewToolLimiters(rules map[string]Rule) ToolLimiters {
	limiters := make(ToolLimiters, len(rules))
	for tool, rule := range rules {
		limiters[tool] = NewLimiter(rule)
	}
	return limiters
}

// Check takes a token for tool. Tools without a limiter are always allowed.
func (tl ToolLimiters) Check(tool string) error {
	limiter, ok := tl[tool]
	if !ok {
		return nil
	}
	if !limiter.Allow() {
		return fmt.Errorf("%s: %w, please try again shortly", tool, ErrRateLimited)
	}
	return nil
}
