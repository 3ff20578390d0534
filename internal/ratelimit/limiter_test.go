package ratelimit

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock returns a clock function and a way to advance it.
func fakeClock() (func() time.Time, func(time.Duration)) {
	now := time.Now()
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestAllow_WithinBurst(t *testing.T) {
	l := NewLimiter(Rule{PerMinute: 60, Burst: 3})

	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Errorf("request %d should be allowed (within burst)", i+1)
		}
	}
	if l.Allow() {
		t.Error("request after burst exhaustion should be rejected")
	}
}

func TestAllow_RefillAfterWait(t *testing.T) {
	clock, advance := fakeClock()
	l := newLimiterAt(Rule{PerMinute: 600, Burst: 2}, clock) // 10 tokens/sec

	l.Allow()
	l.Allow()
	if l.Allow() {
		t.Error("expected rejection after burst")
	}

	advance(200 * time.Millisecond)

	if !l.Allow() {
		t.Error("expected allow after token refill")
	}
}

func TestAllow_RefillCappedAtBurst(t *testing.T) {
	clock, advance := fakeClock()
	l := newLimiterAt(Rule{PerMinute: 6000, Burst: 3}, clock)

	for i := 0; i < 3; i++ {
		l.Allow()
	}

	advance(10 * time.Second)

	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Errorf("request %d should be allowed after refill", i+1)
		}
	}
	if l.Allow() {
		t.Error("4th request should be rejected (burst cap)")
	}
}

func TestAllow_ZeroRate(t *testing.T) {
	l := NewLimiter(Rule{PerMinute: 0, Burst: 2})

	if !l.Allow() || !l.Allow() {
		t.Error("initial burst should be available")
	}
	if l.Allow() {
		t.Error("should be rejected with zero rate")
	}
}

func TestAllow_ConcurrentAccess(t *testing.T) {
	clock, _ := fakeClock()
	l := newLimiterAt(Rule{PerMinute: 60, Burst: 100}, clock)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 100 {
		t.Errorf("allowed %d requests, want 100 (burst limit with a frozen clock)", allowed)
	}
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	for _, tool := range []string{"gris_evaluate", "gris_graph"} {
		rule, ok := rules[tool]
		if !ok {
			t.Errorf("missing rule for tool: %s", tool)
			continue
		}
		if rule.Burst < 1 || rule.PerMinute <= 0 {
			t.Errorf("rule for %s = %+v, want positive rate and burst", tool, rule)
		}
	}
}

func TestToolLimiters_Check(t *testing.T) {
	limiters := NewToolLimiters(map[string]Rule{"gris_graph": {PerMinute: 0, Burst: 1}})

	if err := limiters.Check("gris_graph"); err != nil {
		t.Errorf("first call: unexpected error %v", err)
	}
	err := limiters.Check("gris_graph")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("second call: error = %v, want ErrRateLimited", err)
	}

	if err := limiters.Check("unknown_tool"); err != nil {
		t.Errorf("unknown tool: unexpected error %v", err)
	}
}
