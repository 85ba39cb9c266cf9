// Package ratelimit throttles requests per client with token buckets. Each client gets one
// bucket per matched endpoint policy.
package ratelimit

import (
	"sync"
	"time"
)

// idleBucketTTL is how long a bucket may go unused before the sweeper drops it.
const idleBucketTTL = time.Hour

// defaultConfig is used when NewLimiter is given nil.
func defaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    300,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
	}
}

// TokenBucket holds up to capacity tokens and regains refillRate tokens per second.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

func newTokenBucket(capacity int, refillRate float64) *TokenBucket {
	now := time.Now()
	return &TokenBucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastSeen:   now,
	}
}

// bucketStatus is a snapshot of a bucket after a refill.
type bucketStatus struct {
	remaining int
	// full is when the bucket will be back at capacity.
	full time.Time
	// next is when at least one token will be available.
	next time.Time
}

// refill credits the tokens earned since the last refill. Callers hold tb.mu.
func (tb *TokenBucket) refill(now time.Time) {
	if now.After(tb.lastRefill) {
		tb.tokens = min(tb.capacity, tb.tokens+now.Sub(tb.lastRefill).Seconds()*tb.refillRate)
		tb.lastRefill = now
	}
}

// snapshot reports the bucket state. Callers hold tb.mu.
func (tb *TokenBucket) snapshot(now time.Time) bucketStatus {
	st := bucketStatus{remaining: int(tb.tokens), full: now, next: now}
	if missing := tb.capacity - tb.tokens; missing > 0 {
		st.full = now.Add(tb.wait(missing))
	}
	if tb.tokens < 1 {
		st.next = now.Add(tb.wait(1 - tb.tokens))
	}
	return st
}

// wait is how long it takes to earn n tokens.
func (tb *TokenBucket) wait(n float64) time.Duration {
	return time.Duration(n / tb.refillRate * float64(time.Second))
}

// take consumes a token if one is available and reports the state afterwards.
func (tb *TokenBucket) take(now time.Time) (bool, bucketStatus) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	tb.lastSeen = now
	ok := tb.tokens >= 1
	if ok {
		tb.tokens--
	}
	return ok, tb.snapshot(now)
}

func (tb *TokenBucket) allow() bool {
	ok, _ := tb.take(time.Now())
	return ok
}

// getStatus returns the remaining tokens, when the bucket is full again and when the next
// token arrives, without consuming anything.
func (tb *TokenBucket) getStatus() (remaining int, resetTime time.Time, nextToken time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.refill(now)
	st := tb.snapshot(now)
	return st.remaining, st.full, st.next
}

func (tb *TokenBucket) idleSince(cutoff time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastSeen.Before(cutoff)
}

// Info describes the limit applied to one request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter hands out token buckets keyed by client, policy scope and method.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*TokenBucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config allows 300 requests per minute per client.
// When enabled with a CleanupInterval, idle buckets are swept in the background until Stop.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = defaultConfig()
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*TokenBucket),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.stop = make(chan struct{})
		go l.sweepEvery(config.CleanupInterval)
	}
	return l
}

// Allow reports whether clientID may call method on endpoint now.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	switch {
	case !l.config.Enabled, l.config.Whitelist[clientID]:
		return true, Info{Allowed: true}
	case l.config.Blacklist[clientID]:
		return false, Info{}
	}

	scope, policy := l.policyFor(endpoint, method)
	if policy.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	bucket := l.bucket(clientID+":"+scope+":"+method, policy)
	ok, st := bucket.take(now)

	info := Info{
		Allowed:   ok,
		Limit:     policy.Limit,
		Remaining: st.remaining,
		ResetTime: st.full,
	}
	if !ok {
		info.RetryAfter = max(st.next.Sub(now), 0)
	}
	return ok, info
}

// policyFor finds the endpoint policy and the scope its bucket is keyed by. A prefix policy
// scopes by its own path so /admin/messages/{id} does not mint a bucket per id.
func (l *Limiter) policyFor(endpoint, method string) (string, EndpointConfig) {
	if matched := MatchEndpoint(endpoint, method, l.config.EndpointConfigs); matched != nil {
		if matched.Path != "" {
			return matched.Path, *matched
		}
		return endpoint, *matched
	}
	return endpoint, EndpointConfig{
		Limit:  l.config.DefaultLimit,
		Window: l.config.DefaultWindow,
		Burst:  l.config.DefaultLimit,
	}
}

func (l *Limiter) bucket(key string, policy EndpointConfig) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}

	capacity := policy.Burst
	if capacity <= 0 {
		capacity = policy.Limit
	}
	b := newTokenBucket(capacity, float64(policy.Limit)/policy.Window.Seconds())
	b.lastRefill, b.lastSeen = l.now(), l.now()
	l.buckets[key] = b
	return b
}

func (l *Limiter) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets unused for idleBucketTTL.
func (l *Limiter) sweep() {
	cutoff := l.now().Add(-idleBucketTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the background sweeper. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.stop != nil {
			close(l.stop)
		}
	})
}

// BucketCount returns the number of live buckets.
func (l *Limiter) BucketCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
