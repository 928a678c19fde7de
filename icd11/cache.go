// Package icd11 implements the authenticated WHO ICD-11 API gateway with
// token caching, short-TTL response caching and graceful degradation.
package icd11

import (
	"sync"
	"time"
)

// TokenCache holds one bearer token with its expiry. The clock is injected
// so expiry behavior is testable.
type TokenCache struct {
	mu     sync.RWMutex
	token  string
	expiry time.Time
	now    func() time.Time
}

// NewTokenCache creates a token cache using the given clock.
func NewTokenCache(now func() time.Time) *TokenCache {
	if now == nil {
		now = time.Now
	}
	return &TokenCache{now: now}
}

// Get returns the cached token, or "" when absent or expired.
func (tc *TokenCache) Get() string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	if tc.token == "" || tc.now().After(tc.expiry) {
		return ""
	}
	return tc.token
}

// Set stores a token valid for the given lifetime. A safety margin is
// shaved off so a token is never used right at its expiry edge.
func (tc *TokenCache) Set(token string, lifetime time.Duration) {
	margin := lifetime / 10
	tc.mu.Lock()
	tc.token = token
	tc.expiry = tc.now().Add(lifetime - margin)
	tc.mu.Unlock()
}

type cachedResponse struct {
	body    []byte
	expires time.Time
}

// ResponseCache caches upstream response bodies by request URL for a short
// TTL to bound WHO API call volume. Stale or duplicate writes are harmless
// idempotent overwrites, so a plain RWMutex map is enough.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cachedResponse
	ttl     time.Duration
	now     func() time.Time
}

// NewResponseCache creates a response cache with the given TTL and clock.
func NewResponseCache(ttl time.Duration, now func() time.Time) *ResponseCache {
	if now == nil {
		now = time.Now
	}
	return &ResponseCache{
		entries: make(map[string]cachedResponse),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached body for a URL, if present and fresh.
func (rc *ResponseCache) Get(url string) ([]byte, bool) {
	rc.mu.RLock()
	entry, ok := rc.entries[url]
	rc.mu.RUnlock()
	if !ok || rc.now().After(entry.expires) {
		return nil, false
	}
	return entry.body, true
}

// Set stores a response body for a URL.
func (rc *ResponseCache) Set(url string, body []byte) {
	rc.mu.Lock()
	rc.entries[url] = cachedResponse{body: body, expires: rc.now().Add(rc.ttl)}
	rc.mu.Unlock()
}

// Sweep removes expired entries. Called periodically by the scheduler.
func (rc *ResponseCache) Sweep() int {
	now := rc.now()
	removed := 0
	rc.mu.Lock()
	for url, entry := range rc.entries {
		if now.After(entry.expires) {
			delete(rc.entries, url)
			removed++
		}
	}
	rc.mu.Unlock()
	return removed
}

// Len reports the number of cached entries, fresh or not.
func (rc *ResponseCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.entries)
}
