package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/user"
)

const defaultMaxCacheEntries = 4096

type cachedPrincipal struct {
	principal user.Principal
	expiresAt time.Time
}

type principalCache struct {
	mu         sync.RWMutex
	entries    map[string]cachedPrincipal
	ttl        time.Duration
	maxEntries int
}

func newPrincipalCache(ttl time.Duration, maxEntries int) *principalCache {
	if maxEntries < 1 {
		maxEntries = defaultMaxCacheEntries
	}
	return &principalCache{
		entries:    make(map[string]cachedPrincipal),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (c *principalCache) get(key string) (user.Principal, bool) {
	if c.ttl <= 0 || key == "" {
		return user.Principal{}, false
	}

	now := time.Now()
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !entry.expiresAt.After(now) {
		return user.Principal{}, false
	}
	return entry.principal, true
}

func (c *principalCache) set(key string, principal user.Principal) {
	if c.ttl <= 0 || key == "" {
		return
	}

	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictExpired(now)
	}
	if len(c.entries) >= c.maxEntries {
		c.evictOne()
	}

	c.entries[key] = cachedPrincipal{
		principal: principal,
		expiresAt: now.Add(c.ttl),
	}
}

func (c *principalCache) evictExpired(now time.Time) {
	for key, entry := range c.entries {
		if !entry.expiresAt.After(now) {
			delete(c.entries, key)
		}
	}
}

func (c *principalCache) evictOne() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
