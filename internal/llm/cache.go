package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/mailsift/internal/model"
)

// cacheEntry represents a cached source answer.
type cacheEntry struct {
	expiry time.Time
	answer string
}

// answerCache provides thread-safe caching of source answers keyed by a
// prompt hash, so duplicate emails in a mailbox cost one call.
type answerCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
	once    sync.Once
}

// newAnswerCache creates a new cache with the specified TTL.
func newAnswerCache(ttl time.Duration) *answerCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	cache := &answerCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// get retrieves an answer if it exists and hasn't expired.
func (c *answerCache) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiry) {
		return "", false
	}
	return entry.answer, true
}

// set stores an answer.
func (c *answerCache) set(key, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		answer: answer,
		expiry: time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *answerCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// size returns the number of entries in the cache.
func (c *answerCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// close stops the cleanup goroutine. Safe to call more than once.
func (c *answerCache) close() {
	c.once.Do(func() { close(c.stopCh) })
}

// cacheKey hashes everything that shapes the prompt.
func cacheKey(source string, req model.SuggestionRequest) string {
	h := sha256.New()
	for _, part := range []string{
		source,
		string(req.Kind),
		req.Sender,
		req.Content,
		req.SourceLabel,
		strings.Join(req.Categories, "\x1f"),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
