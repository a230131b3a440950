package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/oasmerge/parser"
)

// specInput represents the three ways a document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI 3 document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI 3 document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI 3 document content (JSON or YAML)"`
}

// cacheEntry holds a decoded document with LRU ordering and TTL expiry.
type cacheEntry struct {
	doc       *parser.Document
	insertAt  time.Time
	expiresAt time.Time
}

// specCacheStore provides a session-scoped cache for decoded documents.
// File inputs are keyed by (absolutePath, modTime). Content inputs are keyed
// by a SHA-256 hash. URL inputs are keyed by URL string.
// Cached documents are shared between calls; the merge engine copies its
// inputs, so nothing downstream mutates them.
type specCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var specCache = &specCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached document or nil. Expired entries are lazily removed.
func (c *specCacheStore) get(key string) *parser.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.doc
	}
	return nil
}

// putWithTTL stores a document with a specific TTL, evicting the least
// recently used entry if at capacity.
func (c *specCacheStore) putWithTTL(key string, doc *parser.Document, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{doc: doc, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.entries[key] = entry
}

func (c *specCacheStore) evictOldestLocked() {
	var oldestKey string
	var oldestTime time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.insertAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = e.insertAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// sweep removes all expired entries from the cache.
func (c *specCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries until ctx is cancelled. Only the first call spawns a
// sweeper; the returned channel is closed when that goroutine exits.
func (c *specCacheStore) startSweeper(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 || !c.sweeperStarted.CompareAndSwap(false, true) {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
	return done
}

// reset clears all cached entries. Used in tests.
func (c *specCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *specCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey returns the cache key for the input and the TTL that applies to
// it. An empty key means the input is not cacheable.
func (s specInput) cacheKey() (string, time.Duration) {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return "", 0
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "", 0 // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano()), cfg.CacheFileTTL
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:]), cfg.CacheContentTTL
	case s.URL != "":
		return "url:" + s.URL, cfg.CacheURLTTL
	default:
		return "", 0
	}
}

func (s specInput) sources() int {
	count := 0
	for _, set := range []bool{s.File != "", s.URL != "", s.Content != ""} {
		if set {
			count++
		}
	}
	return count
}

// resolve decodes the document from whichever input was provided, using the
// cache when it is enabled.
func (s specInput) resolve(ctx context.Context) (*parser.Document, error) {
	if n := s.sources(); n != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", n)
	}

	// Enforce inline content size limit.
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASMERGE_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var (
		key string
		ttl time.Duration
	)
	if cfg.CacheEnabled {
		key, ttl = s.cacheKey()
	}
	if key != "" {
		if cached := specCache.get(key); cached != nil {
			return cached, nil
		}
	}

	opts := []parser.Option{parser.WithContext(ctx)}
	switch {
	case s.File != "":
		opts = append(opts, parser.WithFilePath(s.File))
	case s.URL != "":
		opts = append(opts, parser.WithURL(s.URL))
		// Inject SSRF-safe HTTP client unless private IPs are allowed.
		if !cfg.AllowPrivateIPs {
			opts = append(opts, parser.WithHTTPClient(newSafeHTTPClient()))
		}
	default:
		opts = append(opts, parser.WithBytes([]byte(s.Content)), parser.WithSourceName("<inline>"))
	}

	doc, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, err
	}

	if key != "" {
		specCache.putWithTTL(key, doc, ttl)
	}
	return doc, nil
}
