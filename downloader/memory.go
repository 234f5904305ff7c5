package downloader

import (
	"context"
	"sync"
	"time"

	"traintrack.dev/traintrack/metrics"
)

const (
	DefaultTTL        = 30 * time.Second
	DefaultMaxEntries = 10
)

// Memory caches downloaded payloads in memory, bounding both
// staleness (TTL) and growth (MaxEntries). The mutex serializes the
// whole read-check-evict-fetch-insert sequence, so concurrent callers
// never fetch the same key twice within the TTL and the capacity
// bound holds under concurrent use. No durability: a process restart
// loses all entries.
type Memory struct {
	mutex sync.Mutex
	cache map[string]memoryCacheEntry

	// TTL applies when GetOptions.CacheTTL is zero.
	TTL        time.Duration
	MaxEntries int
	Metrics    *metrics.Metrics
	TimeNow    func() time.Time

	fetch func(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error)
}

type memoryCacheEntry struct {
	data      []byte
	fetchedAt time.Time
}

func NewMemory() *Memory {
	return &Memory{
		cache:      make(map[string]memoryCacheEntry),
		TTL:        DefaultTTL,
		MaxEntries: DefaultMaxEntries,
		TimeNow:    time.Now,
		fetch:      HTTPGet,
	}
}

func (m *Memory) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {
	if !options.Cache {
		return m.fetch(ctx, url, headers, options)
	}

	ttl := options.CacheTTL
	if ttl == 0 {
		ttl = m.TTL
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.TimeNow()

	if entry, ok := m.cache[url]; ok {
		if entry.fetchedAt.Add(ttl).After(now) {
			m.Metrics.Hit()
			return entry.data, nil
		}
	}
	m.Metrics.Miss()

	m.evictExpired(now, ttl)
	if len(m.cache) >= m.MaxEntries {
		m.evictOldest()
	}

	body, err := m.fetch(ctx, url, headers, options)
	if err != nil {
		// Failed fetches cache nothing.
		m.Metrics.FetchFailed()
		return nil, err
	}

	m.cache[url] = memoryCacheEntry{
		data:      body,
		fetchedAt: now,
	}

	return body, nil
}

// SetFetcher replaces the transport used on cache misses.
func (m *Memory) SetFetcher(fetch func(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error)) {
	m.fetch = fetch
}

// Clear drops all cached entries.
func (m *Memory) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.cache = make(map[string]memoryCacheEntry)
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.cache)
}

func (m *Memory) evictExpired(now time.Time, ttl time.Duration) {
	for url, entry := range m.cache {
		if !entry.fetchedAt.Add(ttl).After(now) {
			delete(m.cache, url)
			m.Metrics.Evicted("expired")
		}
	}
}

// Evicts the single oldest entry by fetch timestamp, expired or not.
func (m *Memory) evictOldest() {
	oldestURL := ""
	var oldest time.Time
	for url, entry := range m.cache {
		if oldestURL == "" || entry.fetchedAt.Before(oldest) {
			oldestURL = url
			oldest = entry.fetchedAt
		}
	}
	if oldestURL != "" {
		delete(m.cache, oldestURL)
		m.Metrics.Evicted("capacity")
	}
}
