package reflection

import (
	"sync"

	"golang.org/x/crypto/blake2b"
)

// DefaultCacheSize is the number of distinct notes texts kept parsed.
const DefaultCacheSize = 256

// IndexCache keeps parsed notes keyed by BLAKE2b-256 digest of the text.
// When full, the oldest entry is evicted.
// Thread-safe: all methods acquire internal mutex.
type IndexCache struct {
	mu      sync.Mutex
	max     int
	entries map[[blake2b.Size256]byte]*NoteIndex
	order   [][blake2b.Size256]byte // FIFO вытеснение
}

// NewIndexCache creates a cache holding up to size entries.
// size <= 0 uses DefaultCacheSize.
func NewIndexCache(size int) *IndexCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &IndexCache{
		max:     size,
		entries: make(map[[blake2b.Size256]byte]*NoteIndex, size),
		order:   make([][blake2b.Size256]byte, 0, size),
	}
}

// Get returns the parsed index for notes. Config errors are returned only
// when the notes were parsed by this call (cache miss).
func (c *IndexCache) Get(notes string) (*NoteIndex, []*ConfigError) {
	key := blake2b.Sum256([]byte(notes))

	c.mu.Lock()
	if idx, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return idx, nil
	}
	c.mu.Unlock()

	idx, errs := ParseNotes(notes)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.entries[key]; ok {
		// parsed concurrently by another caller
		return cached, nil
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = idx
	c.order = append(c.order, key)
	return idx, errs
}

// Len returns the number of cached entries.
func (c *IndexCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
