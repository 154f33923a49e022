package engine

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
)

// UnavailableError reports that an engine instance could not be created or
// pinned for a request.
type UnavailableError struct {
	Message string
}

func (e *UnavailableError) Error() string { return e.Message }

// Cache hands out pinned engine instances keyed by configuration, patched
// buffer and offset. A request whose key matches the cached instance
// reuses it with its parser state intact; anything else replaces it.
//
// Acquire holds the cache mutex until the returned release func runs, so
// the caller has exclusive use of the instance for the whole request and
// no other request can mutate its parser state concurrently.
type Cache struct {
	mu sync.Mutex

	index      *Index
	dirIndexes map[string]*Index

	key  string
	inst *Instance

	hits   int
	misses int
}

// NewCache creates an instance cache over a base declaration index. The
// index may be nil when every request names its own via -index.
func NewCache(ix *Index) *Cache {
	return &Cache{
		index:      ix,
		dirIndexes: make(map[string]*Index),
	}
}

// Acquire pins an instance for the given request shape. The returned
// release func must be called when the request finishes; until then the
// caller owns the instance exclusively.
func (c *Cache) Acquire(cfg *Config, buf Buffer, offset int) (*Instance, func(), error) {
	c.mu.Lock()

	ix, err := c.indexFor(cfg)
	if err != nil {
		c.mu.Unlock()
		return nil, nil, err
	}

	key := requestKey(cfg, buf, offset)
	if c.inst != nil && c.key == key {
		c.hits++
		log.Debugf("Reusing engine instance for %s (hits=%d)", buf.Name, c.hits)
		return c.inst, c.mu.Unlock, nil
	}

	c.misses++
	c.key = key
	c.inst = newInstance(cfg, ix, buf, offset)
	return c.inst, c.mu.Unlock, nil
}

// indexFor resolves the declaration index a configuration completes
// against, loading and memoizing -index directories on first use.
func (c *Cache) indexFor(cfg *Config) (*Index, error) {
	if cfg.IndexDir == "" {
		if c.index == nil {
			return nil, &UnavailableError{Message: "no declaration index available"}
		}
		return c.index, nil
	}
	if ix, ok := c.dirIndexes[cfg.IndexDir]; ok {
		return ix, nil
	}
	ix, _, err := LoadIndexDir(cfg.IndexDir)
	if err != nil {
		return nil, &UnavailableError{
			Message: fmt.Sprintf("cannot load declaration index from %s: %v", cfg.IndexDir, err),
		}
	}
	c.dirIndexes[cfg.IndexDir] = ix
	return ix, nil
}

// Stats returns hit/miss counters for the cache.
func (c *Cache) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]int{
		"hits":   c.hits,
		"misses": c.misses,
	}
}

func requestKey(cfg *Config, buf Buffer, offset int) string {
	h := fnv.New64a()
	h.Write([]byte(buf.Text))
	return cfg.Key() + "\x1f" + buf.Name + "\x1f" + strconv.Itoa(offset) +
		"\x1f" + strconv.FormatUint(h.Sum64(), 16)
}
