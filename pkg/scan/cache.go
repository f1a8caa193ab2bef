package scan

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/fran314/bbup/pkg/core"
	"github.com/fran314/bbup/pkg/hash"
)

// cacheEntry records the size and mtime a file had when its content hash
// was last computed, so a later scan can tell whether the cached hash is
// still trustworthy without rereading the file.
type cacheEntry struct {
	size  int64
	mtime core.Mtime
	hash  hash.Hash
}

// HashCache memoizes (path, size, mtime) -> Hash across scans, so that a
// repeated sync on a mostly-unchanged tree does not reread every file's
// bytes (§4.11). It is safe for concurrent use by multiple goroutines: Scan's
// parallel hashing workers look up and store entries while a batch runs.
type HashCache struct {
	lock    sync.Mutex
	entries *lru.Cache
}

// NewHashCache constructs a cache holding up to maxEntries memoized
// results. A non-positive maxEntries means unbounded.
func NewHashCache(maxEntries int) *HashCache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &HashCache{entries: lru.New(maxEntries)}
}

// Lookup returns the memoized hash for path if it was last recorded with
// the given size and mtime, and false otherwise.
func (c *HashCache) Lookup(path string, size int64, mtime core.Mtime) (hash.Hash, bool) {
	if c == nil {
		return hash.Hash{}, false
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	raw, ok := c.entries.Get(path)
	if !ok {
		return hash.Hash{}, false
	}
	entry := raw.(cacheEntry)
	if entry.size != size || entry.mtime != mtime {
		return hash.Hash{}, false
	}
	return entry.hash, true
}

// Store records the hash computed for path at the given size and mtime.
func (c *HashCache) Store(path string, size int64, mtime core.Mtime, h hash.Hash) {
	if c == nil {
		return
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries.Add(path, cacheEntry{size: size, mtime: mtime, hash: h})
}

// SeedFromTree populates the cache with every file's recorded hash from a
// previous snapshot, keyed by its slash-separated relative path, so the
// first scan after loading an archive can skip rehashing anything that
// still matches (§4.11).
func SeedFromTree(tree core.FSTree, sizes map[string]int64) *HashCache {
	cache := NewHashCache(0)
	seedFromTreeRec(cache, tree, core.NewPath(), sizes)
	return cache
}

func seedFromTreeRec(cache *HashCache, tree core.FSTree, prefix core.AbstPath, sizes map[string]int64) {
	for name, node := range tree {
		relPath := prefix.WithLast(name)
		switch node.Kind {
		case core.NodeKindDir:
			seedFromTreeRec(cache, node.Children, relPath, sizes)
		case core.NodeKindFile:
			if size, ok := sizes[relPath.String()]; ok {
				cache.Store(relPath.String(), size, node.Mtime, node.Hash)
			}
		}
	}
}
