package txscript

import (
	"container/list"
	"sync"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
)

// SigCache is a bounded LRU cache of ECDSA signature verification
// results, keyed by a collision-resistant digest over the signature
// hash, the DER signature, and the public key (spec §5). It is never
// required for correctness: a cache miss simply falls back to a fresh
// verification, and turning the cache off leaves verification results
// identical.
type SigCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[chainhash.Hash]*list.Element
	order    *list.List
}

type sigCacheEntry struct {
	key   chainhash.Hash
	valid bool
}

// NewSigCache returns a SigCache bounded to the given number of entries.
func NewSigCache(capacity int) *SigCache {
	return &SigCache{
		capacity: capacity,
		entries:  make(map[chainhash.Hash]*list.Element, capacity),
		order:    list.New(),
	}
}

func sigCacheKey(sigHash chainhash.Hash, sig, pubKey []byte) chainhash.Hash {
	buf := make([]byte, 0, chainhash.HashSize+len(sig)+len(pubKey))
	buf = append(buf, sigHash[:]...)
	buf = append(buf, sig...)
	buf = append(buf, pubKey...)
	return chainhash.HashH(buf)
}

// Get reports whether a cached verification result exists for the given
// (sigHash, sig, pubKey) triple, and if so, what it was.
func (c *SigCache) Get(sigHash chainhash.Hash, sig, pubKey []byte) (valid bool, ok bool) {
	if c == nil {
		return false, false
	}
	key := sigCacheKey(sigHash, sig, pubKey)

	c.mu.Lock()
	defer c.mu.Unlock()
	elem, found := c.entries[key]
	if !found {
		return false, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*sigCacheEntry).valid, true
}

// Add records the verification result for (sigHash, sig, pubKey),
// evicting the least recently used entry if the cache is at capacity.
func (c *SigCache) Add(sigHash chainhash.Hash, sig, pubKey []byte, valid bool) {
	if c == nil || c.capacity <= 0 {
		return
	}
	key := sigCacheKey(sigHash, sig, pubKey)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.entries[key]; found {
		elem.Value.(*sigCacheEntry).valid = valid
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*sigCacheEntry).key)
		}
	}

	elem := c.order.PushFront(&sigCacheEntry{key: key, valid: valid})
	c.entries[key] = elem
}

// Len returns the current number of cached entries.
func (c *SigCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
