package txscript

import (
	"container/list"
	"sync"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
)

// hashOpcodeKind discriminates which hash opcode produced a cached
// result, since OP_HASH160/OP_HASH256/OP_SHA256/OP_RIPEMD160 all accept
// arbitrary input bytes and must not collide with one another.
type hashOpcodeKind byte

const (
	hashKindRipemd160 hashOpcodeKind = iota
	hashKindSha256
	hashKindHash160
	hashKindHash256
)

// HashOpCache is a bounded LRU cache of hash-opcode results keyed by
// (input_bytes, opcode_discriminator) (spec §5). Like SigCache, it is a
// pure performance optimization: disabling it never changes a script's
// verdict.
type HashOpCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[chainhash.Hash]*list.Element
	order    *list.List
}

type hashOpCacheEntry struct {
	key    chainhash.Hash
	result []byte
}

// NewHashOpCache returns a HashOpCache bounded to the given number of
// entries.
func NewHashOpCache(capacity int) *HashOpCache {
	return &HashOpCache{
		capacity: capacity,
		entries:  make(map[chainhash.Hash]*list.Element, capacity),
		order:    list.New(),
	}
}

func hashOpCacheKey(kind hashOpcodeKind, input []byte) chainhash.Hash {
	buf := make([]byte, 0, len(input)+1)
	buf = append(buf, byte(kind))
	buf = append(buf, input...)
	return chainhash.HashH(buf)
}

func (c *HashOpCache) get(kind hashOpcodeKind, input []byte) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	key := hashOpCacheKey(kind, input)

	c.mu.Lock()
	defer c.mu.Unlock()
	elem, found := c.entries[key]
	if !found {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*hashOpCacheEntry).result, true
}

func (c *HashOpCache) add(kind hashOpcodeKind, input, result []byte) {
	if c == nil || c.capacity <= 0 {
		return
	}
	key := hashOpCacheKey(kind, input)

	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, found := c.entries[key]; found {
		c.order.MoveToFront(elem)
		return
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*hashOpCacheEntry).key)
		}
	}
	elem := c.order.PushFront(&hashOpCacheEntry{key: key, result: result})
	c.entries[key] = elem
}
