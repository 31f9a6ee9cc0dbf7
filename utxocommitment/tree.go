// Package utxocommitment implements a sparse binary Merkle tree over
// the unspent-output set (spec §4.J), used to produce a compact,
// incrementally-updatable commitment to the full UTXO set and to drive
// peer-agreement-based initial sync.
package utxocommitment

import (
	"encoding/binary"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
)

// treeDepth is the number of bits in a leaf key (sha256(outpoint)),
// i.e. the depth of the sparse tree from root to leaf.
const treeDepth = 256

// emptySubtreeHash[d] is the root hash of an entirely empty subtree of
// depth d (d==0 is an empty leaf, d==treeDepth is the root of a wholly
// empty tree). Precomputed once so inserts/removes never need to hash
// an empty branch explicitly.
var emptySubtreeHash [treeDepth + 1]chainhash.Hash

func init() {
	// Level 0 (leaf layer) placeholder is the hash of the empty byte
	// string, matching an absent UTXO record.
	emptySubtreeHash[0] = chainhash.HashH(nil)
	for d := 1; d <= treeDepth; d++ {
		emptySubtreeHash[d] = nodeHash(emptySubtreeHash[d-1], emptySubtreeHash[d-1])
	}
}

func nodeHash(left, right chainhash.Hash) chainhash.Hash {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	return chainhash.HashH(buf[:])
}

// leafKey derives the 256-bit tree path for an outpoint: sha256 of its
// 36-byte (hash || index_LE) encoding, per spec §4.J.
func leafKey(txHash chainhash.Hash, index uint32) chainhash.Hash {
	var buf [36]byte
	copy(buf[:32], txHash[:])
	binary.LittleEndian.PutUint32(buf[32:], index)
	return chainhash.HashH(buf[:])
}

// leafValue computes the committed value for a UTXO record: the hash
// of its serialized (amount, script_pubkey, height, is_coinbase) form.
func leafValue(amount int64, pkScript []byte, height uint32, isCoinbase bool) chainhash.Hash {
	buf := make([]byte, 0, 8+len(pkScript)+4+1)
	var amountBuf [8]byte
	binary.LittleEndian.PutUint64(amountBuf[:], uint64(amount))
	buf = append(buf, amountBuf[:]...)
	buf = append(buf, pkScript...)
	var heightBuf [4]byte
	binary.LittleEndian.PutUint32(heightBuf[:], height)
	buf = append(buf, heightBuf[:]...)
	if isCoinbase {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return chainhash.HashH(buf)
}

// bitAt returns bit i of key, counting from the most significant bit
// of byte 0, which is the convention used to walk the tree from root
// (bit 0) to leaf (bit treeDepth-1).
func bitAt(key chainhash.Hash, i int) int {
	byteIdx := i / 8
	bitIdx := 7 - uint(i%8)
	return int((key[byteIdx] >> bitIdx) & 1)
}

// nodePath identifies an internal node by the bit prefix of its
// subtree (of length depth, 0..treeDepth) — used as a map key for the
// sparse set of non-default nodes actually populated.
type nodePath struct {
	depth  int // number of bits consumed so far, i.e. distance from root
	prefix chainhash.Hash
}

// Tree is a sparse binary Merkle tree keyed by sha256(outpoint) (spec
// §4.J). Only non-empty subtrees are stored; any path that has never
// had a leaf inserted under it resolves to the precomputed
// emptySubtreeHash for its depth without being stored at all.
type Tree struct {
	nodes map[nodePath]chainhash.Hash // (depth, prefix) -> hash, for populated internal/leaf nodes
	count uint64
}

// NewTree returns an empty commitment tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[nodePath]chainhash.Hash)}
}

// Count reports the number of leaves (UTXO records) currently
// committed.
func (t *Tree) Count() uint64 {
	return t.count
}

// Root returns the current root hash of the tree, i.e. the commitment
// digest (spec §4.J / §3's chain-state invariant on the commitment
// digest).
func (t *Tree) Root() chainhash.Hash {
	return t.nodeAt(0, chainhash.Hash{})
}

// nodeAt returns the hash of the node at the given depth whose path
// prefix (of length depth, left-justified within the Hash) is prefix.
func (t *Tree) nodeAt(depth int, prefix chainhash.Hash) chainhash.Hash {
	if h, ok := t.nodes[nodePath{depth: depth, prefix: prefix}]; ok {
		return h
	}
	return emptySubtreeHash[treeDepth-depth]
}

// Insert commits the given UTXO record at outpoint (txHash, index),
// creating or overwriting its leaf and recomputing every ancestor
// hash up to the root, O(treeDepth) hashes (spec §4.J).
func (t *Tree) Insert(txHash chainhash.Hash, index uint32, amount int64, pkScript []byte, height uint32, isCoinbase bool) {
	key := leafKey(txHash, index)
	_, existed := t.nodes[nodePath{depth: treeDepth, prefix: key}]
	t.setLeaf(key, leafValue(amount, pkScript, height, isCoinbase))
	if !existed {
		t.count++
	}
}

// Remove deletes the leaf for the given outpoint, restoring its path
// to the empty-subtree placeholders wherever no other populated leaf
// remains under the same prefix.
func (t *Tree) Remove(txHash chainhash.Hash, index uint32) {
	key := leafKey(txHash, index)
	if _, ok := t.nodes[nodePath{depth: treeDepth, prefix: key}]; !ok {
		return
	}
	t.setLeaf(key, emptySubtreeHash[0])
	t.count--
}

// Get returns the committed leaf hash for outpoint, and whether it is
// present (i.e. differs from the empty-leaf placeholder).
func (t *Tree) Get(txHash chainhash.Hash, index uint32) (chainhash.Hash, bool) {
	key := leafKey(txHash, index)
	h, ok := t.nodes[nodePath{depth: treeDepth, prefix: key}]
	return h, ok
}

// setLeaf installs leafVal at key's path and recomputes every sibling
// pair from the leaf up to the root. Sibling hashes at each level are
// looked up via nodeAt so that pruned (never-populated) branches fall
// back to the precomputed empty constant without being materialized.
func (t *Tree) setLeaf(key chainhash.Hash, leafVal chainhash.Hash) {
	if leafVal == emptySubtreeHash[0] {
		delete(t.nodes, nodePath{depth: treeDepth, prefix: key})
	} else {
		t.nodes[nodePath{depth: treeDepth, prefix: key}] = leafVal
	}

	current := leafVal
	prefix := key
	for depth := treeDepth; depth > 0; depth-- {
		parentDepth := depth - 1
		parentPrefix := truncate(prefix, parentDepth)

		siblingPrefix := flipBit(prefix, parentDepth)
		sibling := t.nodeAt(depth, siblingPrefix)

		var combined chainhash.Hash
		if bitAt(key, parentDepth) == 0 {
			combined = nodeHash(current, sibling)
		} else {
			combined = nodeHash(sibling, current)
		}

		if combined == emptySubtreeHash[treeDepth-parentDepth] {
			delete(t.nodes, nodePath{depth: parentDepth, prefix: parentPrefix})
		} else {
			t.nodes[nodePath{depth: parentDepth, prefix: parentPrefix}] = combined
		}

		current = combined
		prefix = parentPrefix
	}
}

// truncate zeroes every bit of key beyond the first n bits, so two
// keys sharing an n-bit prefix map to the same truncated value and can
// be used as a map key for the node at depth n.
func truncate(key chainhash.Hash, n int) chainhash.Hash {
	var out chainhash.Hash
	full := n / 8
	copy(out[:full], key[:full])
	if rem := n % 8; rem != 0 {
		mask := byte(0xff << (8 - rem))
		out[full] = key[full] & mask
	}
	return out
}

// flipBit returns key's n-bit prefix with bit n itself flipped,
// identifying the sibling subtree one level below depth n.
func flipBit(key chainhash.Hash, n int) chainhash.Hash {
	out := truncate(key, n+1)
	byteIdx := n / 8
	bitIdx := 7 - uint(n%8)
	out[byteIdx] ^= 1 << bitIdx
	return out
}
