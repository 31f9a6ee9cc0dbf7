package utxocommitment

import "github.com/BTCDecoded/bllvm-consensus/chainhash"

// Commitment is the serializable record of a tree's state at a given
// chain height (spec §4.J): its root digest, the height and block hash
// it was computed against, and the number of UTXOs committed.
type Commitment struct {
	Root      chainhash.Hash
	Height    uint32
	BlockHash chainhash.Hash
	UtxoCount uint64
}

// Generate captures tree's current root as a Commitment anchored to
// the given block.
func Generate(tree *Tree, height uint32, blockHash chainhash.Hash) Commitment {
	return Commitment{
		Root:      tree.Root(),
		Height:    height,
		BlockHash: blockHash,
		UtxoCount: tree.Count(),
	}
}

// Matches reports whether tree's current root and count agree with c,
// i.e. tree correctly reconstructs the committed state (spec §3's
// invariant that the commitment digest equals the recomputed root).
func (c Commitment) Matches(tree *Tree) bool {
	return c.Root == tree.Root() && c.UtxoCount == tree.Count()
}
