package blockchain

import (
	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// CalcMerkleRoot computes the binary Merkle root over a block's
// transaction ids (spec §4.F), duplicating the final hash at each
// level when the current level has an odd count.
func CalcMerkleRoot(txs []*wire.MsgTx) chainhash.Hash {
	if len(txs) == 0 {
		return chainhash.ZeroHash
	}

	level := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		level[i] = tx.TxHash()
	}

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := 0; i < len(next); i++ {
			var buf [64]byte
			copy(buf[:32], level[2*i][:])
			copy(buf[32:], level[2*i+1][:])
			next[i] = chainhash.DoubleHashH(buf[:])
		}
		level = next
	}
	return level[0]
}
