package utxocommitment

import (
	"github.com/BTCDecoded/bllvm-consensus/clog"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// UtxoLookup resolves a spent input's previous outpoint; ApplyBlock
// removes the outpoint's leaf only when the lookup reports it present
// (ok), and ignores the other returned fields.
type UtxoLookup func(op wire.OutPoint) (amount int64, pkScript []byte, height uint32, isCoinbase bool, ok bool)

// ApplyBlock commits block's transactions (optionally pre-filtered by
// a SpamFilter during catch-up sync) into tree at the given height.
func ApplyBlock(tree *Tree, block *wire.MsgBlock, height uint32, lookup UtxoLookup) {
	for i, tx := range block.Transactions {
		if i != 0 {
			for _, in := range tx.TxIn {
				if _, _, _, _, ok := lookup(in.PreviousOutPoint); ok {
					tree.Remove(in.PreviousOutPoint.Hash, in.PreviousOutPoint.Index)
				}
			}
		}
		txHash := tx.TxHash()
		for idx, out := range tx.TxOut {
			tree.Insert(txHash, uint32(idx), out.Value, out.PkScript, height, tx.IsCoinBase())
		}
	}
	clog.Comm().Debugf("applied block at height %d to commitment tree, root now %s", height, tree.Root())
}
