package blockchain

import (
	"github.com/BTCDecoded/bllvm-consensus/chaincfg"
	"github.com/BTCDecoded/bllvm-consensus/clog"
	"github.com/BTCDecoded/bllvm-consensus/txscript"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// ConnectBlock applies block's effect on utxoSet at the given height
// (spec §4.H): every non-coinbase input's claimed output is removed
// (after input validation and script verification), and every output
// of every transaction, including the coinbase, is added. It returns
// the undo record needed to reverse the block later.
//
// Callers are expected to have already run CheckBlockSanity and
// CheckBlockHeaderContext; ConnectBlock focuses on the parts of
// validation that require the UTXO set: missing/immature inputs,
// the no-value-created-from-nothing rule, script verification, and
// the coinbase value ceiling.
func ConnectBlock(block *wire.MsgBlock, height uint32, utxoSet *UtxoSet, params *chaincfg.Params, flags txscript.ScriptFlags, sigCache *txscript.SigCache) (*BlockUndo, error) {
	undo := &BlockUndo{}

	// Transactions are applied in order, each spending inputs before
	// its own outputs are added, so that a later transaction in the
	// same block may spend an earlier one's output (spec §4.E/§4.H).
	var totalFees int64
	for i, tx := range block.Transactions {
		if i != 0 {
			for _, in := range tx.TxIn {
				entry, ok := utxoSet.Get(in.PreviousOutPoint)
				if ok {
					undo.spent = append(undo.spent, spentTxOut{outpoint: in.PreviousOutPoint, entry: *entry})
				}
			}

			fee, err := CheckTransactionInputs(tx, height, utxoSet)
			if err != nil {
				return nil, err
			}
			totalFees += fee

			if err := VerifyTransactionScripts(tx, utxoSet, flags, sigCache, true); err != nil {
				return nil, err
			}

			for _, in := range tx.TxIn {
				utxoSet.Remove(in.PreviousOutPoint)
			}
		}

		txHash := tx.TxHash()
		for o := range tx.TxOut {
			undo.created = append(undo.created, *wire.NewOutPoint(&txHash, uint32(o)))
		}
		utxoSet.AddTxOutputs(tx, height, tx.IsCoinBase())
	}

	if err := CheckCoinbaseValue(block, height, totalFees, params); err != nil {
		return nil, err
	}

	clog.Conn().Debugf("connected block at height %d with %d transactions, %d satoshi in fees", height, len(block.Transactions), totalFees)
	return undo, nil
}

// DisconnectBlock reverses ConnectBlock's effect on utxoSet using the
// undo record it produced (spec §4.H): every entry the block's inputs
// consumed is restored, then every output the block created is removed
// (so an output both created and spent inside the block ends up absent).
func DisconnectBlock(undo *BlockUndo, utxoSet *UtxoSet) error {
	for _, s := range undo.spent {
		entry := s.entry
		utxoSet.Add(s.outpoint, &entry)
	}
	for _, op := range undo.created {
		utxoSet.Remove(op)
	}
	clog.Conn().Debugf("disconnected block, restored %d spent outputs and removed %d created outputs", len(undo.spent), len(undo.created))
	return nil
}
