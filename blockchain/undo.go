package blockchain

import "github.com/BTCDecoded/bllvm-consensus/wire"

// spentTxOut records an unspent-output entry removed from the UTXO
// set by a single transaction input, so DisconnectBlock can restore it
// (spec §4.H). Grounded on the teacher's UTXODiff, which separates
// "to add" from "to remove" collections; here the undo record plays
// the role of the "to remove" side, kept around after application
// instead of discarded.
type spentTxOut struct {
	outpoint wire.OutPoint
	entry    UTXOEntry
}

// BlockUndo carries everything needed to reverse a single block's
// effect on the UTXO set: the entries consumed by every non-coinbase
// input, in the same order the block's transactions and inputs appear
// in, plus the set of outpoints the block itself created (so they can
// be deleted on disconnect even if nothing later spent them).
type BlockUndo struct {
	spent   []spentTxOut
	created []wire.OutPoint
}

// SpentOutput is the exported view of a spentTxOut, for callers (such
// as a persistence adapter) that need to serialize a BlockUndo.
type SpentOutput struct {
	OutPoint wire.OutPoint
	Entry    UTXOEntry
}

// Spent returns the outputs the block's non-coinbase inputs consumed,
// in application order.
func (u *BlockUndo) Spent() []SpentOutput {
	out := make([]SpentOutput, len(u.spent))
	for i, s := range u.spent {
		out[i] = SpentOutput{OutPoint: s.outpoint, Entry: s.entry}
	}
	return out
}

// Created returns every outpoint the block itself added to the UTXO
// set, so a persistence adapter can delete them on disconnect.
func (u *BlockUndo) Created() []wire.OutPoint {
	return append([]wire.OutPoint(nil), u.created...)
}

// NewBlockUndo reconstructs a BlockUndo from its persisted form, for
// adapters that load undo records back from storage.
func NewBlockUndo(spent []SpentOutput, created []wire.OutPoint) *BlockUndo {
	u := &BlockUndo{created: append([]wire.OutPoint(nil), created...)}
	u.spent = make([]spentTxOut, len(spent))
	for i, s := range spent {
		u.spent[i] = spentTxOut{outpoint: s.OutPoint, entry: s.Entry}
	}
	return u
}
