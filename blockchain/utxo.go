package blockchain

import (
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// UTXOEntry is a single unspent-output record (spec §3). It is
// immutable once constructed: Connect/Disconnect add, remove and
// replace entries in the UtxoSet in place, but never modify an entry
// itself.
type UTXOEntry struct {
	Amount      int64
	PkScript    []byte
	BlockHeight uint32
	IsCoinbase  bool
}

// IsMature reports whether a coinbase output has cleared the maturity
// window as of spendingHeight (spec §4.E, coinbase maturity = 100).
func (e *UTXOEntry) IsMature(spendingHeight uint32) bool {
	if !e.IsCoinbase {
		return true
	}
	return spendingHeight >= e.BlockHeight+CoinbaseMaturity
}

// CoinbaseMaturity is the number of confirmations a coinbase output
// must accumulate before it may be spent (spec §4.E).
const CoinbaseMaturity = 100

// utxoCollection is the teacher's flat map-of-entries representation
// (blockdag/utxoset.go), adapted here to key on wire.OutPoint directly
// instead of a DAG-specific outpoint type.
type utxoCollection map[wire.OutPoint]*UTXOEntry

// UtxoSet is the full set of unspent outputs at some point on the
// best chain (spec §3). A zero-value UtxoSet is usable: Clone on it
// yields an empty set.
type UtxoSet struct {
	entries utxoCollection
}

// NewUtxoSet returns an empty UTXO set.
func NewUtxoSet() *UtxoSet {
	return &UtxoSet{entries: make(utxoCollection)}
}

// Get looks up the entry for outpoint, returning ok=false if it is
// unspent-absent (never created, or already spent).
func (s *UtxoSet) Get(outpoint wire.OutPoint) (*UTXOEntry, bool) {
	e, ok := s.entries[outpoint]
	return e, ok
}

// Add inserts or overwrites the entry for outpoint.
func (s *UtxoSet) Add(outpoint wire.OutPoint, entry *UTXOEntry) {
	if s.entries == nil {
		s.entries = make(utxoCollection)
	}
	s.entries[outpoint] = entry
}

// Remove deletes outpoint from the set, returning the entry that was
// removed (or nil, false if it was already absent).
func (s *UtxoSet) Remove(outpoint wire.OutPoint) (*UTXOEntry, bool) {
	e, ok := s.entries[outpoint]
	if ok {
		delete(s.entries, outpoint)
	}
	return e, ok
}

// Len reports the number of unspent outputs currently tracked.
func (s *UtxoSet) Len() int {
	return len(s.entries)
}

// Clone returns a deep-enough copy of the set (entries are shared
// since UTXOEntry is never mutated after construction, only replaced).
func (s *UtxoSet) Clone() *UtxoSet {
	clone := make(utxoCollection, len(s.entries))
	for k, v := range s.entries {
		clone[k] = v
	}
	return &UtxoSet{entries: clone}
}

// ForEach iterates the set in unspecified order. f must not mutate
// the set.
func (s *UtxoSet) ForEach(f func(wire.OutPoint, *UTXOEntry)) {
	for k, v := range s.entries {
		f(k, v)
	}
}

// AddTxOutputs adds every output of tx as a new unspent entry at the
// given height, skipping unspendable (OP_RETURN witness-commitment)
// outputs is left to the caller; this records every output as the
// rest of the consensus core treats spendability as a script-level
// concern, not a UTXO-set concern.
func (s *UtxoSet) AddTxOutputs(tx *wire.MsgTx, height uint32, isCoinbase bool) {
	txHash := tx.TxHash()
	for i, out := range tx.TxOut {
		op := wire.NewOutPoint(&txHash, uint32(i))
		s.Add(*op, &UTXOEntry{
			Amount:      out.Value,
			PkScript:    out.PkScript,
			BlockHeight: height,
			IsCoinbase:  isCoinbase,
		})
	}
}
