package utxocommitment

import "github.com/BTCDecoded/bllvm-consensus/wire"

// SpamFilterConfig bounds which transactions are omitted from replay
// into the tree during catch-up forward sync (spec §4.J's spam
// filter): the filter never changes the agreed root, only how much
// work is spent rebuilding it.
type SpamFilterConfig struct {
	// MinFeeFloor is the minimum per-transaction fee, in satoshis,
	// below which a transaction may be dropped from replay.
	MinFeeFloor int64
}

// DefaultSpamFilterConfig matches the teacher's conservative default
// of filtering only unambiguous spam (pure OP_RETURN outputs), leaving
// the fee floor at zero so no paying transaction is ever dropped
// unless the caller opts in.
var DefaultSpamFilterConfig = SpamFilterConfig{MinFeeFloor: 0}

// Summary reports how many transactions a FilterBlock call examined
// and skipped.
type Summary struct {
	Total   int
	Skipped int
}

// SpamFilter decides which transactions to skip replaying into the
// commitment tree during catch-up sync (spec §4.J). It is only
// consulted while the caller is in catch-up mode; once live, every
// transaction is applied regardless of this filter's verdict.
type SpamFilter struct {
	cfg SpamFilterConfig
}

// NewSpamFilter returns a filter using DefaultSpamFilterConfig.
func NewSpamFilter() *SpamFilter {
	return &SpamFilter{cfg: DefaultSpamFilterConfig}
}

// NewSpamFilterWithConfig returns a filter using the given config.
func NewSpamFilterWithConfig(cfg SpamFilterConfig) *SpamFilter {
	return &SpamFilter{cfg: cfg}
}

// isUnspendableSpam reports whether every output of tx is an
// OP_RETURN output, meaning the transaction can never be spent and
// its outputs will never appear as a future input resolution target.
func isUnspendableSpam(tx *wire.MsgTx) bool {
	for _, out := range tx.TxOut {
		if len(out.PkScript) == 0 || out.PkScript[0] != 0x6a { // OP_RETURN
			return false
		}
	}
	return len(tx.TxOut) > 0
}

// FilterBlock returns the subset of txs that should be replayed into
// the commitment tree, along with a summary of what was skipped.
// fee, when non-nil, is consulted to additionally drop transactions
// whose fee is below the configured floor; a nil fee function skips
// only structurally-unspendable transactions.
func (f *SpamFilter) FilterBlock(txs []*wire.MsgTx, fee func(*wire.MsgTx) (int64, bool)) ([]*wire.MsgTx, Summary) {
	summary := Summary{Total: len(txs)}
	kept := make([]*wire.MsgTx, 0, len(txs))
	for _, tx := range txs {
		if tx.IsCoinBase() {
			kept = append(kept, tx)
			continue
		}
		if isUnspendableSpam(tx) {
			summary.Skipped++
			continue
		}
		if fee != nil {
			if amt, ok := fee(tx); ok && amt < f.cfg.MinFeeFloor {
				summary.Skipped++
				continue
			}
		}
		kept = append(kept, tx)
	}
	return kept, summary
}
