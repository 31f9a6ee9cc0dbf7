package utxocommitment

import (
	"testing"

	"github.com/BTCDecoded/bllvm-consensus/wire"
)

func TestFilterBlockKeepsCoinbaseAndSpendableOutputs(t *testing.T) {
	filter := NewSpamFilter()

	coinbase := wire.NewMsgTx(1)
	coinbase.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{Index: 0xffffffff}})
	coinbase.AddTxOut(&wire.TxOut{Value: 5000000000, PkScript: []byte{0x6a}})

	normal := wire.NewMsgTx(1)
	normal.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{Index: 0}})
	normal.AddTxOut(&wire.TxOut{Value: 1000, PkScript: []byte{0x51}})

	spam := wire.NewMsgTx(1)
	spam.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{Index: 1}})
	spam.AddTxOut(&wire.TxOut{Value: 0, PkScript: []byte{0x6a, 0x01, 0x02}})

	kept, summary := filter.FilterBlock([]*wire.MsgTx{coinbase, normal, spam}, nil)

	if summary.Total != 3 || summary.Skipped != 1 {
		t.Fatalf("expected 1 of 3 skipped, got total=%d skipped=%d", summary.Total, summary.Skipped)
	}
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept transactions, got %d", len(kept))
	}
}

func TestFilterBlockAppliesFeeFloor(t *testing.T) {
	filter := NewSpamFilterWithConfig(SpamFilterConfig{MinFeeFloor: 500})

	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{Index: 0}})
	tx.AddTxOut(&wire.TxOut{Value: 1000, PkScript: []byte{0x51}})

	lowFee := func(*wire.MsgTx) (int64, bool) { return 10, true }
	_, summary := filter.FilterBlock([]*wire.MsgTx{tx}, lowFee)
	if summary.Skipped != 1 {
		t.Fatal("expected low-fee transaction to be skipped")
	}

	highFee := func(*wire.MsgTx) (int64, bool) { return 1000, true }
	_, summary = filter.FilterBlock([]*wire.MsgTx{tx}, highFee)
	if summary.Skipped != 0 {
		t.Fatal("expected high-fee transaction to be kept")
	}
}
