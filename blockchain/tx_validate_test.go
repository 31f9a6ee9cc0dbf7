package blockchain

import (
	"testing"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

func coinbaseTx(value int64) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: 0xffffffff},
		Sequence:         0xffffffff,
	})
	tx.AddTxOut(&wire.TxOut{Value: value})
	return tx
}

func TestCheckTransactionSanityRejectsEmpty(t *testing.T) {
	tx := wire.NewMsgTx(1)
	if err := CheckTransactionSanity(tx); !IsErrorKind(err, ErrNoTxInputsOrOutputs) {
		t.Fatalf("expected ErrNoTxInputsOrOutputs, got %v", err)
	}
}

func TestCheckTransactionSanityRejectsDuplicateInput(t *testing.T) {
	op := wire.OutPoint{Hash: chainhash.HashH([]byte("x")), Index: 0}
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: op})
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: op})
	tx.AddTxOut(&wire.TxOut{Value: 1})
	if err := CheckTransactionSanity(tx); !IsErrorKind(err, ErrDuplicateTxInput) {
		t.Fatalf("expected ErrDuplicateTxInput, got %v", err)
	}
}

func TestCheckTransactionInputsMissingOutput(t *testing.T) {
	utxoSet := NewUtxoSet()
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{Index: 0}})
	tx.AddTxOut(&wire.TxOut{Value: 1})
	if _, err := CheckTransactionInputs(tx, 1, utxoSet); !IsErrorKind(err, ErrMissingTxOut) {
		t.Fatalf("expected ErrMissingTxOut, got %v", err)
	}
}

func TestCheckTransactionInputsImmatureCoinbase(t *testing.T) {
	utxoSet := NewUtxoSet()
	op := wire.OutPoint{Hash: chainhash.HashH([]byte("coinbase")), Index: 0}
	utxoSet.Add(op, &UTXOEntry{Amount: 5000, BlockHeight: 10, IsCoinbase: true})

	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: op})
	tx.AddTxOut(&wire.TxOut{Value: 1000})

	if _, err := CheckTransactionInputs(tx, 50, utxoSet); !IsErrorKind(err, ErrImmatureCoinbase) {
		t.Fatalf("expected ErrImmatureCoinbase, got %v", err)
	}
	if _, err := CheckTransactionInputs(tx, 110, utxoSet); err != nil {
		t.Fatalf("expected maturity to clear at height 110, got %v", err)
	}
}

func TestCheckTransactionInputsNegativeFee(t *testing.T) {
	utxoSet := NewUtxoSet()
	op := wire.OutPoint{Hash: chainhash.HashH([]byte("src")), Index: 0}
	utxoSet.Add(op, &UTXOEntry{Amount: 100})

	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: op})
	tx.AddTxOut(&wire.TxOut{Value: 200})

	if _, err := CheckTransactionInputs(tx, 1, utxoSet); !IsErrorKind(err, ErrFeeNegative) {
		t.Fatalf("expected ErrFeeNegative, got %v", err)
	}
}

func TestCheckTransactionInputsFee(t *testing.T) {
	utxoSet := NewUtxoSet()
	op := wire.OutPoint{Hash: chainhash.HashH([]byte("src")), Index: 0}
	utxoSet.Add(op, &UTXOEntry{Amount: 1000})

	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: op})
	tx.AddTxOut(&wire.TxOut{Value: 900})

	fee, err := CheckTransactionInputs(tx, 1, utxoSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee != 100 {
		t.Fatalf("expected fee 100, got %d", fee)
	}
}
