package blockchain

import (
	"testing"

	"github.com/BTCDecoded/bllvm-consensus/wire"
)

func TestCalcMerkleRootSingleTx(t *testing.T) {
	tx := coinbaseTx(1)
	root := CalcMerkleRoot([]*wire.MsgTx{tx})
	if root != tx.TxHash() {
		t.Fatalf("single-tx merkle root must equal the tx hash")
	}
}

func TestCalcMerkleRootOddCountDuplicatesLast(t *testing.T) {
	tx1 := coinbaseTx(1)
	tx2 := coinbaseTx(2)
	tx3 := coinbaseTx(3)

	root3 := CalcMerkleRoot([]*wire.MsgTx{tx1, tx2, tx3})
	root4 := CalcMerkleRoot([]*wire.MsgTx{tx1, tx2, tx3, tx3})
	if root3 != root4 {
		t.Fatal("odd-count merkle root must match duplicating the last hash")
	}
}
