package wire

import (
	"bytes"
	"testing"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
)

func TestMsgTxSerializeRoundTrip(t *testing.T) {
	tx := NewMsgTx(1)
	tx.AddTxIn(&TxIn{
		PreviousOutPoint: OutPoint{Hash: chainhash.Hash{1, 2, 3}, Index: 0},
		SignatureScript:  []byte{0x51},
		Sequence:         0xffffffff,
	})
	tx.AddTxOut(&TxOut{Value: 5000000000, PkScript: []byte{0x76, 0xa9}})
	tx.LockTime = 0

	b, err := tx.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(b) != tx.SerializeSize() {
		t.Fatalf("SerializeSize mismatch: got %d, computed %d", len(b), tx.SerializeSize())
	}

	got, err := DeserializeTx(b)
	if err != nil {
		t.Fatalf("DeserializeTx: %v", err)
	}
	if got.Version != tx.Version || got.LockTime != tx.LockTime {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, tx)
	}
	if !bytes.Equal(got.TxIn[0].SignatureScript, tx.TxIn[0].SignatureScript) {
		t.Fatalf("signature script mismatch")
	}
	if got.TxHash() != tx.TxHash() {
		t.Fatalf("txhash mismatch after round trip")
	}
}

func TestIsCoinBase(t *testing.T) {
	tx := NewMsgTx(1)
	tx.AddTxIn(&TxIn{
		PreviousOutPoint: OutPoint{Hash: chainhash.ZeroHash, Index: 0xffffffff},
	})
	if !tx.IsCoinBase() {
		t.Fatal("expected coinbase transaction to be recognized")
	}

	tx2 := NewMsgTx(1)
	tx2.AddTxIn(&TxIn{PreviousOutPoint: OutPoint{Hash: chainhash.Hash{9}, Index: 0}})
	if tx2.IsCoinBase() {
		t.Fatal("non-coinbase transaction incorrectly recognized as coinbase")
	}
}

func TestTooManyInputsRejected(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 0, 0, 0}) // version
	if err := WriteVarInt(&buf, MaxInputsPerTx+1); err != nil {
		t.Fatal(err)
	}
	tx := &MsgTx{}
	if err := tx.BtcDecode(&buf); err == nil {
		t.Fatal("expected decode to reject an over-long input count")
	}
}
