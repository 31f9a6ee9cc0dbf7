package chainstatedb

import (
	"path/filepath"
	"testing"

	"github.com/BTCDecoded/bllvm-consensus/blockchain"
	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	"github.com/BTCDecoded/bllvm-consensus/utxocommitment"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chainstate.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUTXORoundTrip(t *testing.T) {
	db := openTestDB(t)
	op := wire.OutPoint{Hash: chainhash.HashH([]byte("tx")), Index: 1}
	entry := &blockchain.UTXOEntry{Amount: 5000, PkScript: []byte{0x51, 0x52}, BlockHeight: 10, IsCoinbase: true}

	if err := db.PutUTXO(op, entry); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}

	got, err := db.GetUTXO(op)
	if err != nil {
		t.Fatalf("GetUTXO: %v", err)
	}
	if got.Amount != entry.Amount || got.BlockHeight != entry.BlockHeight || got.IsCoinbase != entry.IsCoinbase {
		t.Fatalf("round-tripped entry mismatch: got %+v, want %+v", got, entry)
	}

	if err := db.DeleteUTXO(op); err != nil {
		t.Fatalf("DeleteUTXO: %v", err)
	}
	if _, err := db.GetUTXO(op); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestLoadUtxoSetReflectsApply(t *testing.T) {
	db := openTestDB(t)
	set := blockchain.NewUtxoSet()
	op1 := wire.OutPoint{Hash: chainhash.HashH([]byte("a")), Index: 0}
	op2 := wire.OutPoint{Hash: chainhash.HashH([]byte("b")), Index: 0}
	set.Add(op1, &blockchain.UTXOEntry{Amount: 100, PkScript: []byte{0x51}})
	set.Add(op2, &blockchain.UTXOEntry{Amount: 200, PkScript: []byte{0x52}})

	if err := db.ApplyUtxoSet(set); err != nil {
		t.Fatalf("ApplyUtxoSet: %v", err)
	}

	loaded, err := db.LoadUtxoSet()
	if err != nil {
		t.Fatalf("LoadUtxoSet: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", loaded.Len())
	}

	smaller := blockchain.NewUtxoSet()
	smaller.Add(op1, &blockchain.UTXOEntry{Amount: 100, PkScript: []byte{0x51}})
	if err := db.ApplyUtxoSet(smaller); err != nil {
		t.Fatalf("ApplyUtxoSet (shrink): %v", err)
	}
	loaded, err = db.LoadUtxoSet()
	if err != nil {
		t.Fatalf("LoadUtxoSet: %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("expected replacement to clear the stale entry, got %d remaining", loaded.Len())
	}
}

func TestUndoRoundTrip(t *testing.T) {
	db := openTestDB(t)
	blockHash := chainhash.HashH([]byte("block"))

	spent := []blockchain.SpentOutput{
		{OutPoint: wire.OutPoint{Hash: chainhash.HashH([]byte("spent-tx")), Index: 2}, Entry: blockchain.UTXOEntry{Amount: 777, PkScript: []byte{0x6a, 0x01}, BlockHeight: 3}},
	}
	created := []wire.OutPoint{{Hash: chainhash.HashH([]byte("created-tx")), Index: 0}}
	undo := blockchain.NewBlockUndo(spent, created)

	if err := db.PutUndo(blockHash, undo); err != nil {
		t.Fatalf("PutUndo: %v", err)
	}

	got, err := db.GetUndo(blockHash)
	if err != nil {
		t.Fatalf("GetUndo: %v", err)
	}
	gotSpent := got.Spent()
	if len(gotSpent) != 1 || gotSpent[0].Entry.Amount != 777 {
		t.Fatalf("unexpected spent entries: %+v", gotSpent)
	}
	gotCreated := got.Created()
	if len(gotCreated) != 1 || gotCreated[0] != created[0] {
		t.Fatalf("unexpected created outpoints: %+v", gotCreated)
	}

	if err := db.DeleteUndo(blockHash); err != nil {
		t.Fatalf("DeleteUndo: %v", err)
	}
	if _, err := db.GetUndo(blockHash); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.GetCheckpoint(); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound before any checkpoint is saved, got %v", err)
	}

	c := utxocommitment.Commitment{
		Root:      chainhash.HashH([]byte("root")),
		Height:    500,
		BlockHash: chainhash.HashH([]byte("block")),
		UtxoCount: 12345,
	}
	if err := db.PutCheckpoint(c); err != nil {
		t.Fatalf("PutCheckpoint: %v", err)
	}

	got, err := db.GetCheckpoint()
	if err != nil {
		t.Fatalf("GetCheckpoint: %v", err)
	}
	if got != c {
		t.Fatalf("round-tripped checkpoint mismatch: got %+v, want %+v", got, c)
	}
}
