package utxocommitment

import (
	"testing"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
)

func TestEmptyTreeRootIsDeterministic(t *testing.T) {
	t1 := NewTree()
	t2 := NewTree()
	if t1.Root() != t2.Root() {
		t.Fatal("two empty trees must share the same root")
	}
	if t1.Count() != 0 {
		t.Fatalf("expected count 0, got %d", t1.Count())
	}
}

func TestInsertChangesRoot(t *testing.T) {
	tree := NewTree()
	emptyRoot := tree.Root()

	txHash := chainhash.HashH([]byte("tx1"))
	tree.Insert(txHash, 0, 5000, []byte{0x51}, 10, false)

	if tree.Root() == emptyRoot {
		t.Fatal("inserting a leaf must change the root")
	}
	if tree.Count() != 1 {
		t.Fatalf("expected count 1, got %d", tree.Count())
	}
}

func TestRemoveRestoresEmptyRoot(t *testing.T) {
	tree := NewTree()
	emptyRoot := tree.Root()

	txHash := chainhash.HashH([]byte("tx1"))
	tree.Insert(txHash, 0, 5000, []byte{0x51}, 10, false)
	tree.Remove(txHash, 0)

	if tree.Root() != emptyRoot {
		t.Fatal("removing the only leaf must restore the empty tree's root")
	}
	if tree.Count() != 0 {
		t.Fatalf("expected count 0 after remove, got %d", tree.Count())
	}
}

func TestInsertOrderIndependent(t *testing.T) {
	txA := chainhash.HashH([]byte("a"))
	txB := chainhash.HashH([]byte("b"))

	t1 := NewTree()
	t1.Insert(txA, 0, 100, []byte{0x51}, 1, false)
	t1.Insert(txB, 0, 200, []byte{0x52}, 2, false)

	t2 := NewTree()
	t2.Insert(txB, 0, 200, []byte{0x52}, 2, false)
	t2.Insert(txA, 0, 100, []byte{0x51}, 1, false)

	if t1.Root() != t2.Root() {
		t.Fatal("root must not depend on insertion order")
	}
}

func TestGetReflectsPresence(t *testing.T) {
	tree := NewTree()
	txHash := chainhash.HashH([]byte("tx"))

	if _, ok := tree.Get(txHash, 0); ok {
		t.Fatal("unset leaf must report absent")
	}

	tree.Insert(txHash, 0, 1, []byte{0x51}, 0, true)
	if _, ok := tree.Get(txHash, 0); !ok {
		t.Fatal("inserted leaf must report present")
	}

	tree.Remove(txHash, 0)
	if _, ok := tree.Get(txHash, 0); ok {
		t.Fatal("removed leaf must report absent again")
	}
}

func TestOverwriteInsertDoesNotDoubleCount(t *testing.T) {
	tree := NewTree()
	txHash := chainhash.HashH([]byte("tx"))

	tree.Insert(txHash, 0, 100, []byte{0x51}, 1, false)
	tree.Insert(txHash, 0, 200, []byte{0x52}, 1, false)

	if tree.Count() != 1 {
		t.Fatalf("expected count 1 after overwriting the same outpoint, got %d", tree.Count())
	}
}
