package utxocommitment

import (
	"testing"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

func TestEstablishCheckpointInsufficientPeers(t *testing.T) {
	sync := NewInitialSync(ConsensusConfig{MinPeers: 3, Quorum: 2, SafetyMargin: 1})
	peers := []PeerInfo{{ID: "a", NetworkPrefix: "x"}}

	_, err := sync.EstablishCheckpoint(peers, nil, nil, func(PeerInfo, uint32) (Commitment, error) {
		return Commitment{}, nil
	})
	if !IsErrorKind(err, ErrInsufficientPeers) {
		t.Fatalf("expected ErrInsufficientPeers, got %v", err)
	}
}

func TestEstablishCheckpointAgreement(t *testing.T) {
	sync := NewInitialSync(ConsensusConfig{MinPeers: 2, Quorum: 2, SafetyMargin: 0})
	peers := []PeerInfo{
		{ID: "a", NetworkPrefix: "x"},
		{ID: "b", NetworkPrefix: "y"},
	}

	header := &wire.BlockHeader{Nonce: 42}
	blockHash := header.BlockHash()
	root := chainhash.HashH([]byte("agreed-root"))
	agreed := Commitment{Root: root, BlockHash: blockHash, Height: 0}

	query := func(p PeerInfo, height uint32) (Commitment, error) {
		return agreed, nil
	}

	got, err := sync.EstablishCheckpoint(peers, []uint32{0, 0}, []*wire.BlockHeader{header}, query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Root != root {
		t.Fatal("expected the agreed commitment to be returned")
	}
}

func TestEstablishCheckpointHeaderMismatch(t *testing.T) {
	sync := NewInitialSync(ConsensusConfig{MinPeers: 2, Quorum: 2, SafetyMargin: 0})
	peers := []PeerInfo{
		{ID: "a", NetworkPrefix: "x"},
		{ID: "b", NetworkPrefix: "y"},
	}

	header := &wire.BlockHeader{Nonce: 42}
	agreed := Commitment{Root: chainhash.HashH([]byte("root")), BlockHash: chainhash.HashH([]byte("wrong")), Height: 0}

	query := func(p PeerInfo, height uint32) (Commitment, error) {
		return agreed, nil
	}

	_, err := sync.EstablishCheckpoint(peers, []uint32{0, 0}, []*wire.BlockHeader{header}, query)
	if !IsErrorKind(err, ErrCheckpointHeaderMismatch) {
		t.Fatalf("expected ErrCheckpointHeaderMismatch, got %v", err)
	}
}

func TestRebuildFromUtxoSetVerifiesRoot(t *testing.T) {
	txHash := chainhash.HashH([]byte("tx"))
	tree := NewTree()
	tree.Insert(txHash, 0, 1000, []byte{0x51}, 10, false)
	commitment := Generate(tree, 10, chainhash.Hash{})

	entries := func(yield func(op wire.OutPoint, amount int64, pkScript []byte, height uint32, isCoinbase bool)) {
		yield(wire.OutPoint{Hash: txHash, Index: 0}, 1000, []byte{0x51}, 10, false)
	}

	rebuilt, err := RebuildFromUtxoSet(commitment, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rebuilt.Root() != commitment.Root {
		t.Fatal("rebuilt tree root must match the commitment")
	}
}

func TestRebuildFromUtxoSetMismatch(t *testing.T) {
	commitment := Commitment{Root: chainhash.HashH([]byte("bogus")), UtxoCount: 5}
	entries := func(yield func(op wire.OutPoint, amount int64, pkScript []byte, height uint32, isCoinbase bool)) {}

	if _, err := RebuildFromUtxoSet(commitment, entries); !IsErrorKind(err, ErrCommitmentRootMismatch) {
		t.Fatalf("expected ErrCommitmentRootMismatch, got %v", err)
	}
}
