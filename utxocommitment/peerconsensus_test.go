package utxocommitment

import (
	"testing"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
)

func TestDiscoverDiversePeersDedupesBySubnet(t *testing.T) {
	peers := []PeerInfo{
		{ID: "a", NetworkPrefix: "1.2.3.0/24"},
		{ID: "b", NetworkPrefix: "1.2.3.0/24"},
		{ID: "c", NetworkPrefix: "5.6.7.0/24"},
	}
	diverse := DiscoverDiversePeers(peers)
	if len(diverse) != 2 {
		t.Fatalf("expected 2 diverse peers, got %d", len(diverse))
	}
}

func TestDetermineCheckpointHeight(t *testing.T) {
	got := DetermineCheckpointHeight([]uint32{100, 110, 105}, 10)
	if got != 95 {
		t.Fatalf("expected checkpoint 95 (median 105 - margin 10), got %d", got)
	}
}

func TestDetermineCheckpointHeightClampsAtZero(t *testing.T) {
	got := DetermineCheckpointHeight([]uint32{5, 5, 5}, 10)
	if got != 0 {
		t.Fatalf("expected checkpoint to clamp to 0, got %d", got)
	}
}

func TestFindConsensusRequiresMajority(t *testing.T) {
	root1 := chainhash.HashH([]byte("root1"))
	root2 := chainhash.HashH([]byte("root2"))
	blockHash := chainhash.HashH([]byte("block"))

	cfg := ConsensusConfig{Quorum: 3}
	responses := []PeerResponse{
		{Peer: PeerInfo{ID: "p1"}, Commitment: Commitment{Root: root1, BlockHash: blockHash}},
		{Peer: PeerInfo{ID: "p2"}, Commitment: Commitment{Root: root1, BlockHash: blockHash}},
		{Peer: PeerInfo{ID: "p3"}, Commitment: Commitment{Root: root2, BlockHash: blockHash}},
	}

	if _, err := FindConsensus(responses, cfg); !IsErrorKind(err, ErrInsufficientConsensus) {
		t.Fatalf("expected ErrInsufficientConsensus with only 2/3 agreeing and quorum 3, got %v", err)
	}

	responses = append(responses, PeerResponse{Peer: PeerInfo{ID: "p4"}, Commitment: Commitment{Root: root1, BlockHash: blockHash}})
	consensus, err := FindConsensus(responses, cfg)
	if err != nil {
		t.Fatalf("expected consensus with 3/4 agreeing, got error %v", err)
	}
	if consensus.Root != root1 {
		t.Fatal("expected the majority root to be selected")
	}
}

func TestFindConsensusNoResponses(t *testing.T) {
	if _, err := FindConsensus(nil, ConsensusConfig{Quorum: 1}); !IsErrorKind(err, ErrInsufficientConsensus) {
		t.Fatalf("expected ErrInsufficientConsensus for no responses, got %v", err)
	}
}
