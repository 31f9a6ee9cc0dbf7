package utxocommitment

import (
	"fmt"
	"sort"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// PeerInfo identifies a candidate sync peer and the network it was
// observed on, used to filter for subnet diversity before trusting any
// majority of responses (spec §4.J step 1).
type PeerInfo struct {
	ID            string
	NetworkPrefix string // e.g. the /16 of the peer's IP, used for diversity filtering
}

// ConsensusConfig parameterizes the initial-sync peer-agreement
// algorithm (spec §4.J).
type ConsensusConfig struct {
	// MinPeers is the minimum number of distinct-prefix peers required
	// before sync may proceed at all.
	MinPeers int

	// Quorum is the minimum number of peers that must have responded
	// with the agreed-upon commitment for it to be accepted.
	Quorum int

	// SafetyMargin is subtracted from the median peer tip height to
	// choose a checkpoint height unlikely to be reorganized away.
	SafetyMargin uint32
}

// DiscoverDiversePeers filters allPeers down to at most one peer per
// distinct NetworkPrefix, so a single actor controlling many peers on
// the same subnet cannot dominate the consensus vote.
func DiscoverDiversePeers(allPeers []PeerInfo) []PeerInfo {
	seen := make(map[string]bool, len(allPeers))
	var diverse []PeerInfo
	for _, p := range allPeers {
		if seen[p.NetworkPrefix] {
			continue
		}
		seen[p.NetworkPrefix] = true
		diverse = append(diverse, p)
	}
	return diverse
}

// DetermineCheckpointHeight picks a sync checkpoint height from the
// reported tip heights of the peer set: the median tip, pulled back by
// a safety margin (spec §4.J step 2).
func DetermineCheckpointHeight(peerTips []uint32, safetyMargin uint32) uint32 {
	sorted := append([]uint32(nil), peerTips...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	median := sorted[len(sorted)/2]
	if median < safetyMargin {
		return 0
	}
	return median - safetyMargin
}

// PeerResponse is a single peer's claimed commitment at the checkpoint
// height.
type PeerResponse struct {
	Peer       PeerInfo
	Commitment Commitment
}

// FindConsensus groups peer responses by identical (root, block_hash)
// and accepts the value held by a strict majority of at least
// cfg.Quorum respondents, failing otherwise (spec §4.J step 4).
func FindConsensus(responses []PeerResponse, cfg ConsensusConfig) (Commitment, error) {
	type key struct {
		root chainhash.Hash
		hash chainhash.Hash
	}
	counts := make(map[key]int)
	values := make(map[key]Commitment)
	for _, r := range responses {
		k := key{root: r.Commitment.Root, hash: r.Commitment.BlockHash}
		counts[k]++
		values[k] = r.Commitment
	}

	total := len(responses)
	if total == 0 {
		return Commitment{}, syncError(ErrInsufficientConsensus, "no peer responses to evaluate")
	}

	for k, n := range counts {
		if n >= cfg.Quorum && n*2 > total {
			return values[k], nil
		}
	}
	return Commitment{}, syncError(ErrInsufficientConsensus, fmt.Sprintf("no commitment held by a strict majority of >= %d peers out of %d responses", cfg.Quorum, total))
}

// VerifyCheckpointHeader checks that the agreed commitment's block
// hash matches the local header chain's hash at that height (spec
// §4.J step 5).
func VerifyCheckpointHeader(commitment Commitment, headerChain []*wire.BlockHeader) error {
	if commitment.Height >= uint32(len(headerChain)) {
		return syncError(ErrCheckpointOutOfRange, fmt.Sprintf("checkpoint height %d exceeds local header chain length %d", commitment.Height, len(headerChain)))
	}
	localHash := headerChain[commitment.Height].BlockHash()
	if localHash != commitment.BlockHash {
		return syncError(ErrCheckpointHeaderMismatch, fmt.Sprintf("local header at height %d has hash %s, peer commitment claims %s", commitment.Height, localHash, commitment.BlockHash))
	}
	return nil
}
