package utxocommitment

import (
	"fmt"

	"github.com/BTCDecoded/bllvm-consensus/clog"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// BlockSource resolves a height on the best chain to its full block
// body, used to replay from checkpoint+1 forward during sync.
type BlockSource func(height uint32) (*wire.MsgBlock, error)

// PeerQuery requests a peer's claimed commitment at a given height.
type PeerQuery func(peer PeerInfo, height uint32) (Commitment, error)

// InitialSync drives the peer-consensus checkpoint sync protocol
// (spec §4.J's "Initial-sync protocol"), from peer discovery through
// forward replay to the live tip.
type InitialSync struct {
	Config     ConsensusConfig
	SpamFilter *SpamFilter
}

// NewInitialSync returns an InitialSync using the default spam filter.
func NewInitialSync(cfg ConsensusConfig) *InitialSync {
	return &InitialSync{Config: cfg, SpamFilter: NewSpamFilter()}
}

// EstablishCheckpoint executes steps 1-5 of the initial-sync protocol:
// discover diverse peers, pick a checkpoint height, query peers for
// their commitment there, find majority consensus, and verify the
// checkpoint's block header against the local header chain. It
// returns the agreed Commitment ready for UTXO-set download.
func (s *InitialSync) EstablishCheckpoint(allPeers []PeerInfo, peerTips []uint32, headerChain []*wire.BlockHeader, query PeerQuery) (Commitment, error) {
	diverse := DiscoverDiversePeers(allPeers)
	if len(diverse) < s.Config.MinPeers {
		return Commitment{}, syncError(ErrInsufficientPeers, fmt.Sprintf("discovered %d diverse peers, need at least %d", len(diverse), s.Config.MinPeers))
	}

	var checkpoint uint32
	if len(peerTips) > 0 {
		checkpoint = DetermineCheckpointHeight(peerTips, s.Config.SafetyMargin)
	} else if len(headerChain) > 0 {
		tip := uint32(len(headerChain) - 1)
		if tip > s.Config.SafetyMargin {
			checkpoint = tip - s.Config.SafetyMargin
		}
	} else {
		return Commitment{}, syncError(ErrCheckpointOutOfRange, "no peer tips or local header chain available to pick a checkpoint")
	}

	responses := make([]PeerResponse, 0, len(diverse))
	for _, p := range diverse {
		commitment, err := query(p, checkpoint)
		if err != nil {
			continue // an unresponsive or faulty peer simply doesn't contribute a vote
		}
		responses = append(responses, PeerResponse{Peer: p, Commitment: commitment})
	}

	consensus, err := FindConsensus(responses, s.Config)
	if err != nil {
		return Commitment{}, err
	}

	if err := VerifyCheckpointHeader(consensus, headerChain); err != nil {
		return Commitment{}, err
	}

	clog.Sync().Infof("established checkpoint at height %d with root %s from %d diverse peers", checkpoint, consensus.Root, len(diverse))
	return consensus, nil
}

// RebuildFromUtxoSet constructs a fresh tree from a downloaded UTXO
// set and verifies it reproduces the agreed checkpoint commitment
// (spec §4.J step 6).
func RebuildFromUtxoSet(commitment Commitment, entries func(yield func(op wire.OutPoint, amount int64, pkScript []byte, height uint32, isCoinbase bool))) (*Tree, error) {
	tree := NewTree()
	entries(func(op wire.OutPoint, amount int64, pkScript []byte, height uint32, isCoinbase bool) {
		tree.Insert(op.Hash, op.Index, amount, pkScript, height, isCoinbase)
	})
	if !commitment.Matches(tree) {
		return nil, syncError(ErrCommitmentRootMismatch, fmt.Sprintf("rebuilt tree root %s (count %d) does not match agreed commitment root %s (count %d)", tree.Root(), tree.Count(), commitment.Root, commitment.UtxoCount))
	}
	return tree, nil
}

// ReplayForward fetches and applies every block from checkpoint+1
// through tip, optionally spam-filtering each block's non-coinbase
// transactions, and, for every height at which expectedCommitment
// returns ok, requires the tree's root after that block to match the
// expected root (spec §4.J step 7); heights without one are not checked.
// catchUp selects whether the spam filter is consulted for this
// block; once the caller considers itself live it should pass false
// so every transaction is applied regardless of the filter.
func (s *InitialSync) ReplayForward(tree *Tree, checkpoint, tip uint32, source BlockSource, lookup UtxoLookup, fee func(*wire.MsgTx) (int64, bool), expectedCommitment func(height uint32) (Commitment, bool), catchUp bool) error {
	for h := checkpoint + 1; h <= tip; h++ {
		block, err := source(h)
		if err != nil {
			return fmt.Errorf("fetching block at height %d: %w", h, err)
		}

		txs := block.Transactions
		if catchUp {
			txs, _ = s.SpamFilter.FilterBlock(txs, fee)
		}
		filtered := &wire.MsgBlock{Header: block.Header, Transactions: txs}
		ApplyBlock(tree, filtered, h, lookup)

		if expected, ok := expectedCommitment(h); ok && tree.Root() != expected.Root {
			return syncError(ErrCommitmentRootMismatch, fmt.Sprintf("tree root after applying block at height %d is %s, expected %s", h, tree.Root(), expected.Root))
		}
	}
	clog.Sync().Infof("replayed forward from height %d to %d", checkpoint, tip)
	return nil
}
