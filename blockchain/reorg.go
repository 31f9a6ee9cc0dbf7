package blockchain

import (
	"fmt"

	"github.com/BTCDecoded/bllvm-consensus/chaincfg"
	"github.com/BTCDecoded/bllvm-consensus/clog"
	"github.com/BTCDecoded/bllvm-consensus/txscript"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// BlockFetcher resolves a header-indexed BlockNode to its full block
// body. Connect/disconnect during reorganization needs bodies, not
// just headers, and the header index deliberately doesn't store them.
type BlockFetcher func(node *BlockNode) (*wire.MsgBlock, error)

// ChainState bundles the mutable state chain selection operates over:
// the header index, the currently-selected best chain, and the UTXO
// set reflecting that chain's tip. It is not safe for concurrent use;
// callers serialize block acceptance themselves (the teacher does the
// same with its per-DAG chain-state lock).
type ChainState struct {
	Index   *BlockIndex
	Chain   *Chain
	UtxoSet *UtxoSet
	Params  *chaincfg.Params

	undoByHash map[[32]byte]*BlockUndo
}

// NewChainState returns a ChainState seeded with the genesis block
// already connected.
func NewChainState(genesis *wire.MsgBlock, params *chaincfg.Params) (*ChainState, error) {
	cs := &ChainState{
		Index:      NewBlockIndex(),
		Chain:      NewChain(),
		UtxoSet:    NewUtxoSet(),
		Params:     params,
		undoByHash: make(map[[32]byte]*BlockUndo),
	}

	node := NewBlockNode(&genesis.Header, nil)
	cs.Index.AddNode(node)
	cs.Chain.SetTip(node)

	undo, err := ConnectBlock(genesis, 0, cs.UtxoSet, params, txscript.ScriptNoFlags, nil)
	if err != nil {
		return nil, err
	}
	cs.undoByHash[node.Hash] = undo
	return cs, nil
}

// AcceptBlock validates block header-and-sanity-only and adds it to
// the header index without necessarily making it the new tip; callers
// drive chain selection afterward with MaybeReorganize. now is the
// caller's wall-clock time in Unix seconds, used for the future-
// timestamp check (spec §4.F).
func (cs *ChainState) AcceptBlock(block *wire.MsgBlock, now int64) (*BlockNode, error) {
	if err := CheckBlockSanity(block, cs.Params); err != nil {
		return nil, err
	}

	parent := cs.Index.LookupNode(block.Header.PrevBlock)
	if parent == nil {
		return nil, ruleError(ErrMissingCommonAncestor, "block's parent is not known to the header index")
	}

	if err := CheckBlockHeaderContext(&block.Header, parent, now, cs.Params); err != nil {
		return nil, err
	}

	node := NewBlockNode(&block.Header, parent)
	cs.Index.AddNode(node)
	return node, nil
}

// MaybeReorganize compares candidate's cumulative chain work against
// the current tip and, if candidate's chain is now the best known
// chain, reorganizes onto it (spec §4.I): disconnecting blocks back to
// the common ancestor, then connecting forward along the new branch.
// fetch resolves a header-only node to its full block body, needed to
// connect the new branch.
func (cs *ChainState) MaybeReorganize(candidate *BlockNode, fetch BlockFetcher) error {
	tip := cs.Chain.Tip()
	if tip != nil && candidate.ChainWork.Cmp(tip.ChainWork) <= 0 {
		return nil
	}

	fork := cs.Chain.FindFork(candidate)
	if fork == nil {
		return ruleError(ErrMissingCommonAncestor, "candidate chain shares no common ancestor with the current best chain")
	}

	clog.Reog().Infof("reorganizing to block %s at height %d, fork point height %d", candidate.Hash, candidate.Height, fork.Height)

	// Pre-flight: every block on the path back to fork must have an
	// undo record before any mutation happens, so a reorg either fully
	// commits or leaves the chain state untouched.
	var disconnected []*BlockNode
	for n := tip; n != nil && n != fork; n = n.Parent {
		if _, ok := cs.undoByHash[n.Hash]; !ok {
			return ruleError(ErrMissingUndo, fmt.Sprintf("no undo record for block %s at height %d", n.Hash, n.Height))
		}
		disconnected = append(disconnected, n)
	}

	// Collect the new branch from candidate back to (exclusive of)
	// fork, oldest first.
	var connect []*BlockNode
	for n := candidate; n != nil && n != fork; n = n.Parent {
		connect = append(connect, n)
	}
	for i, j := 0, len(connect)-1; i < j; i, j = i+1, j-1 {
		connect[i], connect[j] = connect[j], connect[i]
	}

	utxoSnapshot := cs.UtxoSet.Clone()
	undoSnapshot := make(map[[32]byte]*BlockUndo, len(cs.undoByHash))
	for k, v := range cs.undoByHash {
		undoSnapshot[k] = v
	}

	abort := func(err error) error {
		*cs.UtxoSet = *utxoSnapshot
		cs.undoByHash = undoSnapshot
		return err
	}

	for _, n := range disconnected {
		undo := cs.undoByHash[n.Hash]
		if err := DisconnectBlock(undo, cs.UtxoSet); err != nil {
			return abort(err)
		}
		delete(cs.undoByHash, n.Hash)
	}

	for _, n := range connect {
		body, err := fetch(n)
		if err != nil {
			return abort(ruleError(ErrReorgConnectFailed, fmt.Sprintf("could not fetch block body for %s: %v", n.Hash, err)))
		}
		undo, err := ConnectBlock(body, n.Height, cs.UtxoSet, cs.Params, txscript.ScriptNoFlags, nil)
		if err != nil {
			return abort(ruleError(ErrReorgConnectFailed, fmt.Sprintf("reorg failed connecting block %s: %v", n.Hash, err)))
		}
		cs.undoByHash[n.Hash] = undo
	}

	cs.Chain.SetTip(candidate)
	clog.Reog().Infof("reorg complete, new tip %s at height %d", candidate.Hash, candidate.Height)
	return nil
}
