package blockchain

import (
	"testing"

	"github.com/BTCDecoded/bllvm-consensus/wire"
)

func newTestChain(t *testing.T) (*ChainState, map[[32]byte]*wire.MsgBlock) {
	t.Helper()
	params := regtestLikeParams()
	genesisTx := coinbaseTx(params.CalcBlockSubsidy(0))
	genesis := buildBlock(params, 0, []*wire.MsgTx{genesisTx})

	cs, err := NewChainState(genesis, params)
	if err != nil {
		t.Fatalf("NewChainState: %v", err)
	}
	bodies := map[[32]byte]*wire.MsgBlock{genesis.Header.BlockHash(): genesis}
	return cs, bodies
}

func extendChain(t *testing.T, cs *ChainState, bodies map[[32]byte]*wire.MsgBlock, parent *BlockNode, nonce uint32, now int64) *BlockNode {
	t.Helper()
	cbValue := cs.Params.CalcBlockSubsidy(parent.Height + 1)
	tx := coinbaseTx(cbValue)
	// Give each coinbase its own txid so its output is a distinct UTXO.
	tx.TxIn[0].SignatureScript = []byte{byte(nonce)}
	block := buildBlock(cs.Params, 0, []*wire.MsgTx{tx})
	block.Header.PrevBlock = parent.Hash
	block.Header.Timestamp = parent.Header.Timestamp + 1
	block.Header.Nonce = nonce
	solveHeader(&block.Header, cs.Params)

	node, err := cs.AcceptBlock(block, now)
	if err != nil {
		t.Fatalf("AcceptBlock: %v", err)
	}
	bodies[node.Hash] = block
	return node
}

func TestChainStateLinearExtension(t *testing.T) {
	cs, bodies := newTestChain(t)
	genesis := cs.Chain.Tip()
	now := int64(genesis.Header.Timestamp) + 1000

	n1 := extendChain(t, cs, bodies, genesis, 1, now)
	if err := cs.MaybeReorganize(n1, func(n *BlockNode) (*wire.MsgBlock, error) { return bodies[n.Hash], nil }); err != nil {
		t.Fatalf("MaybeReorganize: %v", err)
	}
	if cs.Chain.Tip() != n1 {
		t.Fatal("expected chain tip to advance to n1")
	}
	if cs.UtxoSet.Len() != 2 {
		t.Fatalf("expected 2 unspent coinbase outputs (genesis + n1), got %d", cs.UtxoSet.Len())
	}
}

func TestChainStateReorgToHeavierFork(t *testing.T) {
	cs, bodies := newTestChain(t)
	genesis := cs.Chain.Tip()
	now := int64(genesis.Header.Timestamp) + 100000

	fetch := func(n *BlockNode) (*wire.MsgBlock, error) { return bodies[n.Hash], nil }

	// Branch A: genesis -> a1.
	a1 := extendChain(t, cs, bodies, genesis, 1, now)
	if err := cs.MaybeReorganize(a1, fetch); err != nil {
		t.Fatalf("reorg onto a1: %v", err)
	}

	// Branch B (built against genesis independently, not yet active):
	// b1 -> b2, which accumulates more work once both are mined since
	// both use the same trivial difficulty; with equal per-block work
	// the tie goes to whichever the test connects last only if work is
	// strictly greater, so extend B one block further than A to force
	// a real overtake.
	b1 := extendChain(t, cs, bodies, genesis, 2, now)
	b2 := extendChain(t, cs, bodies, b1, 3, now)

	if err := cs.MaybeReorganize(b2, fetch); err != nil {
		t.Fatalf("reorg onto b2: %v", err)
	}
	if cs.Chain.Tip() != b2 {
		t.Fatal("expected chain tip to reorganize onto the heavier b2 branch")
	}
	if !cs.Chain.Contains(b1) || !cs.Chain.Contains(b2) {
		t.Fatal("expected branch B to be the active chain after reorg")
	}
	// a1's coinbase output must have been disconnected, and b1/b2's
	// coinbase outputs connected, alongside genesis's.
	if cs.UtxoSet.Len() != 3 {
		t.Fatalf("expected 3 unspent coinbase outputs (genesis, b1, b2), got %d", cs.UtxoSet.Len())
	}
}
