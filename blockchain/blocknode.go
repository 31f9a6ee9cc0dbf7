package blockchain

import (
	"math/big"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// BlockNode is a single entry in the header index: a block's header
// plus its position and cumulative proof-of-work relative to genesis.
// Adapted from the teacher's blockdag.blockNode, which additionally
// tracked multiple parents and a blue score for GHOSTDAG; this core
// has exactly one parent and orders purely by height and work.
type BlockNode struct {
	Hash       chainhash.Hash
	Header     wire.BlockHeader
	Height     uint32
	Parent     *BlockNode
	Work       *big.Int // work contributed by this block alone
	ChainWork  *big.Int // cumulative work from genesis through this block
}

// NewBlockNode constructs a BlockNode for header, linking it to parent
// (nil for genesis) and computing its cumulative chain work.
func NewBlockNode(header *wire.BlockHeader, parent *BlockNode) *BlockNode {
	work := CalcWork(header.Bits)
	chainWork := new(big.Int).Set(work)
	height := uint32(0)
	if parent != nil {
		chainWork.Add(chainWork, parent.ChainWork)
		height = parent.Height + 1
	}
	return &BlockNode{
		Hash:      header.BlockHash(),
		Header:    *header,
		Height:    height,
		Parent:    parent,
		Work:      work,
		ChainWork: chainWork,
	}
}

// Ancestor walks back from node to the ancestor at the given height.
// It returns nil if height is greater than node's height or negative.
func (node *BlockNode) Ancestor(height uint32) *BlockNode {
	if node == nil || height > node.Height {
		return nil
	}
	n := node
	for n != nil && n.Height > height {
		n = n.Parent
	}
	return n
}

// RelativeAncestor returns the ancestor distance blocks before node.
func (node *BlockNode) RelativeAncestor(distance uint32) *BlockNode {
	if distance > node.Height {
		return nil
	}
	return node.Ancestor(node.Height - distance)
}

// MedianTimePast returns the median timestamp of up to the 11 most
// recent blocks ending at node, inclusive (spec §4.F's "bad-timestamp"
// rule: a block's time must exceed this).
func (node *BlockNode) MedianTimePast() uint32 {
	const medianTimeBlocks = 11

	timestamps := make([]uint32, 0, medianTimeBlocks)
	n := node
	for i := 0; i < medianTimeBlocks && n != nil; i++ {
		timestamps = append(timestamps, n.Header.Timestamp)
		n = n.Parent
	}

	for i := 1; i < len(timestamps); i++ {
		for j := i; j > 0 && timestamps[j-1] > timestamps[j]; j-- {
			timestamps[j-1], timestamps[j] = timestamps[j], timestamps[j-1]
		}
	}
	return timestamps[len(timestamps)/2]
}

// BlockIndex tracks every known header by hash, including headers not
// on the current best chain, so that reorganization (spec §4.I) can
// walk side branches without re-fetching data.
type BlockIndex struct {
	nodes map[chainhash.Hash]*BlockNode
}

// NewBlockIndex returns an empty block index.
func NewBlockIndex() *BlockIndex {
	return &BlockIndex{nodes: make(map[chainhash.Hash]*BlockNode)}
}

// AddNode registers node in the index.
func (bi *BlockIndex) AddNode(node *BlockNode) {
	bi.nodes[node.Hash] = node
}

// LookupNode returns the node for hash, or nil if unknown.
func (bi *BlockIndex) LookupNode(hash chainhash.Hash) *BlockNode {
	return bi.nodes[hash]
}

// Chain tracks the currently-selected best chain as a height-indexed
// slice of nodes, mirroring the teacher's chainView but specialized to
// a single selected-parent chain instead of a DAG virtual selection.
type Chain struct {
	nodes []*BlockNode // nodes[i].Height == i
}

// NewChain returns an empty chain (no genesis set yet).
func NewChain() *Chain {
	return &Chain{}
}

// Tip returns the chain's current best block, or nil if empty.
func (c *Chain) Tip() *BlockNode {
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[len(c.nodes)-1]
}

// Height returns the height of the tip, or -1 (as MaxUint32-wrapping
// would mislead, callers should check Tip() == nil first) when empty.
func (c *Chain) Height() int64 {
	return int64(len(c.nodes)) - 1
}

// NodeByHeight returns the node at height on the current chain, or nil
// if height is out of range.
func (c *Chain) NodeByHeight(height uint32) *BlockNode {
	if int64(height) > c.Height() {
		return nil
	}
	return c.nodes[height]
}

// Contains reports whether node is on the current chain at its own
// height (i.e. is not a side-branch block).
func (c *Chain) Contains(node *BlockNode) bool {
	return c.NodeByHeight(node.Height) == node
}

// SetTip replaces the chain's contents with the ancestor path from
// genesis through node.
func (c *Chain) SetTip(node *BlockNode) {
	if node == nil {
		c.nodes = nil
		return
	}
	needed := make([]*BlockNode, node.Height+1)
	n := node
	for n != nil {
		needed[n.Height] = n
		n = n.Parent
	}
	c.nodes = needed
}

// FindFork returns the highest node that is an ancestor of both the
// current chain's tip and node, i.e. their common ancestor (spec
// §4.I). It returns nil only if the chains share no ancestor at all,
// which cannot happen for two nodes descended from the same genesis.
func (c *Chain) FindFork(node *BlockNode) *BlockNode {
	if node == nil {
		return nil
	}
	chainHeight := c.Height()
	if int64(node.Height) > chainHeight {
		node = node.Ancestor(uint32(chainHeight))
	}
	for node != nil && !c.Contains(node) {
		node = node.Parent
	}
	return node
}
