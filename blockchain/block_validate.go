package blockchain

import (
	"fmt"

	"github.com/BTCDecoded/bllvm-consensus/chaincfg"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// maxFutureTimeOffset is how far into the future, relative to the
// caller-supplied "now", a block's timestamp may be before it is
// rejected (spec §4.F's timestamp rule, the counterpart to the
// median-time-past lower bound).
const maxFutureTimeOffset = 2 * 60 * 60

// CheckBlockSanity performs context-free structural validation of a
// block (spec §4.F): exactly one coinbase as the first transaction, no
// other transaction is a coinbase, the Merkle root committed to in the
// header matches the transaction list, and the block respects the
// weight and sigop-cost ceilings.
func CheckBlockSanity(block *wire.MsgBlock, params *chaincfg.Params) error {
	if len(block.Transactions) == 0 {
		return ruleError(ErrFirstTxNotCoinbase, "block has no transactions")
	}
	if !block.Transactions[0].IsCoinBase() {
		return ruleError(ErrFirstTxNotCoinbase, "first transaction in block is not a coinbase")
	}
	for _, tx := range block.Transactions[1:] {
		if tx.IsCoinBase() {
			return ruleError(ErrOtherTxIsCoinbase, "block contains a second coinbase transaction")
		}
	}

	for _, tx := range block.Transactions {
		if err := CheckTransactionSanity(tx); err != nil {
			return err
		}
	}

	computedRoot := CalcMerkleRoot(block.Transactions)
	if computedRoot != block.Header.MerkleRoot {
		return ruleError(ErrBadMerkleRoot, fmt.Sprintf("block merkle root is %s, computed %s", block.Header.MerkleRoot, computedRoot))
	}

	if weight := block.Weight(); weight > wire.MaxBlockWeight {
		return ruleError(ErrExcessiveWeight, fmt.Sprintf("block weight of %d exceeds max allowed %d", weight, wire.MaxBlockWeight))
	}

	if cost := BlockSigOpCost(block); cost > wire.MaxBlockSigOpCost {
		return ruleError(ErrExcessiveSigOpCost, fmt.Sprintf("block sigop cost of %d exceeds max allowed %d", cost, wire.MaxBlockSigOpCost))
	}

	return nil
}

// CheckBlockHeaderContext validates a header against its position in
// the chain (spec §4.F): it must satisfy the proof-of-work target
// implied by its own bits field, that bits field must match what the
// retarget schedule demands at this height, and its timestamp must
// exceed the median of the preceding 11 blocks and not exceed now plus
// a small future-drift allowance.
func CheckBlockHeaderContext(header *wire.BlockHeader, parent *BlockNode, now int64, params *chaincfg.Params) error {
	hash := header.BlockHash()
	if err := CheckProofOfWork(&hash, header.Bits, params.PowLimit); err != nil {
		return err
	}

	expectedBits := params.PowLimitBits
	if parent != nil {
		expectedBits = nextRequiredBits(parent, header.Timestamp, params)
	}
	if header.Bits != expectedBits {
		return ruleError(ErrBadProofOfWork, fmt.Sprintf("block bits of %08x does not match expected %08x", header.Bits, expectedBits))
	}

	if parent != nil {
		medianTime := parent.MedianTimePast()
		if header.Timestamp <= medianTime {
			return ruleError(ErrBadTimestamp, fmt.Sprintf("block timestamp %d is not after median time past %d", header.Timestamp, medianTime))
		}
	}
	if int64(header.Timestamp) > now+maxFutureTimeOffset {
		return ruleError(ErrBadTimestamp, fmt.Sprintf("block timestamp %d is too far in the future", header.Timestamp))
	}

	return nil
}

// nextRequiredBits returns the bits field required for a block
// extending parent with the given timestamp, applying the retarget
// rule (spec §4.F) every RetargetInterval blocks and otherwise holding
// the parent's bits unchanged.
func nextRequiredBits(parent *BlockNode, newTimestamp uint32, params *chaincfg.Params) uint32 {
	nextHeight := parent.Height + 1
	if nextHeight%uint32(params.RetargetInterval) != 0 {
		return parent.Header.Bits
	}

	firstHeight := nextHeight - uint32(params.RetargetInterval)
	first := parent.Ancestor(firstHeight)
	if first == nil {
		return params.PowLimitBits
	}

	return CalcNextWorkRequired(parent.Header.Bits, int64(first.Header.Timestamp), int64(parent.Header.Timestamp), params.TargetTimespan, params.PowLimitBits, params.PowLimit)
}

// CheckCoinbaseValue verifies that a block's coinbase output total does
// not exceed the allowed subsidy plus the fees collected from the
// block's other transactions (spec §4.F).
func CheckCoinbaseValue(block *wire.MsgBlock, height uint32, totalFees int64, params *chaincfg.Params) error {
	var coinbaseOut int64
	for _, out := range block.Transactions[0].TxOut {
		coinbaseOut += out.Value
	}

	allowed := params.CalcBlockSubsidy(height) + totalFees
	if coinbaseOut > allowed {
		return ruleError(ErrBadCoinbaseValue, fmt.Sprintf("coinbase pays %d, which exceeds the allowed subsidy plus fees of %d", coinbaseOut, allowed))
	}
	return nil
}
