package blockchain

import (
	"math/big"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
)

// CompactToBig expands the compact "bits" representation of a
// proof-of-work target into a big.Int, following the same mantissa/
// exponent layout as the original Bitcoin nBits encoding.
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	exponent := compact >> 24

	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, uint(8*(exponent-3)))
	}

	if compact&0x00800000 != 0 {
		bn = bn.Neg(bn)
	}
	return bn
}

// BigToCompact condenses a big.Int target into the compact "bits"
// representation.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	negative := n.Sign() < 0
	mantissa := new(big.Int).Abs(n)

	exponent := uint(len(mantissa.Bytes()))
	var compact uint32
	if exponent <= 3 {
		compact = uint32(mantissa.Int64())
		compact <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(mantissa)
		tn.Rsh(tn, 8*(exponent-3))
		compact = uint32(tn.Int64())
	}

	if compact&0x00800000 != 0 {
		compact >>= 8
		exponent++
	}

	compact |= uint32(exponent) << 24
	if negative {
		compact |= 0x00800000
	}
	return compact
}

// HashToBig interprets a block hash as a big-endian integer for
// proof-of-work comparison, reversing the hash's internal byte order
// (the hash is stored in the same reversed convention as Hash.String).
func HashToBig(hash *chainhash.Hash) *big.Int {
	var buf chainhash.Hash
	for i := 0; i < chainhash.HashSize; i++ {
		buf[chainhash.HashSize-1-i] = hash[i]
	}
	return new(big.Int).SetBytes(buf[:])
}

// CheckProofOfWork verifies that a block's hash satisfies the target
// implied by its bits field and that the target itself does not
// exceed the network's proof-of-work limit (spec §4.F).
func CheckProofOfWork(hash *chainhash.Hash, bits uint32, powLimit *big.Int) error {
	target := CompactToBig(bits)

	if target.Sign() <= 0 {
		return ruleError(ErrBadProofOfWork, "block target difficulty is non-positive")
	}
	if target.Cmp(powLimit) > 0 {
		return ruleError(ErrBadProofOfWork, "block target difficulty exceeds the network's proof-of-work limit")
	}

	hashNum := HashToBig(hash)
	if hashNum.Cmp(target) > 0 {
		return ruleError(ErrBadProofOfWork, "block hash does not satisfy the target difficulty implied by its bits field")
	}
	return nil
}

// CalcWork returns the amount of work represented by a block with the
// given bits, defined as floor(2**256 / (target+1)), so that smaller
// targets (higher difficulty) contribute more work. Chain selection
// (spec §4.I) sums this across a chain to compare cumulative work.
func CalcWork(bits uint32) *big.Int {
	target := CompactToBig(bits)
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}

	denominator := new(big.Int).Add(target, big.NewInt(1))
	maxNum := new(big.Int).Lsh(big.NewInt(1), 256)
	return new(big.Int).Div(maxNum, denominator)
}

// CalcNextWorkRequired computes the retargeted difficulty bits for the
// block following the chain whose most recent RetargetInterval blocks
// spanned from firstBlockTime to lastBlockTime, clamped to the network
// proof-of-work limit and to a 4x adjustment factor in either
// direction (spec §4.F).
func CalcNextWorkRequired(lastBits uint32, firstBlockTime, lastBlockTime int64, targetTimespan int64, powLimitBits uint32, powLimit *big.Int) uint32 {
	actualTimespan := lastBlockTime - firstBlockTime

	minTimespan := targetTimespan / 4
	maxTimespan := targetTimespan * 4
	if actualTimespan < minTimespan {
		actualTimespan = minTimespan
	}
	if actualTimespan > maxTimespan {
		actualTimespan = maxTimespan
	}

	oldTarget := CompactToBig(lastBits)
	newTarget := new(big.Int).Mul(oldTarget, big.NewInt(actualTimespan))
	newTarget.Div(newTarget, big.NewInt(targetTimespan))

	if newTarget.Cmp(powLimit) > 0 {
		return powLimitBits
	}
	return BigToCompact(newTarget)
}
