package blockchain

import (
	"github.com/BTCDecoded/bllvm-consensus/txscript"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// legacySigOpWeight is the per-signature-check weight charged against a
// block's sigop budget for a checksig opcode encountered outside of a
// witness (spec §4.F ties MaxBlockSigOpCost to the same weight units as
// MaxBlockWeight, scaling legacy sigops by 4 relative to witness ones).
const legacySigOpWeight = 4

// witnessSigOpWeight is the weight charged for a checksig opcode
// encountered inside a witness stack item.
const witnessSigOpWeight = 1

// countSigOps returns the number of bytes in a raw script equal to
// OP_CHECKSIG or OP_CHECKSIGVERIFY; the script is not parsed, so such
// bytes inside push data are counted too.
func countSigOps(script []byte) int {
	n := 0
	for _, b := range script {
		if b == txscript.OpCheckSig || b == txscript.OpCheckSigVerify {
			n++
		}
	}
	return n
}

// BlockSigOpCost computes the total weighted signature-operation cost
// of every transaction in a block (spec §4.F): each input's signature
// script and each of the transaction's own output public-key scripts
// are counted at legacy weight, and witness stack items at witness
// weight. The public-key scripts of the outputs being spent are not
// counted.
func BlockSigOpCost(block *wire.MsgBlock) int {
	total := 0
	for _, tx := range block.Transactions {
		for _, in := range tx.TxIn {
			total += legacySigOpWeight * countSigOps(in.SignatureScript)
			for _, item := range in.Witness {
				total += witnessSigOpWeight * countSigOps(item)
			}
		}
		for _, out := range tx.TxOut {
			total += legacySigOpWeight * countSigOps(out.PkScript)
		}
	}
	return total
}
