package wire

// Consensus-critical structural limits (spec.md §3, §4.F).
const (
	// MaxInputsPerTx is the maximum number of inputs a transaction may
	// carry.
	MaxInputsPerTx = 1000

	// MaxOutputsPerTx is the maximum number of outputs a transaction may
	// carry.
	MaxOutputsPerTx = 1000

	// MaxTxSize is the maximum serialized size, in bytes, of a single
	// transaction.
	MaxTxSize = 1_000_000

	// MaxBlockWeight is the maximum block weight, where weight =
	// stripped_size*4 + witness_size.
	MaxBlockWeight = 4_000_000

	// MaxBlockSigOpCost is the maximum total signature operation cost
	// allowed in a single block.
	MaxBlockSigOpCost = 80_000

	// BlockHeaderLen is the fixed wire size of a BlockHeader.
	BlockHeaderLen = 80
)
