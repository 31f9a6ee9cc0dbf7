// Package blockchain implements transaction validation, block
// validation, UTXO-set connect/disconnect, and chain selection/
// reorganization (spec §4.E–§4.I).
package blockchain

import "fmt"

// ErrorKind identifies the stable class of a consensus failure (spec §7).
type ErrorKind int

const (
	// Structural faults: malformed encoding, size/count limits.
	ErrNoTxInputsOrOutputs ErrorKind = iota
	ErrTooManyInputsOrOutputs
	ErrTxTooBig
	ErrAmountOutOfRange
	ErrTotalOutputsExceedMax

	// Consensus-semantic faults.
	ErrMissingTxOut
	ErrImmatureCoinbase
	ErrFeeNegative
	ErrBadProofOfWork
	ErrBadMerkleRoot
	ErrBadTimestamp
	ErrFirstTxNotCoinbase
	ErrOtherTxIsCoinbase
	ErrBadCoinbaseValue
	ErrExcessiveSigOpCost
	ErrExcessiveWeight
	ErrDuplicateTxInput

	// Script faults.
	ErrScriptValidation

	// Reorg faults.
	ErrMissingUndo
	ErrMissingCommonAncestor
	ErrReorgConnectFailed

	// Commitment faults.
	ErrCommitmentRootMismatch
	ErrInsufficientConsensus
	ErrCheckpointHeaderMismatch
)

var errorKindNames = map[ErrorKind]string{
	ErrNoTxInputsOrOutputs:      "no-tx-inputs-or-outputs",
	ErrTooManyInputsOrOutputs:   "too-many-inputs-or-outputs",
	ErrTxTooBig:                 "tx-too-big",
	ErrAmountOutOfRange:         "amount-out-of-range",
	ErrTotalOutputsExceedMax:    "total-outputs-exceed-max",
	ErrMissingTxOut:             "missing-tx-out",
	ErrImmatureCoinbase:         "immature-coinbase",
	ErrFeeNegative:              "fee-negative",
	ErrBadProofOfWork:           "bad-proof-of-work",
	ErrBadMerkleRoot:            "bad-merkle-root",
	ErrBadTimestamp:             "bad-timestamp",
	ErrFirstTxNotCoinbase:       "first-tx-not-coinbase",
	ErrOtherTxIsCoinbase:        "other-tx-is-coinbase",
	ErrBadCoinbaseValue:         "bad-coinbase-value",
	ErrExcessiveSigOpCost:       "excessive-sigop-cost",
	ErrExcessiveWeight:          "excessive-weight",
	ErrDuplicateTxInput:         "duplicate-tx-input",
	ErrScriptValidation:         "script-validation-failed",
	ErrMissingUndo:              "missing-undo-record",
	ErrMissingCommonAncestor:    "missing-common-ancestor",
	ErrReorgConnectFailed:       "reorg-connect-failed",
	ErrCommitmentRootMismatch:   "commitment-root-mismatch",
	ErrInsufficientConsensus:    "insufficient-consensus",
	ErrCheckpointHeaderMismatch: "checkpoint-header-mismatch",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// RuleError carries a stable ErrorKind plus a free-text reason suitable
// for logs (spec §7). No consensus failure is ever reported as a bare
// error without one of these.
type RuleError struct {
	Kind        ErrorKind
	Description string
}

func (e RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

func ruleError(kind ErrorKind, desc string) RuleError {
	return RuleError{Kind: kind, Description: desc}
}

// IsErrorKind reports whether err is a RuleError of the given kind.
func IsErrorKind(err error, kind ErrorKind) bool {
	var rerr RuleError
	if re, ok := err.(RuleError); ok {
		rerr = re
		return rerr.Kind == kind
	}
	return false
}
