package blockchain

import (
	"fmt"

	"github.com/BTCDecoded/bllvm-consensus/amount"
	"github.com/BTCDecoded/bllvm-consensus/txscript"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// CheckTransactionSanity performs context-free structural validation of a
// transaction (spec §4.E): it must have at least one input and one
// output, fit within the size limit, and every output amount must lie
// within the valid satoshi range with no overflow when summed.
func CheckTransactionSanity(tx *wire.MsgTx) error {
	if len(tx.TxIn) == 0 || len(tx.TxOut) == 0 {
		return ruleError(ErrNoTxInputsOrOutputs, "transaction has no inputs or no outputs")
	}
	if len(tx.TxIn) > wire.MaxInputsPerTx || len(tx.TxOut) > wire.MaxOutputsPerTx {
		return ruleError(ErrTooManyInputsOrOutputs, "transaction exceeds max input/output count")
	}

	serializedSize := tx.SerializeSize()
	if serializedSize > wire.MaxTxSize {
		return ruleError(ErrTxTooBig, fmt.Sprintf("serialized transaction is %d bytes, max %d", serializedSize, wire.MaxTxSize))
	}

	var totalOut int64
	for _, out := range tx.TxOut {
		if out.Value < 0 || out.Value > int64(amount.MaxSatoshi) {
			return ruleError(ErrAmountOutOfRange, fmt.Sprintf("transaction output value of %d is out of range", out.Value))
		}
		totalOut += out.Value
		if totalOut < 0 || totalOut > int64(amount.MaxSatoshi) {
			return ruleError(ErrTotalOutputsExceedMax, "total transaction output value exceeds max allowed satoshis")
		}
	}

	if !tx.IsCoinBase() {
		seen := make(map[wire.OutPoint]struct{}, len(tx.TxIn))
		for _, in := range tx.TxIn {
			if in.PreviousOutPoint.IsCoinBase() {
				return ruleError(ErrDuplicateTxInput, "non-coinbase transaction input refers to the null outpoint")
			}
			if _, dup := seen[in.PreviousOutPoint]; dup {
				return ruleError(ErrDuplicateTxInput, "transaction spends the same outpoint twice")
			}
			seen[in.PreviousOutPoint] = struct{}{}
		}
	}

	return nil
}

// CheckTransactionInputs validates a transaction against the UTXO set
// its inputs claim to spend (spec §4.E): every input must resolve to
// an existing, mature unspent output, and the sum of inputs must be
// at least the sum of outputs (no value created from nothing). It
// returns the transaction fee (inputs minus outputs) on success.
func CheckTransactionInputs(tx *wire.MsgTx, spendHeight uint32, utxoSet *UtxoSet) (int64, error) {
	var totalIn int64
	for _, in := range tx.TxIn {
		entry, ok := utxoSet.Get(in.PreviousOutPoint)
		if !ok {
			return 0, ruleError(ErrMissingTxOut, fmt.Sprintf("output %s referenced from transaction does not exist or has already been spent", in.PreviousOutPoint))
		}
		if !entry.IsMature(spendHeight) {
			return 0, ruleError(ErrImmatureCoinbase, fmt.Sprintf("tried to spend coinbase output %s from height %d at height %d before required maturity of %d blocks", in.PreviousOutPoint, entry.BlockHeight, spendHeight, CoinbaseMaturity))
		}
		if entry.Amount < 0 || entry.Amount > int64(amount.MaxSatoshi) {
			return 0, ruleError(ErrAmountOutOfRange, "referenced output value is out of range")
		}
		totalIn += entry.Amount
		if totalIn < 0 || totalIn > int64(amount.MaxSatoshi) {
			return 0, ruleError(ErrTotalOutputsExceedMax, "total input value exceeds max allowed satoshis")
		}
	}

	var totalOut int64
	for _, out := range tx.TxOut {
		totalOut += out.Value
	}

	fee := totalIn - totalOut
	if fee < 0 {
		return 0, ruleError(ErrFeeNegative, fmt.Sprintf("total input value %d is less than total output value %d", totalIn, totalOut))
	}
	return fee, nil
}

// prevOutsFor builds the ordered prevout list VerifyTransactionScripts
// needs for sighash computation, in tx.TxIn order.
func prevOutsFor(tx *wire.MsgTx, utxoSet *UtxoSet) ([]*wire.TxOut, error) {
	prevOuts := make([]*wire.TxOut, len(tx.TxIn))
	for i, in := range tx.TxIn {
		entry, ok := utxoSet.Get(in.PreviousOutPoint)
		if !ok {
			return nil, ruleError(ErrMissingTxOut, fmt.Sprintf("output %s referenced from transaction does not exist or has already been spent", in.PreviousOutPoint))
		}
		prevOuts[i] = &wire.TxOut{Value: entry.Amount, PkScript: entry.PkScript}
	}
	return prevOuts, nil
}

// VerifyTransactionScripts runs the script engine over every input of
// tx (spec §4.C/§4.D/§4.E). Inputs are checked in index order and the
// first failure is reported; when parallel is true independent inputs
// are verified concurrently but the reported error is still the one
// belonging to the lowest failing input index, keeping the outcome
// deterministic regardless of goroutine scheduling (spec §5).
func VerifyTransactionScripts(tx *wire.MsgTx, utxoSet *UtxoSet, flags txscript.ScriptFlags, sigCache *txscript.SigCache, parallel bool) error {
	prevOuts, err := prevOutsFor(tx, utxoSet)
	if err != nil {
		return err
	}

	if !parallel || len(tx.TxIn) <= 1 {
		for i := range tx.TxIn {
			if err := verifyInputScript(tx, i, prevOuts, flags, sigCache); err != nil {
				return err
			}
		}
		return nil
	}

	errs := make([]error, len(tx.TxIn))
	done := make(chan int, len(tx.TxIn))
	for i := range tx.TxIn {
		i := i
		go func() {
			errs[i] = verifyInputScript(tx, i, prevOuts, flags, sigCache)
			done <- i
		}()
	}
	for range tx.TxIn {
		<-done
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func verifyInputScript(tx *wire.MsgTx, idx int, prevOuts []*wire.TxOut, flags txscript.ScriptFlags, sigCache *txscript.SigCache) error {
	ok, err := txscript.Verify(prevOuts[idx].PkScript, tx, idx, prevOuts, flags, sigCache)
	if err != nil {
		return ruleError(ErrScriptValidation, fmt.Sprintf("input %d script validation failed: %v", idx, err))
	}
	if !ok {
		return ruleError(ErrScriptValidation, fmt.Sprintf("input %d script evaluated to false", idx))
	}
	return nil
}
