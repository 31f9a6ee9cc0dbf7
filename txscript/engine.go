// Package txscript implements the stack-based bytecode interpreter that
// evaluates locking/unlocking scripts (spec §4.C) and the transaction
// signing-hash preimage assembly it depends on for signature opcodes
// (spec §4.D).
package txscript

import (
	"fmt"

	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// ScriptFlags is a bitmask of optional script-verification behaviors.
type ScriptFlags uint32

// ScriptNoFlags performs bare consensus verification with no optional
// behaviors enabled.
const ScriptNoFlags ScriptFlags = 0

// Consensus-critical execution bounds, spec §4.C.
const (
	// MaxStackSize is the maximum number of elements the data stack may
	// hold at any point during execution.
	MaxStackSize = 1000

	// MaxOpsPerScript is the maximum number of non-push opcodes a
	// single script may execute; the count restarts for each script of
	// the pair (and the witness).
	MaxOpsPerScript = 201

	// MaxScriptSize is the maximum allowed length of a single raw
	// script.
	MaxScriptSize = 10000
)

// Engine is the virtual machine that executes a script_sig/script_pubkey
// (and optional witness) pair against a fixed transaction context.
type Engine struct {
	scripts   [][]parsedOpcode
	scriptIdx int
	scriptOff int

	dstack stack

	tx       *wire.MsgTx
	txIdx    int
	prevOuts []*wire.TxOut

	numOps    int
	flags     ScriptFlags
	sigCache  *SigCache
	hashCache *HashOpCache
}

// WithHashOpCache attaches a bounded hash-opcode result cache to the
// engine. It is optional; a nil cache falls back to computing every hash
// opcode fresh.
func (vm *Engine) WithHashOpCache(c *HashOpCache) *Engine {
	vm.hashCache = c
	return vm
}

// NewEngine constructs a script engine that will verify the input at
// txIdx of tx against scriptPubKey (the prevout's locking script) and the
// ordered list of all of tx's prevouts (needed for signature hashing).
// script_sig and witness are taken from tx.TxIn[txIdx].
func NewEngine(scriptPubKey []byte, tx *wire.MsgTx, txIdx int, prevOuts []*wire.TxOut, flags ScriptFlags, sigCache *SigCache) (*Engine, error) {
	if txIdx < 0 || txIdx >= len(tx.TxIn) {
		return nil, scriptError(ErrInvalidStackOperation, fmt.Sprintf("transaction input index %d is out of range for %d inputs", txIdx, len(tx.TxIn)))
	}
	if len(prevOuts) != len(tx.TxIn) {
		return nil, scriptError(ErrInvalidStackOperation, "prevouts count must match transaction input count")
	}

	scriptSig := tx.TxIn[txIdx].SignatureScript

	if len(scriptSig) > MaxScriptSize {
		return nil, scriptError(ErrScriptTooBig, "signature script exceeds max allowed size")
	}
	if len(scriptPubKey) > MaxScriptSize {
		return nil, scriptError(ErrScriptTooBig, "public key script exceeds max allowed size")
	}

	parsedSig, err := parseScript(scriptSig)
	if err != nil {
		return nil, err
	}
	parsedPubKey, err := parseScript(scriptPubKey)
	if err != nil {
		return nil, err
	}

	vm := &Engine{
		flags:    flags,
		sigCache: sigCache,
		tx:       tx,
		txIdx:    txIdx,
		prevOuts: prevOuts,
		scripts:  [][]parsedOpcode{parsedSig, parsedPubKey},
	}

	if witness := tx.TxIn[txIdx].Witness; len(witness) > 0 {
		witnessOps := make([]parsedOpcode, 0, len(witness))
		for _, item := range witness {
			if len(item) > MaxScriptElementSize {
				return nil, scriptError(ErrElementTooBig, "witness element exceeds max allowed size")
			}
			witnessOps = append(witnessOps, parsedOpcode{opcode: &opcodeArray[Op0], data: item})
		}
		vm.scripts = append(vm.scripts, witnessOps)
	}

	if len(scriptSig) == 0 {
		vm.scriptIdx++
	}

	return vm, nil
}

// Step executes the next instruction. It returns done=true once the last
// script in the pair has finished executing.
func (vm *Engine) Step() (done bool, err error) {
	if vm.scriptIdx >= len(vm.scripts) {
		return true, nil
	}
	if vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
		vm.scriptIdx++
		vm.scriptOff = 0
		vm.numOps = 0
		return vm.advanceOverEmptyScripts()
	}

	pop := &vm.scripts[vm.scriptIdx][vm.scriptOff]
	vm.scriptOff++

	if !pop.isPush() {
		vm.numOps++
		if vm.numOps > MaxOpsPerScript {
			return false, scriptError(ErrTooManyOperations, fmt.Sprintf("exceeded max operation limit of %d", MaxOpsPerScript))
		}
	}

	if err := pop.opcode.opfunc(pop, vm); err != nil {
		return false, err
	}

	if vm.dstack.Depth() > MaxStackSize {
		return false, scriptError(ErrStackOverflow, fmt.Sprintf("stack size %d exceeds max allowed %d", vm.dstack.Depth(), MaxStackSize))
	}

	if vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
		vm.scriptIdx++
		vm.scriptOff = 0
		vm.numOps = 0
		return vm.advanceOverEmptyScripts()
	}
	return false, nil
}

func (vm *Engine) advanceOverEmptyScripts() (bool, error) {
	for vm.scriptIdx < len(vm.scripts) && len(vm.scripts[vm.scriptIdx]) == 0 {
		vm.scriptIdx++
	}
	return vm.scriptIdx >= len(vm.scripts), nil
}

// Execute runs the full script program and returns the final Boolean
// verdict, distinguishing a structural error from a well-formed false
// result (spec §4.C, §7): a structural failure, or a final stack that
// does not hold exactly one element, returns false with err != nil and
// err.(Error).ErrorCode identifying which; a single final element
// returns its truth value with a nil error.
func (vm *Engine) Execute() (bool, error) {
	// Empty/empty is necessarily false — equivalent to an empty final
	// stack.
	if len(vm.scripts[0]) == 0 && len(vm.scripts[1]) == 0 {
		return false, scriptError(ErrEvalFalse, "empty signature script and public key script")
	}

	done := false
	var err error
	for !done {
		done, err = vm.Step()
		if err != nil {
			return false, err
		}
	}

	if vm.dstack.Depth() != 1 {
		return false, scriptError(ErrEvalFalse, fmt.Sprintf("final stack has %d elements, want exactly 1", vm.dstack.Depth()))
	}

	top, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return false, err
	}
	return asBool(top), nil
}

// Verify evaluates the script pair at tx.TxIn[txIdx] (its SignatureScript
// and optional Witness) against scriptPubKey, and translates the result
// into the three-way outcome spec §4.C demands: a structural error, a
// well-formed false, or a well-formed true. Callers that only care about
// pass/fail consensus semantics can treat a non-nil err as rejection
// regardless of ErrorCode; callers wanting to log the distinction should
// inspect ErrorCode.IsStructural().
func Verify(scriptPubKey []byte, tx *wire.MsgTx, txIdx int, prevOuts []*wire.TxOut, flags ScriptFlags, sigCache *SigCache) (bool, error) {
	vm, err := NewEngine(scriptPubKey, tx, txIdx, prevOuts, flags, sigCache)
	if err != nil {
		return false, err
	}
	return vm.Execute()
}
