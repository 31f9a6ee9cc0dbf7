package txscript

import (
	"testing"

	"github.com/BTCDecoded/bllvm-consensus/wire"
)

func dummyTx() (*wire.MsgTx, []*wire.TxOut) {
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{Sequence: 0xffffffff})
	tx.AddTxOut(&wire.TxOut{Value: 1})
	prevOuts := []*wire.TxOut{{Value: 1, PkScript: []byte{OpReturn}}}
	return tx, prevOuts
}

// scenario 1: OP_1 OP_1 OP_EQUAL succeeds with a true result.
func TestScenarioOp1Op1Equal(t *testing.T) {
	tx, prevOuts := dummyTx()
	pkScript := []byte{Op1, Op1, OpEqual}
	ok, err := Verify(pkScript, tx, 0, prevOuts, ScriptNoFlags, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected script to verify true")
	}
}

// scenario 2: OP_1 OP_DUP leaves two stack elements, which must fail
// Execute's "exactly one element" rule even though both
// elements are truthy.
func TestScenarioOp1DupLeavesTwoElements(t *testing.T) {
	tx, prevOuts := dummyTx()
	pkScript := []byte{Op1, OpDup}
	ok, err := Verify(pkScript, tx, 0, prevOuts, ScriptNoFlags, nil)
	if ok {
		t.Fatal("expected verification to fail due to non-clean stack")
	}
	if err == nil {
		t.Fatal("expected an error for a non-clean final stack")
	}
}

func TestStackDepthBound(t *testing.T) {
	tx, prevOuts := dummyTx()
	pkScript := make([]byte, 0, (MaxStackSize+1)*2)
	for i := 0; i < MaxStackSize+1; i++ {
		pkScript = append(pkScript, Op1)
	}
	_, err := Verify(pkScript, tx, 0, prevOuts, ScriptNoFlags, nil)
	if err == nil {
		t.Fatal("expected stack overflow to be rejected")
	}
	if !IsErrorCode(err, ErrStackOverflow) {
		t.Fatalf("expected ErrStackOverflow, got %v", err)
	}
}

func TestOpCountBound(t *testing.T) {
	tx, prevOuts := dummyTx()

	// 201 non-push opcodes (OP_DEPTH is a no-stack-requirement
	// non-push op) must be accepted structurally, i.e. never flagged
	// as too many operations (the final stack will still be "false"
	// since it's not a single truthy element, which is a separate,
	// non-structural outcome).
	okScript := make([]byte, 0, MaxOpsPerScript)
	for i := 0; i < MaxOpsPerScript; i++ {
		okScript = append(okScript, OpDepth)
	}
	if _, err := Verify(okScript, tx, 0, prevOuts, ScriptNoFlags, nil); err != nil {
		if IsErrorCode(err, ErrTooManyOperations) {
			t.Fatalf("201 ops incorrectly rejected as too many: %v", err)
		}
	}

	// 202 non-push opcodes must be rejected as too many operations.
	tooMany := make([]byte, 0, MaxOpsPerScript+2)
	for i := 0; i < MaxOpsPerScript+1; i++ {
		tooMany = append(tooMany, OpDepth)
	}
	_, err := Verify(tooMany, tx, 0, prevOuts, ScriptNoFlags, nil)
	if !IsErrorCode(err, ErrTooManyOperations) {
		t.Fatalf("expected ErrTooManyOperations, got %v", err)
	}
}

func TestUnrecognizedOpcodeFails(t *testing.T) {
	tx, prevOuts := dummyTx()
	pkScript := []byte{0xff} // reserved/unrecognized opcode byte
	_, err := Verify(pkScript, tx, 0, prevOuts, ScriptNoFlags, nil)
	if !IsErrorCode(err, ErrInvalidOpcode) {
		t.Fatalf("expected ErrInvalidOpcode, got %v", err)
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	tx, prevOuts := dummyTx()
	pkScript := []byte{Op1, Op1, OpEqual}
	cache := NewSigCache(10)

	results := make([]bool, 20)
	for i := range results {
		ok, err := Verify(pkScript, tx, 0, prevOuts, ScriptNoFlags, cache)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		results[i] = ok
	}
	for i, r := range results {
		if r != results[0] {
			t.Fatalf("non-deterministic result at iteration %d: %v vs %v", i, r, results[0])
		}
	}
}
