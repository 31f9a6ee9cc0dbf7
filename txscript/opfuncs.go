package txscript

import (
	"bytes"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// MaxScriptElementSize is the maximum allowed length of a single data
// stack element (spec §4.C).
const MaxScriptElementSize = 520

func opUnrecognized(pop *parsedOpcode, vm *Engine) error {
	return scriptError(ErrInvalidOpcode, "attempt to execute an unrecognized opcode")
}

func opPushData(pop *parsedOpcode, vm *Engine) error {
	if len(pop.data) > MaxScriptElementSize {
		return scriptError(ErrElementTooBig, "pushed element exceeds max allowed size")
	}
	vm.dstack.PushByteArray(pop.data)
	return nil
}

func opPushNumber(n scriptNum) func(*parsedOpcode, *Engine) error {
	return func(pop *parsedOpcode, vm *Engine) error {
		vm.dstack.PushInt(n)
		return nil
	}
}

func opVerify(pop *parsedOpcode, vm *Engine) error {
	ok, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !ok {
		return scriptError(ErrNullFail, "OP_VERIFY failed")
	}
	return nil
}

func opReturn(pop *parsedOpcode, vm *Engine) error {
	return scriptError(ErrEvalFalse, "OP_RETURN: script unconditionally failed")
}

func op2Drop(pop *parsedOpcode, vm *Engine) error { return vm.dstack.DropN(2) }

func op2Dup(pop *parsedOpcode, vm *Engine) error { return vm.dstack.DupN(2) }

func op3Dup(pop *parsedOpcode, vm *Engine) error { return vm.dstack.DupN(3) }

func op2Over(pop *parsedOpcode, vm *Engine) error { return vm.dstack.OverN(2) }

func op2Rot(pop *parsedOpcode, vm *Engine) error { return vm.dstack.RotN(2) }

func op2Swap(pop *parsedOpcode, vm *Engine) error { return vm.dstack.SwapN(2) }

func opIfDup(pop *parsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	if asBool(so) {
		vm.dstack.PushByteArray(so)
	}
	return nil
}

func opDepth(pop *parsedOpcode, vm *Engine) error {
	vm.dstack.PushInt(scriptNum(vm.dstack.Depth()))
	return nil
}

func opDrop(pop *parsedOpcode, vm *Engine) error { return vm.dstack.DropN(1) }

func opDup(pop *parsedOpcode, vm *Engine) error { return vm.dstack.DupN(1) }

func opNip(pop *parsedOpcode, vm *Engine) error { return vm.dstack.NipN(1) }

func opOver(pop *parsedOpcode, vm *Engine) error { return vm.dstack.OverN(1) }

func opPick(pop *parsedOpcode, vm *Engine) error {
	return pickRollImpl(vm, vm.dstack.PickN)
}

func opRoll(pop *parsedOpcode, vm *Engine) error {
	return pickRollImpl(vm, vm.dstack.RollN)
}

func pickRollImpl(vm *Engine, f func(int32) error) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	n, err := makeScriptNum(so, true, maxScriptNumLen)
	if err != nil {
		return err
	}
	return f(n.Int32())
}

func opRot(pop *parsedOpcode, vm *Engine) error { return vm.dstack.RotN(1) }

func opSwap(pop *parsedOpcode, vm *Engine) error { return vm.dstack.SwapN(1) }

func opTuck(pop *parsedOpcode, vm *Engine) error { return vm.dstack.Tuck() }

func opSize(pop *parsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptNum(len(so)))
	return nil
}

func opEqual(pop *parsedOpcode, vm *Engine) error {
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushBool(bytes.Equal(a, b))
	return nil
}

func opEqualVerify(pop *parsedOpcode, vm *Engine) error {
	if err := opEqual(pop, vm); err != nil {
		return err
	}
	ok, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !ok {
		return scriptError(ErrNullFail, "OP_EQUALVERIFY failed")
	}
	return nil
}

func opRipemd160(pop *parsedOpcode, vm *Engine) error {
	return hashOp(vm, hashKindRipemd160, func(b []byte) []byte {
		h := ripemd160.New()
		h.Write(b)
		return h.Sum(nil)
	})
}

func opSha256(pop *parsedOpcode, vm *Engine) error {
	return hashOp(vm, hashKindSha256, func(b []byte) []byte {
		h := sha256.Sum256(b)
		return h[:]
	})
}

// opHash160 computes RIPEMD160(SHA256(x)), spec §4.C.
func opHash160(pop *parsedOpcode, vm *Engine) error {
	return hashOp(vm, hashKindHash160, Hash160)
}

// opHash256 computes SHA256(SHA256(x)), spec §4.C.
func opHash256(pop *parsedOpcode, vm *Engine) error {
	return hashOp(vm, hashKindHash256, Hash256)
}

func hashOp(vm *Engine, kind hashOpcodeKind, f func([]byte) []byte) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	if cached, ok := vm.hashCache.get(kind, so); ok {
		vm.dstack.PushByteArray(cached)
		return nil
	}
	result := f(so)
	vm.hashCache.add(kind, so, result)
	vm.dstack.PushByteArray(result)
	return nil
}

// Hash160 computes RIPEMD160(SHA256(b)).
func Hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

// Hash256 computes SHA256(SHA256(b)).
func Hash256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

func opCheckSig(pop *parsedOpcode, vm *Engine) error {
	ok, err := vm.checkSig()
	if err != nil {
		return err
	}
	vm.dstack.PushBool(ok)
	return nil
}

func opCheckSigVerify(pop *parsedOpcode, vm *Engine) error {
	ok, err := vm.checkSig()
	if err != nil {
		return err
	}
	if !ok {
		return scriptError(ErrNullFail, "OP_CHECKSIGVERIFY: signature verification failed")
	}
	return nil
}
