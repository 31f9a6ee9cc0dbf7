package txscript

import (
	"bytes"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	"github.com/BTCDecoded/bllvm-consensus/wire"
	"github.com/pkg/errors"
)

// SigHashType represents the signature hash type byte appended to a
// DER-encoded signature, a base type optionally OR'd with the
// AnyOneCanPay modifier (spec §4.C/§4.D).
type SigHashType uint32

// Base sighash types and the ANYONECANPAY modifier.
const (
	SigHashAll          SigHashType = 0x01
	SigHashNone         SigHashType = 0x02
	SigHashSingle       SigHashType = 0x03
	SigHashAnyOneCanPay SigHashType = 0x80

	sigHashMask = 0x1f
)

// ErrInvalidInputIndex is returned when the signing input index is out of
// range for the transaction.
var ErrInvalidInputIndex = errors.New("input index out of range")

// ErrInvalidPrevoutsCount is returned when the number of supplied
// prevouts does not match the transaction's input count.
var ErrInvalidPrevoutsCount = errors.New("prevouts count does not match transaction input count")

// ErrInvalidSigHashTypeByte is returned when the sighash type is not ALL,
// NONE, or SINGLE, optionally OR'd with ANYONECANPAY.
var ErrInvalidSigHashTypeByte = errors.New("invalid sighash type")

func (t SigHashType) baseType() SigHashType {
	return t & sigHashMask
}

func (t SigHashType) isValid() bool {
	base := t &^ SigHashAnyOneCanPay
	return base == SigHashAll || base == SigHashNone || base == SigHashSingle
}

// HasAnyOneCanPay reports whether the ANYONECANPAY modifier is set.
func (t SigHashType) HasAnyOneCanPay() bool {
	return t&SigHashAnyOneCanPay != 0
}

// CalcSignatureHash assembles the sighash preimage for tx's input at
// inputIndex against prevOuts (one per input, in order) under hashType,
// and returns its double-SHA256 digest (spec §4.D).
func CalcSignatureHash(tx *wire.MsgTx, inputIndex int, prevOuts []*wire.TxOut, hashType SigHashType) (chainhash.Hash, error) {
	if inputIndex < 0 || inputIndex >= len(tx.TxIn) {
		return chainhash.Hash{}, ErrInvalidInputIndex
	}
	if len(prevOuts) != len(tx.TxIn) {
		return chainhash.Hash{}, ErrInvalidPrevoutsCount
	}
	if !hashType.isValid() {
		return chainhash.Hash{}, ErrInvalidSigHashTypeByte
	}

	var buf bytes.Buffer

	if err := writeUint32(&buf, uint32(tx.Version)); err != nil {
		return chainhash.Hash{}, err
	}

	anyoneCanPay := hashType.HasAnyOneCanPay()
	if err := wire.WriteVarInt(&buf, uint64(len(tx.TxIn))); err != nil {
		return chainhash.Hash{}, err
	}
	for i, in := range tx.TxIn {
		if anyoneCanPay && i != inputIndex {
			var zeroHash chainhash.Hash
			buf.Write(zeroHash[:])
			if err := writeUint32(&buf, 0); err != nil {
				return chainhash.Hash{}, err
			}
			if err := wire.WriteVarInt(&buf, 0); err != nil {
				return chainhash.Hash{}, err
			}
			if err := writeUint32(&buf, 0); err != nil {
				return chainhash.Hash{}, err
			}
			continue
		}

		buf.Write(in.PreviousOutPoint.Hash[:])
		if err := writeUint32(&buf, in.PreviousOutPoint.Index); err != nil {
			return chainhash.Hash{}, err
		}
		if err := wire.WriteVarInt(&buf, uint64(len(in.SignatureScript))); err != nil {
			return chainhash.Hash{}, err
		}
		buf.Write(in.SignatureScript)
		if err := writeUint32(&buf, in.Sequence); err != nil {
			return chainhash.Hash{}, err
		}
	}

	base := hashType.baseType()
	switch base {
	case SigHashAll:
		if err := wire.WriteVarInt(&buf, uint64(len(tx.TxOut))); err != nil {
			return chainhash.Hash{}, err
		}
		for _, out := range tx.TxOut {
			if err := writeTxOut(&buf, out); err != nil {
				return chainhash.Hash{}, err
			}
		}
	case SigHashNone:
		if err := wire.WriteVarInt(&buf, 0); err != nil {
			return chainhash.Hash{}, err
		}
	case SigHashSingle:
		if inputIndex >= len(tx.TxOut) {
			if err := wire.WriteVarInt(&buf, 0); err != nil {
				return chainhash.Hash{}, err
			}
		} else {
			if err := wire.WriteVarInt(&buf, 1); err != nil {
				return chainhash.Hash{}, err
			}
			if err := writeTxOut(&buf, tx.TxOut[inputIndex]); err != nil {
				return chainhash.Hash{}, err
			}
		}
	}

	if err := writeUint32(&buf, tx.LockTime); err != nil {
		return chainhash.Hash{}, err
	}
	if err := writeUint32(&buf, uint32(hashType)); err != nil {
		return chainhash.Hash{}, err
	}

	return chainhash.DoubleHashH(buf.Bytes()), nil
}

func writeTxOut(buf *bytes.Buffer, out *wire.TxOut) error {
	if err := writeUint64(buf, uint64(out.Value)); err != nil {
		return err
	}
	if err := wire.WriteVarInt(buf, uint64(len(out.PkScript))); err != nil {
		return err
	}
	buf.Write(out.PkScript)
	return nil
}

func writeUint32(buf *bytes.Buffer, v uint32) error {
	var b [4]byte
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	buf.Write(b[:])
	return nil
}

func writeUint64(buf *bytes.Buffer, v uint64) error {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
	buf.Write(b[:])
	return nil
}
