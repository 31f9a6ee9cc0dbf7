package wire

import (
	"bytes"
	"io"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	"github.com/pkg/errors"
)

// TxIn defines a transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32

	// Witness carries the optional witness stack for this input. It is
	// not part of the canonical (non-segwit) wire encoding in spec §6;
	// it is populated out-of-band for script verification only.
	Witness [][]byte
}

// TxOut defines a transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// MsgTx implements the Transaction data model of spec §3: version, ordered
// inputs, ordered outputs, and lock time.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns a new transaction with the given protocol version and
// no inputs or outputs.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{Version: version}
}

// AddTxIn appends in to the transaction's input list.
func (msg *MsgTx) AddTxIn(in *TxIn) {
	msg.TxIn = append(msg.TxIn, in)
}

// AddTxOut appends out to the transaction's output list.
func (msg *MsgTx) AddTxOut(out *TxOut) {
	msg.TxOut = append(msg.TxOut, out)
}

// IsCoinBase reports whether this transaction is a coinbase transaction,
// per spec §3/§4.E: exactly one input whose prevout is the null outpoint.
func (msg *MsgTx) IsCoinBase() bool {
	return len(msg.TxIn) == 1 && msg.TxIn[0].PreviousOutPoint.IsCoinBase()
}

// Copy returns a deep copy of the transaction, so that sighash computation
// and script execution never mutate the caller's transaction.
func (msg *MsgTx) Copy() *MsgTx {
	clone := &MsgTx{
		Version:  msg.Version,
		LockTime: msg.LockTime,
		TxIn:     make([]*TxIn, len(msg.TxIn)),
		TxOut:    make([]*TxOut, len(msg.TxOut)),
	}
	for i, in := range msg.TxIn {
		newIn := &TxIn{
			PreviousOutPoint: in.PreviousOutPoint,
			Sequence:         in.Sequence,
		}
		newIn.SignatureScript = append([]byte(nil), in.SignatureScript...)
		if in.Witness != nil {
			newIn.Witness = make([][]byte, len(in.Witness))
			for j, w := range in.Witness {
				newIn.Witness[j] = append([]byte(nil), w...)
			}
		}
		clone.TxIn[i] = newIn
	}
	for i, out := range msg.TxOut {
		clone.TxOut[i] = &TxOut{
			Value:    out.Value,
			PkScript: append([]byte(nil), out.PkScript...),
		}
	}
	return clone
}

// BtcEncode serializes msg to w using the canonical non-segwit wire
// encoding described in spec §6.
func (msg *MsgTx) BtcEncode(w io.Writer) error {
	if err := writeUint32LE(w, uint32(msg.Version)); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeOutPoint(w, &ti.PreviousOutPoint); err != nil {
			return err
		}
		if err := writeVarBytes(w, ti.SignatureScript); err != nil {
			return err
		}
		if err := writeUint32LE(w, ti.Sequence); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeInt64LE(w, to.Value); err != nil {
			return err
		}
		if err := writeVarBytes(w, to.PkScript); err != nil {
			return err
		}
	}
	return writeUint32LE(w, msg.LockTime)
}

// BtcDecode deserializes a transaction from r, enforcing the structural
// limits from spec §3 as it reads (over-long input/output counts fail
// fast rather than allocating unbounded memory).
func (msg *MsgTx) BtcDecode(r io.Reader) error {
	version, err := readUint32LE(r)
	if err != nil {
		return err
	}
	msg.Version = int32(version)

	numIn, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if numIn > MaxInputsPerTx {
		return errors.Errorf("too many input transactions to fit into max message size [count %d, max %d]", numIn, MaxInputsPerTx)
	}
	msg.TxIn = make([]*TxIn, numIn)
	for i := range msg.TxIn {
		ti := &TxIn{}
		if err := readOutPoint(r, &ti.PreviousOutPoint); err != nil {
			return err
		}
		sigScript, err := readVarBytes(r, MaxTxSize, "signature script")
		if err != nil {
			return err
		}
		ti.SignatureScript = sigScript
		seq, err := readUint32LE(r)
		if err != nil {
			return err
		}
		ti.Sequence = seq
		msg.TxIn[i] = ti
	}

	numOut, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if numOut > MaxOutputsPerTx {
		return errors.Errorf("too many output transactions to fit into max message size [count %d, max %d]", numOut, MaxOutputsPerTx)
	}
	msg.TxOut = make([]*TxOut, numOut)
	for i := range msg.TxOut {
		to := &TxOut{}
		value, err := readInt64LE(r)
		if err != nil {
			return err
		}
		to.Value = value
		pkScript, err := readVarBytes(r, MaxTxSize, "public key script")
		if err != nil {
			return err
		}
		to.PkScript = pkScript
		msg.TxOut[i] = to
	}

	lockTime, err := readUint32LE(r)
	if err != nil {
		return err
	}
	msg.LockTime = lockTime
	return nil
}

// Serialize returns the canonical wire encoding of msg.
func (msg *MsgTx) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(msg.SerializeSize())
	if err := msg.BtcEncode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeSize returns the number of bytes it would take to serialize
// the transaction.
func (msg *MsgTx) SerializeSize() int {
	n := 4 + 4 // version + lock time
	n += VarIntSerializeSize(uint64(len(msg.TxIn)))
	for _, ti := range msg.TxIn {
		n += chainhash.HashSize + 4 // outpoint
		n += VarIntSerializeSize(uint64(len(ti.SignatureScript)))
		n += len(ti.SignatureScript)
		n += 4 // sequence
	}
	n += VarIntSerializeSize(uint64(len(msg.TxOut)))
	for _, to := range msg.TxOut {
		n += 8 // value
		n += VarIntSerializeSize(uint64(len(to.PkScript)))
		n += len(to.PkScript)
	}
	return n
}

// DeserializeTx decodes a transaction from its canonical wire encoding.
func DeserializeTx(b []byte) (*MsgTx, error) {
	tx := &MsgTx{}
	if err := tx.BtcDecode(bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return tx, nil
}

// TxHash computes the double-SHA256 transaction id over the canonical
// serialization.
func (msg *MsgTx) TxHash() chainhash.Hash {
	b, err := msg.Serialize()
	if err != nil {
		// Serialization of an in-memory, already-validated transaction
		// cannot fail except by running out of memory.
		panic(err)
	}
	return chainhash.DoubleHashH(b)
}
