package wire

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// MaxTxPerBlock is a sanity bound on the number of transactions a wire
// decode will allocate for up front; actual block-level limits (weight,
// sigop cost) are enforced by the block validator, not here.
const MaxTxPerBlock = MaxBlockWeight / 60

// MsgBlock implements the Block data model of spec §3: a header followed
// by an ordered sequence of transactions, the first of which must be
// coinbase.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// AddTransaction appends tx to the block's transaction list.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// BtcEncode serializes the block using the wire encoding from spec §6:
// header(80) || varint(ntx) || transactions.
func (msg *MsgBlock) BtcEncode(w io.Writer) error {
	if err := msg.Header.BtcEncode(w); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		if err := tx.BtcEncode(w); err != nil {
			return err
		}
	}
	return nil
}

// BtcDecode deserializes a block from r.
func (msg *MsgBlock) BtcDecode(r io.Reader) error {
	if err := msg.Header.BtcDecode(r); err != nil {
		return err
	}
	numTx, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if numTx > MaxTxPerBlock {
		return errors.Errorf("too many transactions to fit into a block [count %d, max %d]", numTx, MaxTxPerBlock)
	}
	msg.Transactions = make([]*MsgTx, numTx)
	for i := range msg.Transactions {
		tx := &MsgTx{}
		if err := tx.BtcDecode(r); err != nil {
			return err
		}
		msg.Transactions[i] = tx
	}
	return nil
}

// Serialize returns the canonical wire encoding of the block.
func (msg *MsgBlock) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := msg.BtcEncode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializeBlock decodes a block from its canonical wire encoding.
func DeserializeBlock(b []byte) (*MsgBlock, error) {
	block := &MsgBlock{}
	if err := block.BtcDecode(bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return block, nil
}

// StrippedSize returns the serialized size of the block excluding witness
// data (all MsgTx fields other than Witness are already non-witness, so
// this equals SerializeSize today; kept distinct for clarity at the
// weight-calculation call site in Weight, which
// blockchain.CheckBlockSanity checks).
func (msg *MsgBlock) StrippedSize() int {
	n := BlockHeaderLen
	n += VarIntSerializeSize(uint64(len(msg.Transactions)))
	for _, tx := range msg.Transactions {
		n += tx.SerializeSize()
	}
	return n
}

// WitnessSize returns the total serialized size of all input witness
// stacks across the block's transactions.
func (msg *MsgBlock) WitnessSize() int {
	n := 0
	for _, tx := range msg.Transactions {
		for _, in := range tx.TxIn {
			for _, item := range in.Witness {
				n += len(item)
			}
		}
	}
	return n
}

// Weight returns stripped_size*4 + witness_size, per spec §4.F / GLOSSARY.
func (msg *MsgBlock) Weight() int {
	return msg.StrippedSize()*4 + msg.WitnessSize()
}
