package wire

import (
	"bytes"
	"io"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
)

// BlockHeader defines information about a block: the previous block's
// hash, a merkle root committing to the block's transactions, and the
// proof-of-work fields (spec §3, fixed 80-byte wire form per spec §6).
type BlockHeader struct {
	Version       int32
	PrevBlock     chainhash.Hash
	MerkleRoot    chainhash.Hash
	Timestamp     uint32
	Bits          uint32
	Nonce         uint32
}

// BtcEncode serializes the header to w using the fixed 80-byte wire
// encoding from spec §6.
func (h *BlockHeader) BtcEncode(w io.Writer) error {
	if err := writeUint32LE(w, uint32(h.Version)); err != nil {
		return err
	}
	if _, err := w.Write(h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.MerkleRoot[:]); err != nil {
		return err
	}
	if err := writeUint32LE(w, h.Timestamp); err != nil {
		return err
	}
	if err := writeUint32LE(w, h.Bits); err != nil {
		return err
	}
	return writeUint32LE(w, h.Nonce)
}

// BtcDecode deserializes a header from r.
func (h *BlockHeader) BtcDecode(r io.Reader) error {
	version, err := readUint32LE(r)
	if err != nil {
		return err
	}
	h.Version = int32(version)

	var prev, merkle [chainhash.HashSize]byte
	if _, err := io.ReadFull(r, prev[:]); err != nil {
		return err
	}
	h.PrevBlock = chainhash.Hash(prev)
	if _, err := io.ReadFull(r, merkle[:]); err != nil {
		return err
	}
	h.MerkleRoot = chainhash.Hash(merkle)

	if h.Timestamp, err = readUint32LE(r); err != nil {
		return err
	}
	if h.Bits, err = readUint32LE(r); err != nil {
		return err
	}
	if h.Nonce, err = readUint32LE(r); err != nil {
		return err
	}
	return nil
}

// Serialize returns the fixed 80-byte wire encoding of the header.
func (h *BlockHeader) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(BlockHeaderLen)
	if err := h.BtcEncode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializeBlockHeader decodes a header from its 80-byte wire encoding.
func DeserializeBlockHeader(b []byte) (*BlockHeader, error) {
	h := &BlockHeader{}
	if err := h.BtcDecode(bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return h, nil
}

// BlockHash computes the double-SHA256 block identifier hash for the
// header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	b, err := h.Serialize()
	if err != nil {
		panic(err)
	}
	return chainhash.DoubleHashH(b)
}
