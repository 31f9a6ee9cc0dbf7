package wire

import (
	"io"
	"math"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
)

// OutPoint defines a reference to a transaction output, identifying the
// enclosing transaction and the index of the specific output.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new OutPoint from the given hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

// IsCoinBase reports whether op is the distinguished null outpoint used by
// coinbase inputs: an all-zero hash and index 0xFFFFFFFF.
func (op *OutPoint) IsCoinBase() bool {
	return op.Index == math.MaxUint32 && op.Hash == chainhash.ZeroHash
}

// String returns the canonical string representation of an outpoint as
// "hash:index".
func (op OutPoint) String() string {
	return op.Hash.String() + ":" + itoa(uint64(op.Index))
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

func readOutPoint(r io.Reader, op *OutPoint) error {
	var hashBytes [chainhash.HashSize]byte
	if _, err := io.ReadFull(r, hashBytes[:]); err != nil {
		return err
	}
	op.Hash = chainhash.Hash(hashBytes)
	index, err := readUint32LE(r)
	if err != nil {
		return err
	}
	op.Index = index
	return nil
}

func writeOutPoint(w io.Writer, op *OutPoint) error {
	if _, err := w.Write(op.Hash[:]); err != nil {
		return err
	}
	return writeUint32LE(w, op.Index)
}
