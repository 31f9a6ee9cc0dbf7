package chainstatedb

import (
	"encoding/binary"

	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	"github.com/BTCDecoded/bllvm-consensus/utxocommitment"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// lastCheckpointKey is the single key the latest-known commitment
// checkpoint is stored under; the bucket only ever needs to remember
// the most recent one a sync session agreed on.
var lastCheckpointKey = []byte("latest")

func encodeCommitment(c utxocommitment.Commitment) []byte {
	out := make([]byte, chainhash.HashSize+4+chainhash.HashSize+8)
	off := 0
	copy(out[off:], c.Root[:])
	off += chainhash.HashSize
	binary.LittleEndian.PutUint32(out[off:], c.Height)
	off += 4
	copy(out[off:], c.BlockHash[:])
	off += chainhash.HashSize
	binary.LittleEndian.PutUint64(out[off:], c.UtxoCount)
	return out
}

func decodeCommitment(b []byte) (utxocommitment.Commitment, error) {
	want := chainhash.HashSize + 4 + chainhash.HashSize + 8
	if len(b) != want {
		return utxocommitment.Commitment{}, errors.New("chainstatedb: malformed commitment checkpoint")
	}
	var c utxocommitment.Commitment
	off := 0
	copy(c.Root[:], b[off:off+chainhash.HashSize])
	off += chainhash.HashSize
	c.Height = binary.LittleEndian.Uint32(b[off:])
	off += 4
	copy(c.BlockHash[:], b[off:off+chainhash.HashSize])
	off += chainhash.HashSize
	c.UtxoCount = binary.LittleEndian.Uint64(b[off:])
	return c, nil
}

// PutCheckpoint persists c as the latest agreed UTXO commitment
// checkpoint, for a node to resume an interrupted initial sync without
// re-running peer consensus from scratch.
func (d *DB) PutCheckpoint(c utxocommitment.Commitment) error {
	return d.update(bucketCheckpoint, func(b *bolt.Bucket) error {
		return b.Put(lastCheckpointKey, encodeCommitment(c))
	})
}

// GetCheckpoint returns the most recently persisted commitment
// checkpoint, or ErrNotFound if none has been saved yet.
func (d *DB) GetCheckpoint() (utxocommitment.Commitment, error) {
	var c utxocommitment.Commitment
	err := d.view(bucketCheckpoint, func(b *bolt.Bucket) error {
		v := b.Get(lastCheckpointKey)
		if v == nil {
			return ErrNotFound
		}
		decoded, err := decodeCommitment(v)
		if err != nil {
			return err
		}
		c = decoded
		return nil
	})
	return c, err
}
