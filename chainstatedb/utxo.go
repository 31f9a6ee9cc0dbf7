package chainstatedb

import (
	"encoding/binary"

	"github.com/BTCDecoded/bllvm-consensus/blockchain"
	"github.com/BTCDecoded/bllvm-consensus/wire"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// GetUTXO returns the persisted entry for op, or ErrNotFound.
func (d *DB) GetUTXO(op wire.OutPoint) (*blockchain.UTXOEntry, error) {
	var entry *blockchain.UTXOEntry
	err := d.view(bucketUTXO, func(b *bolt.Bucket) error {
		v := b.Get(outpointKey(op))
		if v == nil {
			return ErrNotFound
		}
		e, err := decodeUTXOEntry(v)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	return entry, err
}

// PutUTXO persists entry under op, overwriting any prior record.
func (d *DB) PutUTXO(op wire.OutPoint, entry *blockchain.UTXOEntry) error {
	return d.update(bucketUTXO, func(b *bolt.Bucket) error {
		return b.Put(outpointKey(op), encodeUTXOEntry(entry))
	})
}

// DeleteUTXO removes op's persisted record, if any.
func (d *DB) DeleteUTXO(op wire.OutPoint) error {
	return d.update(bucketUTXO, func(b *bolt.Bucket) error {
		return b.Delete(outpointKey(op))
	})
}

// ApplyUtxoSet persists every entry set tracks, replacing whatever was
// previously stored. It is meant for periodic flushes of an in-memory
// blockchain.UtxoSet, not for per-block incremental writes; callers
// doing incremental persistence should use PutUTXO/DeleteUTXO directly
// from a BlockUndo's Spent/Created lists instead.
func (d *DB) ApplyUtxoSet(set *blockchain.UtxoSet) error {
	return d.bolt.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUTXO)
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return errors.Wrap(err, "clearing utxo bucket")
			}
		}
		var putErr error
		set.ForEach(func(op wire.OutPoint, entry *blockchain.UTXOEntry) {
			if putErr != nil {
				return
			}
			putErr = b.Put(outpointKey(op), encodeUTXOEntry(entry))
		})
		return putErr
	})
}

// LoadUtxoSet reconstructs a blockchain.UtxoSet from everything
// currently persisted.
func (d *DB) LoadUtxoSet() (*blockchain.UtxoSet, error) {
	set := blockchain.NewUtxoSet()
	err := d.view(bucketUTXO, func(b *bolt.Bucket) error {
		return b.ForEach(func(k, v []byte) error {
			if len(k) != 36 {
				return errors.New("chainstatedb: malformed utxo key")
			}
			var op wire.OutPoint
			copy(op.Hash[:], k[:32])
			op.Index = binary.LittleEndian.Uint32(k[32:36])
			entry, err := decodeUTXOEntry(v)
			if err != nil {
				return err
			}
			set.Add(op, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}
