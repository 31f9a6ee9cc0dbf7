package chainstatedb

import (
	"github.com/BTCDecoded/bllvm-consensus/blockchain"
	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	bolt "go.etcd.io/bbolt"
)

// PutUndo persists the undo record for the block at blockHash.
func (d *DB) PutUndo(blockHash chainhash.Hash, undo *blockchain.BlockUndo) error {
	return d.update(bucketUndo, func(b *bolt.Bucket) error {
		return b.Put(blockHash[:], encodeBlockUndo(undo))
	})
}

// GetUndo returns the persisted undo record for blockHash, or
// ErrNotFound.
func (d *DB) GetUndo(blockHash chainhash.Hash) (*blockchain.BlockUndo, error) {
	var undo *blockchain.BlockUndo
	err := d.view(bucketUndo, func(b *bolt.Bucket) error {
		v := b.Get(blockHash[:])
		if v == nil {
			return ErrNotFound
		}
		u, err := decodeBlockUndo(v)
		if err != nil {
			return err
		}
		undo = u
		return nil
	})
	return undo, err
}

// DeleteUndo removes the persisted undo record for blockHash, once a
// block is far enough behind the tip that it can never be
// disconnected again.
func (d *DB) DeleteUndo(blockHash chainhash.Hash) error {
	return d.update(bucketUndo, func(b *bolt.Bucket) error {
		return b.Delete(blockHash[:])
	})
}
