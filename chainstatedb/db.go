// Package chainstatedb is an optional, persisted collaborator for the
// in-memory UtxoSet and undo records blockchain.ChainState otherwise
// keeps only in process memory (spec §6). It is not required by any
// consensus rule; a node may run entirely in memory and simply replay
// from genesis on restart.
package chainstatedb

import (
	"fmt"
	"time"

	"github.com/BTCDecoded/bllvm-consensus/clog"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketUTXO       = []byte("utxo")
	bucketUndo       = []byte("undo")
	bucketCheckpoint = []byte("commitment_checkpoint")
)

// DB is a bbolt-backed store for the UTXO set, per-block undo records,
// and UTXO commitment checkpoints.
type DB struct {
	bolt *bolt.DB
}

// Open opens (creating if necessary) the bbolt file at path and
// ensures its buckets exist.
func Open(path string) (*DB, error) {
	b, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "opening chainstate database")
	}

	err = b.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketUTXO, bucketUndo, bucketCheckpoint} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return errors.Wrapf(err, "creating bucket %s", name)
			}
		}
		return nil
	})
	if err != nil {
		b.Close()
		return nil, err
	}

	clog.Cdb().Infof("opened chainstate database at %s", path)
	return &DB{bolt: b}, nil
}

// Close closes the underlying database file.
func (d *DB) Close() error {
	if d == nil || d.bolt == nil {
		return nil
	}
	return d.bolt.Close()
}

func (d *DB) view(bucket []byte, fn func(b *bolt.Bucket) error) error {
	return d.bolt.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(bucket))
	})
}

func (d *DB) update(bucket []byte, fn func(b *bolt.Bucket) error) error {
	return d.bolt.Update(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(bucket))
	})
}

// ErrNotFound is returned by the Get methods when the requested key
// has no stored record.
var ErrNotFound = fmt.Errorf("chainstatedb: key not found")
