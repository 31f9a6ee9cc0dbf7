package chainstatedb

import (
	"encoding/binary"

	"github.com/BTCDecoded/bllvm-consensus/blockchain"
	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	"github.com/BTCDecoded/bllvm-consensus/wire"
	"github.com/pkg/errors"
)

// outpointKey returns the fixed 36-byte key a wire.OutPoint is stored
// under: its 32-byte hash followed by its little-endian index.
func outpointKey(op wire.OutPoint) []byte {
	key := make([]byte, chainhash.HashSize+4)
	copy(key, op.Hash[:])
	binary.LittleEndian.PutUint32(key[chainhash.HashSize:], op.Index)
	return key
}

// encodeUTXOEntry lays out a UTXOEntry as:
//
//	amount int64le | height u32le | is_coinbase u8 | pk_script
func encodeUTXOEntry(e *blockchain.UTXOEntry) []byte {
	out := make([]byte, 8+4+1+len(e.PkScript))
	binary.LittleEndian.PutUint64(out[0:8], uint64(e.Amount))
	binary.LittleEndian.PutUint32(out[8:12], e.BlockHeight)
	if e.IsCoinbase {
		out[12] = 1
	}
	copy(out[13:], e.PkScript)
	return out
}

func decodeUTXOEntry(b []byte) (*blockchain.UTXOEntry, error) {
	if len(b) < 13 {
		return nil, errors.New("chainstatedb: truncated utxo entry")
	}
	return &blockchain.UTXOEntry{
		Amount:      int64(binary.LittleEndian.Uint64(b[0:8])),
		BlockHeight: binary.LittleEndian.Uint32(b[8:12]),
		IsCoinbase:  b[12] != 0,
		PkScript:    append([]byte(nil), b[13:]...),
	}, nil
}

// encodeBlockUndo lays out a BlockUndo as:
//
//	spent_count u32le | (outpoint 36 | utxo_entry_len u32le | utxo_entry)*
//	created_count u32le | (outpoint 36)*
func encodeBlockUndo(u *blockchain.BlockUndo) []byte {
	spent := u.Spent()
	created := u.Created()

	entries := make([][]byte, len(spent))
	size := 4
	for i, s := range spent {
		enc := encodeUTXOEntry(&s.Entry)
		entries[i] = enc
		size += 36 + 4 + len(enc)
	}
	size += 4 + 36*len(created)

	out := make([]byte, size)
	off := 0
	binary.LittleEndian.PutUint32(out[off:], uint32(len(spent)))
	off += 4
	for i, s := range spent {
		copy(out[off:], outpointKey(s.OutPoint))
		off += 36
		binary.LittleEndian.PutUint32(out[off:], uint32(len(entries[i])))
		off += 4
		copy(out[off:], entries[i])
		off += len(entries[i])
	}
	binary.LittleEndian.PutUint32(out[off:], uint32(len(created)))
	off += 4
	for _, op := range created {
		copy(out[off:], outpointKey(op))
		off += 36
	}
	return out
}

func decodeBlockUndo(b []byte) (*blockchain.BlockUndo, error) {
	readOutpoint := func(b []byte) (wire.OutPoint, error) {
		var op wire.OutPoint
		if len(b) < 36 {
			return op, errors.New("chainstatedb: truncated outpoint")
		}
		copy(op.Hash[:], b[:chainhash.HashSize])
		op.Index = binary.LittleEndian.Uint32(b[chainhash.HashSize:36])
		return op, nil
	}

	if len(b) < 4 {
		return nil, errors.New("chainstatedb: truncated block undo")
	}
	spentCount := binary.LittleEndian.Uint32(b)
	off := 4

	spent := make([]blockchain.SpentOutput, spentCount)
	for i := range spent {
		op, err := readOutpoint(b[off:])
		if err != nil {
			return nil, err
		}
		off += 36
		if off+4 > len(b) {
			return nil, errors.New("chainstatedb: truncated block undo entry length")
		}
		entryLen := int(binary.LittleEndian.Uint32(b[off:]))
		off += 4
		if off+entryLen > len(b) {
			return nil, errors.New("chainstatedb: truncated block undo entry")
		}
		entry, err := decodeUTXOEntry(b[off : off+entryLen])
		if err != nil {
			return nil, err
		}
		off += entryLen
		spent[i] = blockchain.SpentOutput{OutPoint: op, Entry: *entry}
	}

	if off+4 > len(b) {
		return nil, errors.New("chainstatedb: truncated block undo created count")
	}
	createdCount := binary.LittleEndian.Uint32(b[off:])
	off += 4
	created := make([]wire.OutPoint, createdCount)
	for i := range created {
		op, err := readOutpoint(b[off:])
		if err != nil {
			return nil, err
		}
		off += 36
		created[i] = op
	}

	return blockchain.NewBlockUndo(spent, created), nil
}
