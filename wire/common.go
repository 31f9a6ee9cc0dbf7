// Package wire implements the canonical little-endian wire encoding for
// consensus data structures: varints, outpoints, transactions, block
// headers, and blocks.
package wire

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// MaxVarIntPayload is the maximum payload size for a variable length
// integer.
const MaxVarIntPayload = 9

var littleEndian = binary.LittleEndian

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64, rejecting non-canonical (overlong) encodings.
func ReadVarInt(r io.Reader) (uint64, error) {
	var buf [9]byte
	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return 0, err
	}
	discriminant := buf[0]

	switch discriminant {
	case 0xff:
		if _, err := io.ReadFull(r, buf[:8]); err != nil {
			return 0, err
		}
		rv := littleEndian.Uint64(buf[:8])
		if rv < 0x100000000 {
			return 0, errors.Errorf("non-canonical varint %x - discriminant %x must encode a value >= %x", rv, discriminant, 0x100000000)
		}
		return rv, nil

	case 0xfe:
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return 0, err
		}
		rv := uint64(littleEndian.Uint32(buf[:4]))
		if rv < 0x10000 {
			return 0, errors.Errorf("non-canonical varint %x - discriminant %x must encode a value >= %x", rv, discriminant, 0x10000)
		}
		return rv, nil

	case 0xfd:
		if _, err := io.ReadFull(r, buf[:2]); err != nil {
			return 0, err
		}
		rv := uint64(littleEndian.Uint16(buf[:2]))
		if rv < 0xfd {
			return 0, errors.Errorf("non-canonical varint %x - discriminant %x must encode a value >= %x", rv, discriminant, 0xfd)
		}
		return rv, nil

	default:
		return uint64(discriminant), nil
	}
}

// WriteVarInt serializes val to w using the minimal number of bytes
// required by the canonical varint encoding.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{byte(val)})
		return err
	}
	if val <= math.MaxUint16 {
		var buf [3]byte
		buf[0] = 0xfd
		littleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf[:])
		return err
	}
	if val <= math.MaxUint32 {
		var buf [5]byte
		buf[0] = 0xfe
		littleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf[:])
		return err
	}
	var buf [9]byte
	buf[0] = 0xff
	littleEndian.PutUint64(buf[1:], val)
	_, err := w.Write(buf[:])
	return err
}

// VarIntSerializeSize returns the number of bytes it would take to
// serialize val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	if val < 0xfd {
		return 1
	}
	if val <= math.MaxUint16 {
		return 3
	}
	if val <= math.MaxUint32 {
		return 5
	}
	return 9
}

// readVarBytes reads a variable-length byte slice prefixed by a varint
// length, rejecting lengths beyond maxAllowed.
func readVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, errors.Errorf("%s is larger than the max allowed size [count %d, max %d]", fieldName, count, maxAllowed)
	}
	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// writeVarBytes writes a varint length prefix followed by the bytes of b.
func writeVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readUint32LE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return littleEndian.Uint32(buf[:]), nil
}

func writeUint32LE(w io.Writer, v uint32) error {
	var buf [4]byte
	littleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readInt64LE(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int64(littleEndian.Uint64(buf[:])), nil
}

func writeInt64LE(w io.Writer, v int64) error {
	var buf [8]byte
	littleEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}
