// Package chainhash provides the 32-byte hash type and double-SHA256
// helpers used throughout the consensus core.
package chainhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
)

// HashSize is the number of bytes in a hash.
const HashSize = 32

// MaxHashStringSize is the maximum length of a hash string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error that indicates the caller specified a
// hash string that does not have the right number of characters.
var ErrHashStrSize = fmt.Errorf("max hash string length is %d bytes", MaxHashStringSize)

// Hash is a 32-byte array used mainly to represent hash results. Stored
// byte-for-byte as produced by the hash function; textual display reverses
// the byte order, matching the convention used for display of Bitcoin
// hashes.
type Hash [HashSize]byte

// ZeroHash is the Hash value of all zero bytes, used as the prevout hash of
// a coinbase input.
var ZeroHash Hash

// String returns the Hash as the hexadecimal string of the byte-reversed
// hash.
func (hash Hash) String() string {
	for i := 0; i < HashSize/2; i++ {
		hash[i], hash[HashSize-1-i] = hash[HashSize-1-i], hash[i]
	}
	return hex.EncodeToString(hash[:])
}

// CloneBytes returns a copy of the bytes which represent the hash as a byte
// slice.
func (hash *Hash) CloneBytes() []byte {
	newHash := make([]byte, HashSize)
	copy(newHash, hash[:])
	return newHash
}

// SetBytes sets the bytes which represent the hash. An error is returned if
// the number of bytes passed in is not HashSize.
func (hash *Hash) SetBytes(newHash []byte) error {
	nhlen := len(newHash)
	if nhlen != HashSize {
		return errors.Errorf("invalid hash length of %d, want %d", nhlen, HashSize)
	}
	copy(hash[:], newHash)
	return nil
}

// IsEqual returns true if target is the same as hash.
func (hash *Hash) IsEqual(target *Hash) bool {
	if hash == nil && target == nil {
		return true
	}
	if hash == nil || target == nil {
		return false
	}
	return *hash == *target
}

// NewHash returns a new Hash from a byte slice.
func NewHash(newHash []byte) (*Hash, error) {
	var sh Hash
	err := sh.SetBytes(newHash)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// NewHashFromStr creates a Hash from a hash string, which must be the
// byte-reversed hexadecimal string of a hash.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	err := Decode(ret, hash)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the byte-reversed hexadecimal string encoding of a hash
// into dst.
func Decode(dst *Hash, src string) error {
	if len(src) > MaxHashStringSize {
		return ErrHashStrSize
	}

	srcBytes, err := hex.DecodeString(src)
	if err != nil {
		return err
	}

	if len(srcBytes) != HashSize {
		return errors.Errorf("invalid hash length of %d, want %d", len(srcBytes), HashSize)
	}

	for i, b := range srcBytes {
		dst[HashSize-1-i] = b
	}
	return nil
}

// HashB calculates the single SHA256 hash of the given data and returns it
// as a byte slice.
func HashB(b []byte) []byte {
	hash := sha256.Sum256(b)
	return hash[:]
}

// HashH calculates the single SHA256 hash of the given data and returns it
// as a Hash.
func HashH(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// DoubleHashB calculates the double SHA256 hash of the given data and
// returns it as a byte slice.
func DoubleHashB(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// DoubleHashH calculates the double SHA256 hash of the given data and
// returns it as a Hash.
func DoubleHashH(b []byte) Hash {
	first := sha256.Sum256(b)
	return Hash(sha256.Sum256(first[:]))
}
