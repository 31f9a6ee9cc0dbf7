// Package amount defines the satoshi-denominated Amount type and the
// network-wide money limits enforced by the consensus core.
package amount

import "fmt"

// SatoshiPerBitcoin is the number of satoshis in one bitcoin.
const SatoshiPerBitcoin = 1e8

// MaxSatoshi is the maximum transaction amount allowed in satoshis,
// derived from the 21,000,000 BTC hard supply cap.
const MaxSatoshi = 21_000_000 * SatoshiPerBitcoin

// Amount represents a quantity of satoshis, the base monetary unit.
type Amount int64

// IsValid reports whether a is within the consensus-legal range [0,
// MaxSatoshi] for a single output or input value.
func (a Amount) IsValid() bool {
	return a >= 0 && a <= MaxSatoshi
}

// String returns a human-readable satoshi amount string, e.g. "100.00000000 BTC".
func (a Amount) String() string {
	return fmt.Sprintf("%d.%08d BTC", int64(a)/SatoshiPerBitcoin, int64(a)%SatoshiPerBitcoin)
}
