// Package chaincfg holds the network-wide consensus parameters consumed
// by the block validator and chain-selection logic: subsidy schedule,
// proof-of-work limits, and the difficulty retarget window.
package chaincfg

import "math/big"

// Params groups the consensus parameters for a network, modeled on
// daglabs-btcd/dagconfig.Params but trimmed to the single-chain fields
// this core needs.
type Params struct {
	// Name identifies the network, e.g. "mainnet".
	Name string

	// PowLimit is the highest proof-of-work target permitted on the
	// network (the lowest possible difficulty).
	PowLimit *big.Int

	// PowLimitBits is PowLimit expressed in compact "bits" form.
	PowLimitBits uint32

	// SubsidyHalvingInterval is the number of blocks between subsidy
	// halvings.
	SubsidyHalvingInterval uint64

	// TargetTimespan is the desired amount of time, in seconds, that
	// should elapse over the retarget window (RetargetInterval blocks).
	TargetTimespan int64

	// TargetSpacing is the desired time, in seconds, between blocks.
	TargetSpacing int64

	// RetargetInterval is the number of blocks between difficulty
	// retargets.
	RetargetInterval uint64

	// CoinbaseMaturity is the number of blocks a block must age before
	// its coinbase outputs become spendable.
	CoinbaseMaturity uint32
}

// baseSubsidy is the starting subsidy amount for mined blocks, before any
// halvings, expressed in satoshis.
const baseSubsidy = 50 * 1e8

// MainNetParams defines the consensus parameters for the main network.
var MainNetParams = Params{
	Name:                   "mainnet",
	PowLimit:               new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 224), big.NewInt(1)),
	PowLimitBits:           0x1d00ffff,
	SubsidyHalvingInterval: 210_000,
	TargetTimespan:         14 * 24 * 60 * 60, // two weeks
	TargetSpacing:          10 * 60,
	RetargetInterval:       2016,
	CoinbaseMaturity:       100,
}

// CalcBlockSubsidy returns the block subsidy, in satoshis, a coinbase at
// the given height is allowed to create: baseSubsidy halved every
// SubsidyHalvingInterval blocks (spec §4.F).
func (p *Params) CalcBlockSubsidy(height uint32) int64 {
	if p.SubsidyHalvingInterval == 0 {
		return baseSubsidy
	}
	halvings := uint(uint64(height) / p.SubsidyHalvingInterval)
	if halvings >= 64 {
		return 0
	}
	return baseSubsidy >> halvings
}
