package blockchain

import (
	"math/big"
	"testing"

	"github.com/BTCDecoded/bllvm-consensus/chaincfg"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// regtestLikeParams uses the lowest possible difficulty, at which
// roughly half of all block hashes satisfy proof-of-work, so tests that
// check proof-of-work only need solveHeader's short nonce search.
func regtestLikeParams() *chaincfg.Params {
	return &chaincfg.Params{
		Name:                   "regtest-like",
		PowLimit:               new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1)),
		PowLimitBits:           0x207fffff,
		SubsidyHalvingInterval: 150,
		TargetTimespan:         14 * 24 * 60 * 60,
		TargetSpacing:          10 * 60,
		RetargetInterval:       2016,
		CoinbaseMaturity:       100,
	}
}

func buildBlock(params *chaincfg.Params, prev uint32, txs []*wire.MsgTx) *wire.MsgBlock {
	block := &wire.MsgBlock{Transactions: txs}
	block.Header.Bits = params.PowLimitBits
	block.Header.MerkleRoot = CalcMerkleRoot(txs)
	return block
}

// solveHeader increments header's nonce until its hash satisfies the
// target implied by its bits.
func solveHeader(header *wire.BlockHeader, params *chaincfg.Params) {
	for {
		hash := header.BlockHash()
		if CheckProofOfWork(&hash, header.Bits, params.PowLimit) == nil {
			return
		}
		header.Nonce++
	}
}

func TestCheckBlockSanityRequiresCoinbaseFirst(t *testing.T) {
	params := regtestLikeParams()
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{Index: 0}})
	tx.AddTxOut(&wire.TxOut{Value: 1})
	block := buildBlock(params, 0, []*wire.MsgTx{tx})

	if err := CheckBlockSanity(block, params); !IsErrorKind(err, ErrFirstTxNotCoinbase) {
		t.Fatalf("expected ErrFirstTxNotCoinbase, got %v", err)
	}
}

func TestCheckBlockSanityRejectsBadMerkleRoot(t *testing.T) {
	params := regtestLikeParams()
	cb := coinbaseTx(5000000000)
	block := buildBlock(params, 0, []*wire.MsgTx{cb})
	block.Header.MerkleRoot[0] ^= 0xff

	if err := CheckBlockSanity(block, params); !IsErrorKind(err, ErrBadMerkleRoot) {
		t.Fatalf("expected ErrBadMerkleRoot, got %v", err)
	}
}

func TestCheckBlockSanityAcceptsValidBlock(t *testing.T) {
	params := regtestLikeParams()
	cb := coinbaseTx(5000000000)
	block := buildBlock(params, 0, []*wire.MsgTx{cb})

	if err := CheckBlockSanity(block, params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckBlockHeaderContextProofOfWork(t *testing.T) {
	params := regtestLikeParams()
	cb := coinbaseTx(5000000000)
	block := buildBlock(params, 0, []*wire.MsgTx{cb})
	genesisNode := NewBlockNode(&block.Header, nil)

	child := coinbaseTx(5000000000)
	childBlock := buildBlock(params, 0, []*wire.MsgTx{child})
	childBlock.Header.PrevBlock = genesisNode.Hash
	childBlock.Header.Timestamp = genesisNode.Header.Timestamp + 1
	solveHeader(&childBlock.Header, params)

	if err := CheckBlockHeaderContext(&childBlock.Header, genesisNode, int64(childBlock.Header.Timestamp)+100, params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckCoinbaseValueRejectsExcess(t *testing.T) {
	params := regtestLikeParams()
	cb := coinbaseTx(params.CalcBlockSubsidy(0) + 1)
	block := buildBlock(params, 0, []*wire.MsgTx{cb})

	if err := CheckCoinbaseValue(block, 0, 0, params); !IsErrorKind(err, ErrBadCoinbaseValue) {
		t.Fatalf("expected ErrBadCoinbaseValue, got %v", err)
	}
}

func TestCheckCoinbaseValueAllowsFees(t *testing.T) {
	params := regtestLikeParams()
	cb := coinbaseTx(params.CalcBlockSubsidy(0) + 500)
	block := buildBlock(params, 0, []*wire.MsgTx{cb})

	if err := CheckCoinbaseValue(block, 0, 500, params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
