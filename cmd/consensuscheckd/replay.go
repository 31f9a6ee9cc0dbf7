package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BTCDecoded/bllvm-consensus/blockchain"
	"github.com/BTCDecoded/bllvm-consensus/chaincfg"
	"github.com/BTCDecoded/bllvm-consensus/chainhash"
	"github.com/BTCDecoded/bllvm-consensus/chainstatedb"
	"github.com/BTCDecoded/bllvm-consensus/clog"
	"github.com/BTCDecoded/bllvm-consensus/wire"
)

// blockFiles returns every ".blk" file under dir, sorted by name so
// that sequentially numbered files replay in block order.
func blockFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading block directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".blk" {
			continue
		}
		names = append(names, filepath.Join(dir, e.Name()))
	}
	sort.Strings(names)
	return names, nil
}

func loadBlock(path string) (*wire.MsgBlock, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	block, err := wire.DeserializeBlock(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return block, nil
}

// replay validates and connects every block under cfg.BlockDir in
// order, starting a fresh ChainState from the first file as genesis.
// It reports the height reached and the first validation failure, if
// any; a failure does not stop the caller from inspecting how far
// replay got.
func replay(cfg *config, params *chaincfg.Params) (height int64, err error) {
	paths, err := blockFiles(cfg.BlockDir)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no .blk files found under %s", cfg.BlockDir)
	}

	genesis, err := loadBlock(paths[0])
	if err != nil {
		return 0, err
	}

	cs, err := blockchain.NewChainState(genesis, params)
	if err != nil {
		return 0, fmt.Errorf("connecting genesis block: %w", err)
	}

	var store *chainstatedb.DB
	if cfg.StatePath != "" {
		store, err = chainstatedb.Open(cfg.StatePath)
		if err != nil {
			return 0, fmt.Errorf("opening chainstate database: %w", err)
		}
		defer store.Close()
	}

	now := cfg.AllowFuture
	if now == 0 {
		now = time.Now().Unix()
	}

	blocks := make(map[chainhash.Hash]*wire.MsgBlock, len(paths))
	genesisHash := genesis.Header.BlockHash()
	blocks[genesisHash] = genesis

	fetch := func(node *blockchain.BlockNode) (*wire.MsgBlock, error) {
		b, ok := blocks[node.Hash]
		if !ok {
			return nil, fmt.Errorf("block body for %s not loaded", node.Hash)
		}
		return b, nil
	}

	limit := len(paths)
	if cfg.MaxBlocks > 0 && int(cfg.MaxBlocks) < limit {
		limit = int(cfg.MaxBlocks)
	}

	for i := 1; i < limit; i++ {
		block, err := loadBlock(paths[i])
		if err != nil {
			return cs.Chain.Height(), err
		}
		hash := block.Header.BlockHash()
		blocks[hash] = block

		node, err := cs.AcceptBlock(block, now)
		if err != nil {
			return cs.Chain.Height(), fmt.Errorf("block %s (file %s) rejected: %w", hash, filepath.Base(paths[i]), err)
		}

		if err := cs.MaybeReorganize(node, fetch); err != nil {
			return cs.Chain.Height(), fmt.Errorf("block %s (file %s) could not be connected: %w", hash, filepath.Base(paths[i]), err)
		}

		if store != nil {
			if err := store.ApplyUtxoSet(cs.UtxoSet); err != nil {
				return cs.Chain.Height(), fmt.Errorf("persisting utxo set at height %d: %w", cs.Chain.Height(), err)
			}
		}

		clog.Cscd().Infof("connected block %s at height %d", hash, cs.Chain.Height())
	}

	return cs.Chain.Height(), nil
}
