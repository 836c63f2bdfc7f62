// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package harness

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/floresta-chain/florestatest/daemon"
	"github.com/floresta-chain/florestatest/rpcclient"
)

// Node binds a running daemon process to the RPC client configured for it.
type Node struct {
	// Daemon wraps the underlying OS process.
	Daemon *daemon.Daemon

	// RPC is the JSON-RPC client addressed at the daemon.
	RPC *rpcclient.Client

	cfg NodeConfig
}

// Kind returns the daemon kind of the node.
func (n *Node) Kind() daemon.Kind {
	return n.cfg.Kind
}

// Host returns the address the node's servers listen on.
func (n *Node) Host() string {
	return n.cfg.Server.Host
}

// Port resolves one of the node's logical port names.
func (n *Node) Port(name string) (uint16, error) {
	cfg := n.RPC.Config()
	return cfg.Port(name)
}

// BestHeight returns the node's fully validated chain height.  Floresta
// reports it in getblockchaininfo as "validated"; the bitcoind lineage
// serves getblockcount.
func (n *Node) BestHeight() (int64, error) {
	if n.cfg.Kind == daemon.Florestad {
		info, err := n.RPC.GetBlockchainInfoFloresta()
		if err != nil {
			return 0, err
		}
		return int64(info.Validated), nil
	}
	return n.RPC.GetBlockCount()
}

// BestBlockHash returns the node's chain tip hash.
func (n *Node) BestBlockHash() (*chainhash.Hash, error) {
	if n.cfg.Kind == daemon.Florestad {
		info, err := n.RPC.GetBlockchainInfoFloresta()
		if err != nil {
			return nil, err
		}
		return chainhash.NewHashFromStr(info.BestBlock)
	}
	return n.RPC.GetBestBlockHash()
}
