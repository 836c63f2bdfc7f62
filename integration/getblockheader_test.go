// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build rpctest
// +build rpctest

package integration

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/floresta-chain/florestatest/daemon"
	"github.com/floresta-chain/florestatest/harness"
	"github.com/floresta-chain/florestatest/rpcclient"
)

// utreexodAgentRE matches the user agent utreexod advertises to its peers.
var utreexodAgentRE = regexp.MustCompile(
	`/btcwire:\d+\.\d+\.\d+/utreexod:\d+\.\d+\.\d+/`)

// TestGetBlockHeader runs florestad and bitcoind in a semi-triangle around
// a mining utreexod: both sync from it without being connected to each
// other, then every height must yield the same hash and the same raw 80
// byte header on both.
func TestGetBlockHeader(t *testing.T) {
	h, ctx := newHarness(t)

	dirs, err := h.CreateDataDirs("getblockheader", 3)
	require.NoError(t, err)

	florestadIdx := declareNode(t, h, daemon.Florestad, dirs[0], false)
	utreexodIdx := declareNode(t, h, daemon.Utreexod, dirs[1], false,
		"--miningaddr="+miningAddr, "--prune=0")
	bitcoindIdx := declareNode(t, h, daemon.Bitcoind, dirs[2], false)

	florestad := startNode(t, h, ctx, florestadIdx)
	utreexod := startNode(t, h, ctx, utreexodIdx)
	bitcoind := startNode(t, h, ctx, bitcoindIdx)

	_, err = utreexod.RPC.Generate(10)
	require.NoError(t, err)

	require.NoError(t, harness.ConnectNode(florestad, utreexod))
	require.NoError(t, harness.WaitForPeers(ctx, florestad, 1,
		peerTimeout))

	peers, err := florestad.RPC.GetPeerInfo()
	require.NoError(t, err)
	require.NotEmpty(t, peers)
	require.Regexp(t, utreexodAgentRE, peers[0].UserAgent)

	require.NoError(t, harness.ConnectNode(bitcoind, utreexod))
	require.NoError(t, harness.WaitForPeers(ctx, bitcoind, 1,
		peerTimeout))

	peers, err = bitcoind.RPC.GetPeerInfo()
	require.NoError(t, err)
	require.NotEmpty(t, peers)
	require.Regexp(t, utreexodAgentRE, peers[0].SubVer)

	all := []*harness.Node{florestad, utreexod, bitcoind}
	require.NoError(t, harness.JoinBlocks(ctx, all, syncTimeout))

	for height := uint32(0); height < 10; height++ {
		florestaHash, err := florestad.RPC.GetBlockHash(height)
		require.NoError(t, err)

		coreHash, err := bitcoind.RPC.GetBlockHash(height)
		require.NoError(t, err)
		require.Equal(t, coreHash, florestaHash, "height %d", height)

		florestaHeader, err := florestad.RPC.GetBlockHeaderRaw(
			florestaHash)
		require.NoError(t, err)

		coreHeader, err := bitcoind.RPC.GetBlockHeaderRaw(coreHash)
		require.NoError(t, err)
		require.Equal(t, coreHeader, florestaHeader, "height %d",
			height)
	}

	_, err = florestad.RPC.GetBlockHeaderRaw(mustHash(t, wrongGenesisHash))
	require.Error(t, err)

	var rpcErr *rpcclient.RPCError
	require.True(t, errors.As(err, &rpcErr), "want RPCError, got %v", err)
}
