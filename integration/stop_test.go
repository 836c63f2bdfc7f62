// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build rpctest
// +build rpctest

package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/floresta-chain/florestatest/daemon"
)

// TestStop drives the graceful shutdown path by hand instead of through
// StopNode: the stop call must answer with the literal florestad banner,
// then every port closes and the process exits on its own.
func TestStop(t *testing.T) {
	h, ctx := newHarness(t)

	dirs, err := h.CreateDataDirs("stop", 1)
	require.NoError(t, err)

	index := declareNode(t, h, daemon.Florestad, dirs[0], false)
	startNode(t, h, ctx, index)

	// The harness must not tear this node down, the test owns the
	// shutdown from here.
	node := h.Detach(index)
	require.NotNil(t, node)

	uptime, err := node.RPC.Uptime()
	require.NoError(t, err)
	require.GreaterOrEqual(t, uptime, int64(0))

	msg, err := node.RPC.Stop()
	require.NoError(t, err)
	require.Equal(t, stopMessage, msg)

	require.NoError(t, node.RPC.WaitForConnections(ctx, false,
		syncTimeout))
	require.NoError(t, node.Daemon.Wait())

	require.False(t, node.Daemon.Running())
}
