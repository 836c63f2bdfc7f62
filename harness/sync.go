// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package harness

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/juju/clock"
	"github.com/juju/retry"
)

// joinPollInterval is the delay between chain state probes while waiting
// for nodes to converge.
const joinPollInterval = 500 * time.Millisecond

// errNotSynced is the internal retry error used while the probed nodes
// still disagree.
var errNotSynced = errors.New("nodes not synced")

// ConnectNode establishes a one-shot peer connection from one node to
// another's p2p port via addnode.
func ConnectNode(from, to *Node) error {
	port, err := to.Port(PortP2P)
	if err != nil {
		return err
	}
	addr := net.JoinHostPort(to.Host(), strconv.Itoa(int(port)))

	_, err = from.RPC.AddNode(addr, "onetry", false)
	return err
}

// JoinBlocks blocks until all passed nodes report the same validated chain
// height and the same tip hash, or timeout elapses.  Scenarios call it
// after mining so assertions run against a consistent view.
func JoinBlocks(ctx context.Context, nodes []*Node,
	timeout time.Duration) error {

	if len(nodes) < 2 {
		return nil
	}

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			return blocksMatch(nodes)
		},
		Attempts:    retry.UnlimitedAttempts,
		Delay:       joinPollInterval,
		MaxDuration: timeout,
		Clock:       clock.WallClock,
		Stop:        ctx.Done(),
	})
	switch {
	case err == nil:
		return nil
	case retry.IsDurationExceeded(err), retry.IsAttemptsExceeded(err):
		return fmt.Errorf("nodes did not converge after %v: %v",
			timeout, retry.LastError(err))
	case retry.IsRetryStopped(err):
		return fmt.Errorf("join cancelled: %v", retry.LastError(err))
	default:
		return err
	}
}

// WaitForPeers blocks until the node reports at least count connected
// peers, or timeout elapses.  addnode onetry schedules a connection rather
// than completing one, so scenarios wait here before inspecting peers.
func WaitForPeers(ctx context.Context, node *Node, count int,
	timeout time.Duration) error {

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			peers, err := node.RPC.GetPeerInfo()
			if err != nil {
				return err
			}
			if len(peers) < count {
				return fmt.Errorf("%d of %d peers connected",
					len(peers), count)
			}
			return nil
		},
		Attempts:    retry.UnlimitedAttempts,
		Delay:       joinPollInterval,
		MaxDuration: timeout,
		Clock:       clock.WallClock,
		Stop:        ctx.Done(),
	})
	switch {
	case err == nil:
		return nil
	case retry.IsDurationExceeded(err), retry.IsAttemptsExceeded(err):
		return fmt.Errorf("peers did not connect after %v: %v",
			timeout, retry.LastError(err))
	case retry.IsRetryStopped(err):
		return fmt.Errorf("peer wait cancelled: %v",
			retry.LastError(err))
	default:
		return err
	}
}

// blocksMatch probes every node once and reports errNotSynced while their
// heights or tips disagree.
func blocksMatch(nodes []*Node) error {
	heights := make(map[int64]struct{})
	tips := make(map[string]struct{})

	for _, node := range nodes {
		height, err := node.BestHeight()
		if err != nil {
			return err
		}
		tip, err := node.BestBlockHash()
		if err != nil {
			return err
		}
		heights[height] = struct{}{}
		tips[tip.String()] = struct{}{}
	}

	if len(heights) > 1 || len(tips) > 1 {
		log.Tracef("nodes still diverge: %s", spew.Sdump(heights, tips))
		return errNotSynced
	}
	return nil
}
