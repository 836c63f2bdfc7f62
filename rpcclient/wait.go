// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
)

const (
	// probeTimeout bounds a single TCP connect probe.
	probeTimeout = 500 * time.Millisecond

	// pollInterval is the delay between reachability probes in the wait
	// helpers.
	pollInterval = 500 * time.Millisecond
)

// errStateNotReached is the internal retry error used while a probed port
// has not yet reached the desired open/closed state.
var errStateNotReached = errors.New("connection state not reached")

// IsConnectionOpen reports whether a TCP connection to host:port currently
// succeeds.  The only side effect is the transient probe socket.
func IsConnectionOpen(host string, port uint16) bool {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	conn, err := net.DialTimeout("tcp", addr, probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// WaitForConnection polls host:port at a fixed interval until the port
// reaches the desired state: reachable when open is true, unreachable when
// open is false.  It returns ErrWaitTimeout once timeout elapses without the
// state being reached and ErrWaitCancelled when ctx is cancelled first.
func WaitForConnection(ctx context.Context, host string, port uint16,
	open bool, timeout time.Duration) error {

	state := "closed"
	if open {
		state = "open"
	}

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			if IsConnectionOpen(host, port) == open {
				return nil
			}
			return errStateNotReached
		},
		Attempts:    retry.UnlimitedAttempts,
		Delay:       pollInterval,
		MaxDuration: timeout,
		Clock:       clock.WallClock,
		Stop:        ctx.Done(),
	})
	switch {
	case err == nil:
		log.Debugf("%s:%d %s", host, port, state)
		return nil

	case retry.IsRetryStopped(err):
		return fmt.Errorf("%w: %s:%d while waiting to be %s",
			ErrWaitCancelled, host, port, state)

	case retry.IsDurationExceeded(err), retry.IsAttemptsExceeded(err):
		return fmt.Errorf("%w: %s:%d not %s after %v", ErrWaitTimeout,
			host, port, state, timeout)

	default:
		return err
	}
}

// WaitForConnections applies WaitForConnection to every port in the client's
// configuration, sequentially, so the worst case wait is timeout multiplied
// by the number of configured ports.
func (c *Client) WaitForConnections(ctx context.Context, open bool,
	timeout time.Duration) error {

	for name, port := range c.cfg.Ports {
		err := WaitForConnection(ctx, c.cfg.Host, port, open, timeout)
		if err != nil {
			return fmt.Errorf("port %q: %w", name, err)
		}
	}
	return nil
}

// WaitForRPCReady polls getblockchaininfo until the daemon answers it
// successfully.  Reaching the TCP port only proves the listener is up;
// this is the canonical probe that the RPC server is actually serving.
func (c *Client) WaitForRPCReady(ctx context.Context,
	timeout time.Duration) error {

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			_, err := c.GetBlockchainInfo()
			return err
		},
		IsFatalError: func(err error) bool {
			// A decoded JSON-RPC error means the server is up and
			// talking; surface it instead of retrying.
			var rpcErr *RPCError
			return errors.As(err, &rpcErr)
		},
		Attempts:    retry.UnlimitedAttempts,
		Delay:       pollInterval,
		MaxDuration: timeout,
		Clock:       clock.WallClock,
		Stop:        ctx.Done(),
	})
	switch {
	case err == nil:
		return nil

	case retry.IsRetryStopped(err):
		return fmt.Errorf("%w: rpc not ready", ErrWaitCancelled)

	case retry.IsDurationExceeded(err), retry.IsAttemptsExceeded(err):
		return fmt.Errorf("%w: rpc not ready after %v: %v",
			ErrWaitTimeout, timeout, retry.LastError(err))

	default:
		return err
	}
}
