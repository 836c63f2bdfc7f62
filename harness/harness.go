// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/floresta-chain/florestatest/daemon"
	"github.com/floresta-chain/florestatest/rpcclient"
)

const (
	// defaultWaitTimeout bounds each readiness or shutdown wait on a
	// single port.
	defaultWaitTimeout = 30 * time.Second
)

// DefaultBaseDir is where harness data directories and logs live unless the
// caller picks another location.
func DefaultBaseDir() string {
	return filepath.Join(os.TempDir(), "floresta-func-tests")
}

// NodeConfig declares one daemon a scenario wants to run: which kind, where
// its executable lives, which extra validated settings to pass, how to reach
// its RPC server and whether the electrum endpoint serves TLS.
type NodeConfig struct {
	Kind      daemon.Kind
	TargetDir string
	ExtraArgs []string
	Server    rpcclient.ServerConfig

	// SSL makes the harness generate a key/cert pair and hand it to the
	// daemon; only meaningful for florestad, which otherwise receives
	// --no-ssl like the reference scripts pass.
	SSL bool
}

// Harness orchestrates a set of node daemons for one functional test
// scenario: it registers node declarations, starts them, exposes their RPC
// clients and tears everything down, gracefully when possible.
type Harness struct {
	baseDir string

	configs []NodeConfig
	nodes   []*Node
}

// New creates a harness rooted at baseDir, creating it if needed.
func New(baseDir string) (*Harness, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir()
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &Harness{baseDir: baseDir}, nil
}

// BaseDir returns the harness working directory.
func (h *Harness) BaseDir() string {
	return h.baseDir
}

// CreateDataDirs creates count data directories under the harness base dir,
// named <scenario>/node-<i>, and returns their paths.
func (h *Harness) CreateDataDirs(scenario string, count int) ([]string, error) {
	dirs := make([]string, 0, count)
	for i := 0; i < count; i++ {
		dir := filepath.Join(h.baseDir, "data", scenario,
			fmt.Sprintf("node-%d", i))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

// AddNode registers a node declaration and returns its index.  The server
// configuration is validated here, the daemon arguments when the node is
// built, both before any process is spawned.
func (h *Harness) AddNode(cfg NodeConfig) (int, error) {
	server, err := rpcclient.NewServerConfig(cfg.Server)
	if err != nil {
		return 0, err
	}
	cfg.Server = server

	if cfg.Kind == daemon.Florestad {
		if cfg.SSL {
			sslDir := filepath.Join(h.baseDir, "ssl")
			keyPath, certPath, err := GenCertPair(sslDir)
			if err != nil {
				return 0, err
			}
			cfg.ExtraArgs = append(cfg.ExtraArgs,
				"--ssl-key-path="+keyPath,
				"--ssl-cert-path="+certPath,
			)
		} else {
			cfg.ExtraArgs = append(cfg.ExtraArgs, "--no-ssl")
		}
	}

	h.configs = append(h.configs, cfg)
	h.nodes = append(h.nodes, nil)
	return len(h.configs) - 1, nil
}

// NodeConfigAt returns the declaration registered at index.
func (h *Harness) NodeConfigAt(index int) NodeConfig {
	return h.configs[index]
}

// RunNode starts the daemon registered at index and blocks until every
// configured port is reachable and the RPC server answers
// getblockchaininfo.  The built node is retained and returned.
func (h *Harness) RunNode(ctx context.Context, index int) (*Node, error) {
	if index < 0 || index >= len(h.configs) {
		return nil, fmt.Errorf("no node registered at index %d", index)
	}
	if h.nodes[index] != nil {
		return nil, fmt.Errorf("node %d is already running", index)
	}
	cfg := h.configs[index]

	d, err := daemon.New(cfg.Kind, cfg.TargetDir)
	if err != nil {
		return nil, err
	}

	listen, err := listenArgs(cfg.Kind, cfg.Server)
	if err != nil {
		return nil, err
	}
	if err := d.AddSettings(listen...); err != nil {
		return nil, err
	}
	if err := d.AddSettings(cfg.ExtraArgs...); err != nil {
		return nil, err
	}

	client, err := rpcclient.New(cfg.Server)
	if err != nil {
		return nil, err
	}

	if err := d.Start(); err != nil {
		return nil, err
	}

	node := &Node{Daemon: d, RPC: client, cfg: cfg}

	err = client.WaitForConnections(ctx, true, defaultWaitTimeout)
	if err == nil {
		err = client.WaitForRPCReady(ctx, defaultWaitTimeout)
	}
	if err != nil {
		// The daemon never became ready; reclaim the process before
		// reporting.
		if killErr := d.Kill(); killErr != nil {
			log.Warnf("unable to kill node %d: %v", index, killErr)
		}
		return nil, fmt.Errorf("node %d never became ready: %w", index,
			err)
	}

	h.nodes[index] = node
	return node, nil
}

// Node returns the running node at index, or nil if it was never started or
// already stopped.
func (h *Harness) Node(index int) *Node {
	if index < 0 || index >= len(h.nodes) {
		return nil
	}
	return h.nodes[index]
}

// Detach hands ownership of the running node at index to the caller: the
// harness forgets it and will not tear it down.  Scenarios that exercise the
// shutdown path themselves use this to keep TearDownAll out of the way.
func (h *Harness) Detach(index int) *Node {
	node := h.Node(index)
	if node != nil {
		h.nodes[index] = nil
	}
	return node
}

// StopNode gracefully shuts down the node at index: RPC stop, wait for all
// its ports to close, then reap the process.  The forced kill only happens
// when the graceful path fails.
func (h *Harness) StopNode(ctx context.Context, index int) error {
	node := h.Node(index)
	if node == nil {
		return fmt.Errorf("no running node at index %d", index)
	}
	h.nodes[index] = nil

	msg, err := node.RPC.Stop()
	if err == nil {
		log.Infof("node %d: %s", index, msg)
		err = node.RPC.WaitForConnections(ctx, false,
			defaultWaitTimeout)
	}
	if err == nil {
		node.Daemon.Wait()
		return nil
	}

	log.Warnf("graceful stop of node %d failed, killing: %v", index, err)
	if killErr := node.Daemon.Kill(); killErr != nil &&
		!errors.Is(killErr, daemon.ErrNotStarted) {

		return fmt.Errorf("unable to kill node %d after failed stop "+
			"(%v): %w", index, err, killErr)
	}
	return err
}

// TearDownAll stops every node that is still running.  The first error is
// reported but later nodes are still torn down.
func (h *Harness) TearDownAll(ctx context.Context) error {
	var firstErr error
	for i := range h.nodes {
		if h.nodes[i] == nil {
			continue
		}
		if err := h.StopNode(ctx, i); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
