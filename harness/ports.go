// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package harness

import (
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/floresta-chain/florestatest/daemon"
	"github.com/floresta-chain/florestatest/rpcclient"
)

// Logical port names used by the default server configurations.
const (
	// PortRPC is the JSON-RPC port, present for every kind.
	PortRPC = rpcclient.PortRPC

	// PortElectrum is florestad's electrum server port.
	PortElectrum = "electrum"

	// PortP2P is the peer-to-peer listening port of utreexod and
	// bitcoind.
	PortP2P = "p2p"
)

// Base ports for the first harness instance of each kind.  Subsequent
// instances are offset by portStride per instance so several nodes can run
// simultaneously on one machine.  Every base has a distinct residue modulo
// portStride, so no two allocations can ever land on the same port no
// matter how far apart their instance numbers are.
const (
	florestadBaseRPC      = 18442
	florestadBaseElectrum = 50001

	utreexodBaseRPC = 18336
	utreexodBaseP2P = 18444

	bitcoindBaseRPC = 18443
	bitcoindBaseP2P = 18445

	portStride = 10
)

var (
	// instanceCounter hands out a unique offset per allocated default
	// configuration.  Guarded by instanceMtx for tests that build
	// harnesses concurrently.
	instanceCounter int
	instanceMtx     sync.Mutex
)

// nextInstance returns a fresh per-process instance number.
func nextInstance() int {
	instanceMtx.Lock()
	defer instanceMtx.Unlock()
	n := instanceCounter
	instanceCounter++
	return n
}

// DefaultServerConfig allocates a server configuration for a new instance of
// the given daemon kind, with non-colliding ports on 127.0.0.1 and the
// credentials the kind is started with.
func DefaultServerConfig(kind daemon.Kind) (rpcclient.ServerConfig, error) {
	instance := nextInstance()
	offset := uint16(instance * portStride)

	cfg := rpcclient.ServerConfig{Host: "127.0.0.1"}
	switch kind {
	case daemon.Florestad:
		cfg.Ports = map[string]uint16{
			PortRPC:      florestadBaseRPC + offset,
			PortElectrum: florestadBaseElectrum + offset,
		}

	case daemon.Utreexod:
		cfg.Ports = map[string]uint16{
			PortRPC: utreexodBaseRPC + offset,
			PortP2P: utreexodBaseP2P + offset,
		}
		cfg.User, cfg.Pass = "utreexo", "utreexo"
		cfg.JSONRPCVersion = "1.0"

	case daemon.Bitcoind:
		cfg.Ports = map[string]uint16{
			PortRPC: bitcoindBaseRPC + offset,
			PortP2P: bitcoindBaseP2P + offset,
		}
		cfg.User, cfg.Pass = "bitcoin", "bitcoin"
		cfg.JSONRPCVersion = "1.0"

	default:
		return rpcclient.ServerConfig{}, fmt.Errorf(
			"no default server config for kind %v", kind)
	}

	return rpcclient.NewServerConfig(cfg)
}

// listenArgs translates a server configuration into the CLI flags that make
// the daemon actually bind those ports.  The flags are in the respective
// allow-lists, so they pass AddSettings validation like any other setting.
func listenArgs(kind daemon.Kind,
	cfg rpcclient.ServerConfig) ([]string, error) {

	rpcPort, err := cfg.Port(PortRPC)
	if err != nil {
		return nil, err
	}
	rpcAddr := net.JoinHostPort(cfg.Host, strconv.Itoa(int(rpcPort)))

	switch kind {
	case daemon.Florestad:
		electrumPort, err := cfg.Port(PortElectrum)
		if err != nil {
			return nil, err
		}
		electrumAddr := net.JoinHostPort(cfg.Host,
			strconv.Itoa(int(electrumPort)))
		return []string{
			"--rpc-address=" + rpcAddr,
			"--electrum-address=" + electrumAddr,
		}, nil

	case daemon.Utreexod:
		p2pPort, err := cfg.Port(PortP2P)
		if err != nil {
			return nil, err
		}
		p2pAddr := net.JoinHostPort(cfg.Host,
			strconv.Itoa(int(p2pPort)))
		return []string{
			"--rpclisten=" + rpcAddr,
			"--listen=" + p2pAddr,
		}, nil

	case daemon.Bitcoind:
		p2pPort, err := cfg.Port(PortP2P)
		if err != nil {
			return nil, err
		}
		return []string{
			fmt.Sprintf("-rpcport=%d", rpcPort),
			fmt.Sprintf("-port=%d", p2pPort),
		}, nil
	}

	return nil, fmt.Errorf("no listen args for kind %v", kind)
}
