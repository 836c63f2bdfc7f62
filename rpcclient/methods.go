// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// peerAddrRE matches IPv4 or bracketed IPv6 literals with an optional
// 0-65535 port, the only peer address format addnode accepts.
var peerAddrRE = regexp.MustCompile(
	`^(` +
		`(?:(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\.){3}` +
		`(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])|` +
		`\[([a-fA-F0-9:]+)\]` +
		`)` +
		`(:(6553[0-5]|655[0-2][0-9]|65[0-4][0-9]{2}|6[0-4][0-9]{3}|[1-9]?[0-9]{1,4}))?$`)

// unmarshalResult decodes a raw RPC result into dest.
func unmarshalResult(method string, raw json.RawMessage,
	dest interface{}) error {

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unable to decode %s result: %w", method, err)
	}
	return nil
}

// GetBlockchainInfo performs getblockchaininfo and returns the result
// verbatim.  This doubles as the canonical "is the RPC endpoint actually
// serving" probe.
func (c *Client) GetBlockchainInfo() (json.RawMessage, error) {
	return c.PerformRequest("getblockchaininfo")
}

// GetBlockchainInfoFloresta performs getblockchaininfo against a florestad
// node and decodes its snake_case response.
func (c *Client) GetBlockchainInfoFloresta() (*FlorestaBlockchainInfo, error) {
	raw, err := c.GetBlockchainInfo()
	if err != nil {
		return nil, err
	}
	var info FlorestaBlockchainInfo
	if err := unmarshalResult("getblockchaininfo", raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetBlockchainInfoCore performs getblockchaininfo against a bitcoind or
// utreexod node and decodes the bitcoin-core shaped response.
func (c *Client) GetBlockchainInfoCore() (*CoreBlockchainInfo, error) {
	raw, err := c.GetBlockchainInfo()
	if err != nil {
		return nil, err
	}
	var info CoreBlockchainInfo
	if err := unmarshalResult("getblockchaininfo", raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetBlockHash returns the hash of the block at the given height.
func (c *Client) GetBlockHash(height uint32) (*chainhash.Hash, error) {
	raw, err := c.PerformRequest("getblockhash", height)
	if err != nil {
		return nil, err
	}
	var s string
	if err := unmarshalResult("getblockhash", raw, &s); err != nil {
		return nil, err
	}
	return chainhash.NewHashFromStr(s)
}

// GetBlockRaw performs getblock with verbosity level 0 and returns the
// serialized block as a hex string.
func (c *Client) GetBlockRaw(hash *chainhash.Hash) (string, error) {
	raw, err := c.PerformRequest("getblock", hash.String(), 0)
	if err != nil {
		return "", err
	}
	var s string
	if err := unmarshalResult("getblock", raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

// GetBlockVerbose performs getblock with verbosity level 1.
func (c *Client) GetBlockVerbose(
	hash *chainhash.Hash) (*GetBlockVerboseResult, error) {

	raw, err := c.PerformRequest("getblock", hash.String(), 1)
	if err != nil {
		return nil, err
	}
	var block GetBlockVerboseResult
	if err := unmarshalResult("getblock", raw, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// GetBlockVerboseRaw performs getblock with verbosity level 1 but leaves
// the result undecoded so tests can compare fields across implementations
// that disagree on key naming.
func (c *Client) GetBlockVerboseRaw(
	hash *chainhash.Hash) (json.RawMessage, error) {

	return c.PerformRequest("getblock", hash.String(), 1)
}

// GetBlockHeaderRaw performs getblockheader with verbose=false and returns
// the 80 byte header as a hex string.
func (c *Client) GetBlockHeaderRaw(hash *chainhash.Hash) (string, error) {
	raw, err := c.PerformRequest("getblockheader", hash.String(), false)
	if err != nil {
		return "", err
	}
	var s string
	if err := unmarshalResult("getblockheader", raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

// GetBlockHeaderVerbose performs getblockheader with verbose=true.
func (c *Client) GetBlockHeaderVerbose(
	hash *chainhash.Hash) (*GetBlockHeaderVerboseResult, error) {

	raw, err := c.PerformRequest("getblockheader", hash.String(), true)
	if err != nil {
		return nil, err
	}
	var header GetBlockHeaderVerboseResult
	if err := unmarshalResult("getblockheader", raw, &header); err != nil {
		return nil, err
	}
	return &header, nil
}

// GetPeerInfo returns the list of currently connected peers.
func (c *Client) GetPeerInfo() ([]PeerInfo, error) {
	raw, err := c.PerformRequest("getpeerinfo")
	if err != nil {
		return nil, err
	}
	var peers []PeerInfo
	if err := unmarshalResult("getpeerinfo", raw, &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

// AddNode asks the daemon to act on the given ip[:port] peer address with
// the passed command, normally "onetry".  The address is validated locally
// before any request is issued.  The raw result is returned since floresta
// reports a success boolean while bitcoind reports null.
func (c *Client) AddNode(addr, command string,
	v2transport bool) (json.RawMessage, error) {

	if !peerAddrRE.MatchString(addr) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return c.PerformRequest("addnode", addr, command, v2transport)
}

// GetRoots returns the node's current utreexo accumulator roots.  A node in
// initial block download reports an empty set.
func (c *Client) GetRoots() ([]string, error) {
	raw, err := c.PerformRequest("getroots")
	if err != nil {
		return nil, err
	}
	var roots []string
	if err := unmarshalResult("getroots", raw, &roots); err != nil {
		return nil, err
	}
	return roots, nil
}

// GetRPCInfo returns the state of the daemon's RPC server, including the
// commands currently being served.
func (c *Client) GetRPCInfo() (*GetRPCInfoResult, error) {
	raw, err := c.PerformRequest("getrpcinfo")
	if err != nil {
		return nil, err
	}
	var info GetRPCInfoResult
	if err := unmarshalResult("getrpcinfo", raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetBlockCount returns the number of blocks in the daemon's best chain.
func (c *Client) GetBlockCount() (int64, error) {
	raw, err := c.PerformRequest("getblockcount")
	if err != nil {
		return 0, err
	}
	var count int64
	if err := unmarshalResult("getblockcount", raw, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetBestBlockHash returns the hash of the daemon's best chain tip.
func (c *Client) GetBestBlockHash() (*chainhash.Hash, error) {
	raw, err := c.PerformRequest("getbestblockhash")
	if err != nil {
		return nil, err
	}
	var s string
	if err := unmarshalResult("getbestblockhash", raw, &s); err != nil {
		return nil, err
	}
	return chainhash.NewHashFromStr(s)
}

// Generate asks a mining-capable daemon (utreexod in regtest) to mine the
// given number of blocks and returns their hashes.
func (c *Client) Generate(numBlocks uint32) ([]*chainhash.Hash, error) {
	raw, err := c.PerformRequest("generate", numBlocks)
	if err != nil {
		return nil, err
	}
	var strs []string
	if err := unmarshalResult("generate", raw, &strs); err != nil {
		return nil, err
	}
	hashes := make([]*chainhash.Hash, 0, len(strs))
	for _, s := range strs {
		hash, err := chainhash.NewHashFromStr(s)
		if err != nil {
			return nil, fmt.Errorf("generate returned bad hash %q: %w",
				s, err)
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

// Uptime returns the daemon's uptime in seconds.
func (c *Client) Uptime() (int64, error) {
	raw, err := c.PerformRequest("uptime")
	if err != nil {
		return 0, err
	}
	var secs int64
	if err := unmarshalResult("uptime", raw, &secs); err != nil {
		return 0, err
	}
	return secs, nil
}

// Ping checks the RPC server is answering.  The daemon replies null, so
// only the error matters.
func (c *Client) Ping() error {
	_, err := c.PerformRequest("ping")
	return err
}

// Stop requests a graceful shutdown and returns the daemon's farewell
// message, e.g. "florestad stopping".  It does not wait for the process to
// exit; pair it with WaitForConnections and Daemon.Wait.
func (c *Client) Stop() (string, error) {
	raw, err := c.PerformRequest("stop")
	if err != nil {
		return "", err
	}
	var msg string
	if err := unmarshalResult("stop", raw, &msg); err != nil {
		return "", err
	}
	return msg, nil
}
