// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build rpctest
// +build rpctest

package integration

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"

	"github.com/floresta-chain/florestatest/daemon"
	"github.com/floresta-chain/florestatest/harness"
)

// Regtest genesis block fixtures shared across scenarios.
const (
	genesisHash       = "0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2206"
	genesisMerkleRoot = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
	genesisTime       = 1296688602
	genesisNonce      = 2
	genesisBits       = "207fffff"
	genesisSize       = 285
	genesisWeight     = 1140

	// genesisRawHex is the full serialized regtest genesis block, the
	// expected getblock verbosity 0 result.
	genesisRawHex = "0100000000000000000000000000000000000000000000000000000000000000000000003ba3edfd7a7b12b27ac72c3e67768f617fc81bc3888a51323a9fb8aa4b1e5e4adae5494dffff7f20020000000101000000010000000000000000000000000000000000000000000000000000000000000000ffffffff4d04ffff001d0104455468652054696d65732030332f4a616e2f32303039204368616e63656c6c6f72206f6e206272696e6b206f66207365636f6e64206261696c6f757420666f722062616e6b73ffffffff0100f2052a01000000434104678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5fac00000000"

	// wrongGenesisHash is the genesis hash with the last character
	// altered: well formed, but no such block exists.
	wrongGenesisHash = "0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2207"

	// miningAddr receives the coinbase of blocks utreexod mines during
	// sync scenarios.
	miningAddr = "bcrt1q4gfcga7jfjmm02zpvrh4ttc5k7lmnq2re52z2y"

	// stopMessage is the literal reply florestad sends to a stop call.
	stopMessage = "florestad stopping"

	scenarioTimeout = 5 * time.Minute
	syncTimeout     = 60 * time.Second
	peerTimeout     = 30 * time.Second
)

// genesisBlockFields are the getblock verbosity 1 keys floresta and bitcoind
// agree on for the genesis block.  difficulty is out because rust-bitcoin
// computes it differently from core, and the transaction count is spelled
// nTx by core but n_tx by floresta.
var genesisBlockFields = []string{
	"bits",
	"chainwork",
	"confirmations",
	"hash",
	"height",
	"mediantime",
	"merkleroot",
	"nonce",
	"size",
	"strippedsize",
	"time",
	"tx",
	"version",
	"versionHex",
	"weight",
}

// minedBlockFields is the agreement set for freshly mined blocks, where
// chainwork, mediantime and time additionally diverge between the
// implementations.
var minedBlockFields = []string{
	"bits",
	"confirmations",
	"hash",
	"height",
	"merkleroot",
	"nonce",
	"previousblockhash",
	"size",
	"strippedsize",
	"tx",
	"version",
	"versionHex",
	"weight",
}

// binaryDir locates the directory holding the daemon executable for kind.
// A per-kind environment variable wins, then the shared one, then a plain
// PATH lookup.  The test is skipped when the binary cannot be found at all.
func binaryDir(t *testing.T, kind daemon.Kind) string {
	t.Helper()

	envKey := "FLORESTATEST_" + strings.ToUpper(kind.String()) + "_DIR"
	if dir := os.Getenv(envKey); dir != "" {
		return dir
	}
	if dir := os.Getenv("FLORESTATEST_BIN_DIR"); dir != "" {
		return dir
	}
	path, err := exec.LookPath(kind.String())
	if err != nil {
		t.Skipf("%s not found; set %s or FLORESTATEST_BIN_DIR or add "+
			"it to PATH", kind, envKey)
	}
	return filepath.Dir(path)
}

// newHarness builds a harness rooted in a per-test temp dir together with a
// bounded scenario context.  Teardown of any still-running nodes is
// registered on test cleanup.
func newHarness(t *testing.T) (*harness.Harness, context.Context) {
	t.Helper()

	h, err := harness.New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(),
		scenarioTimeout)
	t.Cleanup(func() {
		if err := h.TearDownAll(ctx); err != nil {
			t.Logf("teardown: %v", err)
		}
		cancel()
	})
	return h, ctx
}

// dataDirArg returns the kind-appropriate data directory flag.
func dataDirArg(kind daemon.Kind, dir string) string {
	switch kind {
	case daemon.Florestad:
		return "--data-dir=" + dir
	case daemon.Utreexod:
		return "--datadir=" + dir
	default:
		return "-datadir=" + dir
	}
}

// declareNode registers a node of the given kind with a fresh default
// server configuration, its data directory flag and any extra settings.
func declareNode(t *testing.T, h *harness.Harness, kind daemon.Kind,
	dataDir string, ssl bool, extraArgs ...string) int {

	t.Helper()

	server, err := harness.DefaultServerConfig(kind)
	require.NoError(t, err)

	args := append([]string{dataDirArg(kind, dataDir)}, extraArgs...)
	index, err := h.AddNode(harness.NodeConfig{
		Kind:      kind,
		TargetDir: binaryDir(t, kind),
		ExtraArgs: args,
		Server:    server,
		SSL:       ssl,
	})
	require.NoError(t, err)
	return index
}

// startNode runs the node registered at index and fails the test if it
// never becomes ready.
func startNode(t *testing.T, h *harness.Harness, ctx context.Context,
	index int) *harness.Node {

	t.Helper()

	node, err := h.RunNode(ctx, index)
	require.NoError(t, err)
	return node
}

// mustHash parses a block hash string fixture.
func mustHash(t *testing.T, s string) *chainhash.Hash {
	t.Helper()

	hash, err := chainhash.NewHashFromStr(s)
	require.NoError(t, err)
	return hash
}

// rawFields decodes an undecoded RPC result into a generic map so fields
// can be compared across implementations that disagree on key naming.
func rawFields(t *testing.T, raw json.RawMessage) map[string]interface{} {
	t.Helper()

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	return fields
}

// requireFieldsEqual asserts that floresta and bitcoind agree on every
// listed getblock field.
func requireFieldsEqual(t *testing.T, floresta,
	core map[string]interface{}, fields []string) {

	t.Helper()

	for _, field := range fields {
		require.Contains(t, floresta, field)
		require.Contains(t, core, field)
		require.Equal(t, core[field], floresta[field],
			"field %q diverges", field)
	}
}
