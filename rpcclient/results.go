// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

// FlorestaBlockchainInfo models florestad's getblockchaininfo response.
// Field naming follows floresta, which deliberately diverges from bitcoind
// in a few places (snake_case, validated vs blocks).
type FlorestaBlockchainInfo struct {
	BestBlock       string   `json:"best_block"`
	Height          uint32   `json:"height"`
	IBD             bool     `json:"ibd"`
	Validated       uint32   `json:"validated"`
	LatestWork      string   `json:"latest_work"`
	LatestBlockTime int64    `json:"latest_block_time"`
	LeafCount       uint64   `json:"leaf_count"`
	RootCount       uint32   `json:"root_count"`
	RootHashes      []string `json:"root_hashes"`
	Chain           string   `json:"chain"`
	Difficulty      float64  `json:"difficulty"`
	Progress        float64  `json:"progress"`
}

// CoreBlockchainInfo models the getblockchaininfo response of bitcoind and
// utreexod.
type CoreBlockchainInfo struct {
	Chain                string  `json:"chain"`
	Blocks               int64   `json:"blocks"`
	Headers              int64   `json:"headers"`
	BestBlockHash        string  `json:"bestblockhash"`
	Difficulty           float64 `json:"difficulty"`
	InitialBlockDownload bool    `json:"initialblockdownload"`
	VerificationProgress float64 `json:"verificationprogress"`
}

// GetBlockVerboseResult models a getblock response at verbosity level 1.
// Note the n_tx field: bitcoind calls it nTx, floresta n_tx, so both tags
// cannot live on one field and the floresta spelling wins here.  Tests that
// need bitcoind's nTx read the raw payload.
type GetBlockVerboseResult struct {
	Hash              string   `json:"hash"`
	Confirmations     int64    `json:"confirmations"`
	StrippedSize      int32    `json:"strippedsize"`
	Size              int32    `json:"size"`
	Weight            int32    `json:"weight"`
	Height            int64    `json:"height"`
	Version           int32    `json:"version"`
	VersionHex        string   `json:"versionHex"`
	MerkleRoot        string   `json:"merkleroot"`
	Tx                []string `json:"tx"`
	NTx               uint32   `json:"n_tx"`
	Time              int64    `json:"time"`
	MedianTime        int64    `json:"mediantime"`
	Nonce             uint32   `json:"nonce"`
	Bits              string   `json:"bits"`
	Chainwork         string   `json:"chainwork"`
	PreviousBlockHash string   `json:"previousblockhash"`
	NextBlockHash     string   `json:"nextblockhash"`
}

// GetBlockHeaderVerboseResult models a getblockheader response with
// verbose=true.
type GetBlockHeaderVerboseResult struct {
	Hash              string `json:"hash"`
	Confirmations     int64  `json:"confirmations"`
	Height            int64  `json:"height"`
	Version           int32  `json:"version"`
	VersionHex        string `json:"versionHex"`
	MerkleRoot        string `json:"merkleroot"`
	Time              int64  `json:"time"`
	MedianTime        int64  `json:"mediantime"`
	Nonce             uint64 `json:"nonce"`
	Bits              string `json:"bits"`
	Chainwork         string `json:"chainwork"`
	PreviousBlockHash string `json:"previousblockhash"`
	NextBlockHash     string `json:"nextblockhash"`
}

// PeerInfo models one entry of a getpeerinfo response.  Floresta and the
// bitcoind lineage disagree on key names, so both spellings are present and
// only the matching half is populated.
type PeerInfo struct {
	// Floresta spellings.
	Address           string `json:"address"`
	UserAgent         string `json:"user_agent"`
	InitialHeight     uint32 `json:"initial_height"`
	Kind              string `json:"kind"`
	State             string `json:"state"`
	TransportProtocol string `json:"transport_protocol"`

	// bitcoind / utreexod spellings.
	Addr   string `json:"addr"`
	SubVer string `json:"subver"`
}

// RPCCommandInfo is one in-flight command reported by getrpcinfo.
type RPCCommandInfo struct {
	Method   string `json:"method"`
	Duration uint64 `json:"duration"`
}

// GetRPCInfoResult models a getrpcinfo response.
type GetRPCInfoResult struct {
	ActiveCommands []RPCCommandInfo `json:"active_commands"`
	LogPath        string           `json:"logpath"`
}
