// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import "time"

const (
	// defaultJSONRPCVersion is the protocol tag stamped on outgoing
	// request envelopes when the caller does not pick one.  Floresta
	// speaks 2.0, utreexod and bitcoind accept 1.0 as well.
	defaultJSONRPCVersion = "2.0"

	// defaultRequestTimeout bounds a single HTTP round trip.
	defaultRequestTimeout = 10 * time.Second
)

// PortRPC is the logical name of the JSON-RPC port in a ServerConfig
// ports map.  Every client must have this entry; other entries ("p2p",
// "electrum", ...) are only used by the reachability wait helpers.
const PortRPC = "rpc"

// ServerConfig describes how to reach a daemon's RPC endpoints.  It is a
// value object: construct it once per daemon instance with NewServerConfig
// and do not mutate it afterwards.
type ServerConfig struct {
	// Host is the address the daemon listens on, without a port.
	Host string

	// Ports maps a logical port name, e.g. "rpc" or "p2p", to the port
	// number the daemon was told to bind.  Lookups of missing entries are
	// configuration errors, never silent defaults.
	Ports map[string]uint16

	// User and Pass hold the HTTP basic auth credentials.  Either both
	// are set or neither is; NewServerConfig rejects a lone half.
	User string
	Pass string

	// JSONRPCVersion is the protocol tag for the request envelope,
	// "1.0" or "2.0".
	JSONRPCVersion string

	// Timeout bounds each HTTP round trip.
	Timeout time.Duration
}

// NewServerConfig validates the passed configuration and fills in the
// version and timeout defaults.  The ports map is copied so later changes
// by the caller cannot leak into the client.
func NewServerConfig(cfg ServerConfig) (ServerConfig, error) {
	if cfg.Host == "" {
		return ServerConfig{}, configError("host must not be empty")
	}
	if len(cfg.Ports) == 0 {
		return ServerConfig{}, configError("ports map must not be empty")
	}
	if (cfg.User == "") != (cfg.Pass == "") {
		return ServerConfig{}, configError("user and password must be " +
			"set together or not at all")
	}
	if cfg.JSONRPCVersion == "" {
		cfg.JSONRPCVersion = defaultJSONRPCVersion
	}
	if cfg.JSONRPCVersion != "1.0" && cfg.JSONRPCVersion != "2.0" {
		return ServerConfig{}, configError("unknown jsonrpc version %q",
			cfg.JSONRPCVersion)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultRequestTimeout
	}

	ports := make(map[string]uint16, len(cfg.Ports))
	for name, port := range cfg.Ports {
		ports[name] = port
	}
	cfg.Ports = ports

	return cfg, nil
}

// Port resolves a logical port name from the configuration.
func (cfg *ServerConfig) Port(name string) (uint16, error) {
	port, ok := cfg.Ports[name]
	if !ok {
		return 0, configError("no %q port configured for %s", name,
			cfg.Host)
	}
	return port, nil
}

// authConfigured reports whether basic auth credentials were provided.
func (cfg *ServerConfig) authConfigured() bool {
	return cfg.User != "" && cfg.Pass != ""
}
