// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
)

// requestEnvelope is the wire form of an outgoing JSON-RPC request.  The id
// is fixed: the harness never has more than one request in flight per
// client, so there is nothing to correlate.
type requestEnvelope struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// responseEnvelope is the wire form of a JSON-RPC response.  The id is
// decoded leniently since bitcoind echoes numeric ids while floresta and
// utreexod echo strings.
type responseEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *respError      `json:"error"`
	ID     json.RawMessage `json:"id"`
}

type respError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client issues JSON-RPC requests against a configured daemon RPC server.
// Each call is an independent HTTP round trip; no connection state is held
// between calls.  A Client is intended to be driven by a single test
// goroutine at a time.
type Client struct {
	cfg        ServerConfig
	httpClient *http.Client
}

// New creates a client for the passed server configuration.  The
// configuration is validated via NewServerConfig, so callers may hand in a
// plain struct literal.
func New(cfg ServerConfig) (*Client, error) {
	validated, err := NewServerConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:        validated,
		httpClient: &http.Client{Timeout: validated.Timeout},
	}, nil
}

// Config returns the server configuration the client was built with.  The
// ports map is copied so callers cannot mutate the client's own view.
func (c *Client) Config() ServerConfig {
	cfg := c.cfg
	ports := make(map[string]uint16, len(cfg.Ports))
	for name, port := range cfg.Ports {
		ports[name] = port
	}
	cfg.Ports = ports
	return cfg
}

// rpcURL builds the POST target from the configured host and the "rpc"
// logical port.
func (c *Client) rpcURL() (string, error) {
	port, err := c.cfg.Port(PortRPC)
	if err != nil {
		return "", err
	}
	hostport := net.JoinHostPort(c.cfg.Host, strconv.Itoa(int(port)))
	return "http://" + hostport + "/", nil
}

// PerformRequest performs a single JSON-RPC call and returns the raw result
// payload.  The caller knows the expected shape per method; the typed
// wrappers in methods.go decode it.
//
// A non-200 HTTP status maps to *TransportError and a non-null error field
// in the response body maps to *RPCError.  Neither is retried here.
func (c *Client) PerformRequest(method string,
	params ...interface{}) (json.RawMessage, error) {

	if method == "" {
		return nil, configError("rpc method must not be empty")
	}
	if params == nil {
		params = []interface{}{}
	}

	url, err := c.rpcURL()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(&requestEnvelope{
		JSONRPC: c.cfg.JSONRPCVersion,
		ID:      "0",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to marshal request for %s: %w",
			method, err)
	}

	req, err := http.NewRequest(http.MethodPost, url,
		bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.authConfigured() {
		req.SetBasicAuth(c.cfg.User, c.cfg.Pass)
	}

	log.Debugf("POST %s%s params=%v", url, method, params)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc request %s failed: %w", method, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, &TransportError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
		}
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response for %s: %w",
			method, err)
	}

	var resp responseEnvelope
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unable to unmarshal response for %s: %w",
			method, err)
	}

	if resp.Error != nil {
		return nil, &RPCError{
			ID:      decodeID(resp.ID),
			Code:    resp.Error.Code,
			Message: resp.Error.Message,
			Data:    resp.Error.Data,
		}
	}

	log.Debugf("result for %s: %s", method, resp.Result)
	return resp.Result, nil
}

// decodeID normalizes the echoed request id to a string.
func decodeID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
