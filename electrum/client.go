// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package electrum implements the minimal slice of the electrum protocol
// the functional tests rely on: newline-delimited JSON-RPC 2.0 requests over
// a TCP or TLS stream against florestad's electrum server.
package electrum

import (
	"bufio"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"
)

// dialTimeout bounds the TCP/TLS connection attempt.  Tests probing a
// closed port rely on this failing quickly.
const dialTimeout = 5 * time.Second

// Response is a decoded electrum JSON-RPC response line.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   json.RawMessage `json:"error"`
}

// Client is a line-oriented JSON-RPC client holding one open stream to an
// electrum server.  Unlike the HTTP RPC client it is connection-ful: the
// electrum protocol multiplexes requests over a single socket.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	nextID int
}

// Dial opens a plaintext connection to the electrum server at host:port.
func Dial(host string, port uint16) (*Client, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, err
	}
	return newClient(conn), nil
}

// DialTLS opens a TLS connection to the electrum server at host:port.  The
// server certificate is not verified since the harness generates
// self-signed certificates.
func DialTLS(host string, port uint16) (*Client, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return nil, err
	}
	return newClient(conn), nil
}

func newClient(conn net.Conn) *Client {
	return &Client{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

// Close tears down the underlying stream.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Request sends one method call and reads one response line.
func (c *Client) Request(method string, params ...interface{}) (*Response,
	error) {

	if params == nil {
		params = []interface{}{}
	}
	id := c.nextID
	c.nextID++

	payload, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("electrum request %s params=%v", method, params)
	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		return nil, err
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("unable to read electrum response: %w",
			err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("unable to decode electrum response: %w",
			err)
	}
	return &resp, nil
}

// BatchRequest sends several calls as one JSON array and decodes the array
// of responses the server answers with.
func (c *Client) BatchRequest(calls []BatchCall) ([]Response, error) {
	batch := make([]map[string]interface{}, 0, len(calls))
	for _, call := range calls {
		params := call.Params
		if params == nil {
			params = []interface{}{}
		}
		id := c.nextID
		c.nextID++
		batch = append(batch, map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      id,
			"method":  call.Method,
			"params":  params,
		})
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}

	log.Debugf("electrum batch of %d requests", len(calls))
	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		return nil, err
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("unable to read electrum batch "+
			"response: %w", err)
	}

	var resps []Response
	if err := json.Unmarshal(line, &resps); err != nil {
		return nil, fmt.Errorf("unable to decode electrum batch "+
			"response: %w", err)
	}
	return resps, nil
}

// BatchCall is one entry of a BatchRequest.
type BatchCall struct {
	Method string
	Params []interface{}
}
