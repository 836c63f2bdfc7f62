// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package electrum

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeElectrumServer answers every request line with a canned result,
// echoing the request id, until the connection closes.
func fakeElectrumServer(t *testing.T, result string) uint16 {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { lis.Close() })

	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				reader := bufio.NewReader(conn)
				for {
					line, err := reader.ReadBytes('\n')
					if err != nil {
						return
					}

					// Single request or batch?
					var batch []struct {
						ID int `json:"id"`
					}
					if err := json.Unmarshal(line, &batch); err == nil {
						resps := make([]string, 0, len(batch))
						for _, req := range batch {
							resps = append(resps, fmt.Sprintf(
								`{"jsonrpc":"2.0","id":%d,"result":%s}`,
								req.ID, result))
						}
						fmt.Fprintf(conn, "[%s]\n",
							strings.Join(resps, ","))
						continue
					}

					var single struct {
						ID int `json:"id"`
					}
					if err := json.Unmarshal(line, &single); err != nil {
						return
					}
					fmt.Fprintf(conn,
						`{"jsonrpc":"2.0","id":%d,"result":%s}`+"\n",
						single.ID, result)
				}
			}(conn)
		}
	}()

	return uint16(lis.Addr().(*net.TCPAddr).Port)
}

// TestRequest round-trips a single call against a fake server.
func TestRequest(t *testing.T) {
	t.Parallel()

	port := fakeElectrumServer(t, `["ElectrumX 1.16.0","1.4"]`)

	client, err := Dial("127.0.0.1", port)
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Request("server.version", "florestatest", "1.4")
	require.NoError(t, err)
	require.Equal(t, 0, resp.ID)
	require.JSONEq(t, `["ElectrumX 1.16.0","1.4"]`, string(resp.Result))

	// Ids increment per request on the same connection.
	resp, err = client.Request("server.ping")
	require.NoError(t, err)
	require.Equal(t, 1, resp.ID)
}

// TestBatchRequest round-trips a batch against the fake server.
func TestBatchRequest(t *testing.T) {
	t.Parallel()

	port := fakeElectrumServer(t, `"pong"`)

	client, err := Dial("127.0.0.1", port)
	require.NoError(t, err)
	defer client.Close()

	resps, err := client.BatchRequest([]BatchCall{
		{Method: "server.ping"},
		{Method: "server.ping"},
	})
	require.NoError(t, err)
	require.Len(t, resps, 2)
	require.Equal(t, 0, resps[0].ID)
	require.Equal(t, 1, resps[1].ID)
}

// TestDialRefused checks that dialing a closed port surfaces the connect
// error, which is what the no-SSL functional test asserts on.
func TestDialRefused(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := uint16(lis.Addr().(*net.TCPAddr).Port)
	lis.Close()

	_, err = Dial("127.0.0.1", port)
	require.Error(t, err)

	_, err = DialTLS("127.0.0.1", port)
	require.Error(t, err)
}
