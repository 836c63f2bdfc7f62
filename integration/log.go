// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build rpctest
// +build rpctest

package integration

import (
	"os"

	"github.com/btcsuite/btclog"

	"github.com/floresta-chain/florestatest/daemon"
	"github.com/floresta-chain/florestatest/electrum"
	"github.com/floresta-chain/florestatest/harness"
	"github.com/floresta-chain/florestatest/rpcclient"
)

type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	return len(p), nil
}

func init() {
	backendLog := btclog.NewBackend(logWriter{})
	testLog := backendLog.Logger("FTEST")
	testLog.SetLevel(btclog.LevelDebug)

	rpcclient.UseLogger(testLog)
	daemon.UseLogger(testLog)
	harness.UseLogger(testLog)
	electrum.UseLogger(testLog)
}
