// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// florestatest drives the functional test suites: it spawns one `go test
// -tags rpctest` per suite, tees the output into a rotating log file under
// the data directory and prints a per-suite verdict.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/jrick/logrotate/rotator"

	"github.com/floresta-chain/florestatest/harness"
)

const (
	infoEmoji    = "ℹ️"
	successEmoji = "✅"
	failureEmoji = "❌"
	allDoneEmoji = "🎉"

	// logThresholdKB rotates a suite log once it passes 10 MB, keeping
	// three rolls around.
	logThresholdKB = 10 * 1024
	logMaxRolls    = 3
)

// testSuites maps each suite name to the go test run pattern selecting its
// scenarios, mirroring the directories the reference scripts lived in.
var testSuites = map[string]string{
	"floresta-cli": "^(TestGetBlockchainInfoFreshNode|TestGetBlockHash|" +
		"TestGetBlock|TestGetBlockHeader|TestGetPeerInfoFreshNode|" +
		"TestAddNode|TestGetRootsDuringIBD|TestGetRPCInfo|TestStop)$",
	"florestad": "^(TestRestart|TestSSLFail|TestSSL)$",
	"example":   "^TestIntegration$",
}

type config struct {
	DataDir    string        `short:"d" long:"data-dir" description:"Directory for the functional test logs"`
	TestSuites []string      `short:"t" long:"test-suite" description:"Test suite to run; may be given multiple times"`
	ListSuites bool          `short:"l" long:"list-suites" description:"List the available test suites and exit"`
	Timeout    time.Duration `long:"timeout" description:"Per-suite go test timeout"`
}

// suiteNames returns all known suite names, sorted for stable output.
func suiteNames() []string {
	names := make([]string, 0, len(testSuites))
	for name := range testSuites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runSuite executes one suite as a go test child process, writing its
// combined output both to the terminal and to a rotated log file under
// dataDir.  A non-nil error means the suite failed.
func runSuite(name, pattern, dataDir string, timeout time.Duration) error {
	logDir := filepath.Join(dataDir, name)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	logFile := filepath.Join(logDir, name+".log")
	logRotator, err := rotator.New(logFile, logThresholdKB, false,
		logMaxRolls)
	if err != nil {
		return fmt.Errorf("unable to open suite log %s: %w", logFile,
			err)
	}
	defer logRotator.Close()

	args := []string{
		"test", "-v",
		"-tags", "rpctest",
		"-run", pattern,
		"-timeout", timeout.String(),
		"github.com/floresta-chain/florestatest/integration",
	}
	fmt.Printf("Running 'go %s'\n", strings.Join(args, " "))
	fmt.Printf("Writing output to %s\n", logFile)

	cmd := exec.Command("go", args...)
	out := io.MultiWriter(os.Stdout, logRotator)
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

func main() {
	cfg := config{
		DataDir: harness.DefaultBaseDir(),
		Timeout: 30 * time.Minute,
	}
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
			os.Exit(1)
		}
		return
	}

	if cfg.ListSuites {
		fmt.Printf("%s Available test suites:\n", infoEmoji)
		for _, name := range suiteNames() {
			fmt.Printf("* %s\n", name)
		}
		return
	}

	suites := cfg.TestSuites
	if len(suites) == 0 {
		suites = suiteNames()
	}

	failed := false
	for _, name := range suites {
		pattern, ok := testSuites[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "suite %q not found\n", name)
			os.Exit(1)
		}

		if err := runSuite(name, pattern, cfg.DataDir,
			cfg.Timeout); err != nil {

			fmt.Printf("Suite %s not passed %s: %v\n", name,
				failureEmoji, err)
			failed = true
			continue
		}
		fmt.Printf("Suite %s passed %s\n\n", name, successEmoji)
	}

	if failed {
		os.Exit(1)
	}
	fmt.Printf("%s ALL TESTS PASSED! GOOD JOB!\n", allDoneEmoji)
}
