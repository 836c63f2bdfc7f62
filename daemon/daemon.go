// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package daemon

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// state tracks the daemon lifecycle.  There is no transition back out of
// stateStopped or stateKilled; a finished daemon is created anew.
type state uint8

const (
	stateConfigured state = iota
	stateRunning
	stateStopped
	stateKilled
)

// Daemon owns the lifecycle of one external node process.  It validates the
// argument list up front, spawns the executable and hands the process handle
// to the caller.  Graceful shutdown always happens through the JSON-RPC stop
// method so the daemon can close its connections and flush its state; Kill
// exists only as an escape hatch for cleanup after a failed test.
type Daemon struct {
	kind     Kind
	target   string
	settings []string

	stdout io.Writer
	stderr io.Writer

	cmd   *exec.Cmd
	state state
}

// New creates a daemon wrapper for the given kind with its executable under
// targetDir.  The directory must exist at this point; the executable itself
// is only resolved by Start.
func New(kind Kind, targetDir string) (*Daemon, error) {
	if _, ok := kindNames[kind]; !ok {
		return nil, configError("unknown daemon kind %d", kind)
	}
	if _, err := os.Stat(targetDir); err != nil {
		return nil, configError("target path %s does not exist",
			targetDir)
	}

	return &Daemon{
		kind:   kind,
		target: targetDir,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}, nil
}

// Kind returns the daemon kind.
func (d *Daemon) Kind() Kind {
	return d.kind
}

// Target returns the directory the executable is resolved under.
func (d *Daemon) Target() string {
	return d.target
}

// Settings returns the accumulated, validated argument tokens.
func (d *Daemon) Settings() []string {
	settings := make([]string, len(d.settings))
	copy(settings, d.settings)
	return settings
}

// SetOutput redirects the daemon's stdout and stderr.  Only legal before
// Start.
func (d *Daemon) SetOutput(stdout, stderr io.Writer) error {
	if d.state != stateConfigured {
		return ErrAlreadyStarted
	}
	d.stdout = stdout
	d.stderr = stderr
	return nil
}

// AddSettings validates and appends CLI argument tokens.  Each token is
// split on "=", or on whitespace when it has no "=", to obtain the flag
// name, which must appear in the kind's allow-list.  Unrecognized flags are
// rejected here, not deferred to Start, so a bad test configuration fails
// before any process is spawned.
func (d *Daemon) AddSettings(settings ...string) error {
	valid := d.kind.validArgs()
	for _, setting := range settings {
		var tokens []string
		if strings.Contains(setting, "=") {
			tokens = strings.SplitN(setting, "=", 2)
		} else {
			tokens = strings.Fields(setting)
		}
		if len(tokens) == 0 {
			return &ValidationError{Kind: d.kind, Setting: setting}
		}
		if _, ok := valid[tokens[0]]; !ok {
			return &ValidationError{Kind: d.kind, Setting: setting}
		}
		// "--flag=value" stays one argv token, "--flag value" becomes
		// two.
		if strings.Contains(setting, "=") {
			d.settings = append(d.settings, setting)
		} else {
			d.settings = append(d.settings, tokens...)
		}
	}
	return nil
}

// CommandLine returns the full command line the daemon is, or would be,
// started with: executable path, fixed base flags, then validated settings.
func (d *Daemon) CommandLine() []string {
	exe := filepath.Join(d.target, d.kind.String())
	args := append([]string{exe}, d.kind.baseArgs()...)
	return append(args, d.settings...)
}

// Start resolves the executable under target, assembles the command line as
// executable + fixed per-kind base flags + accumulated settings, and spawns
// the process.  It does not wait for the daemon to become ready: readiness
// is the RPC client's business via its wait helpers.
func (d *Daemon) Start() error {
	if d.state != stateConfigured {
		return ErrAlreadyStarted
	}

	exe := filepath.Join(d.target, d.kind.String())
	if _, err := os.Stat(exe); err != nil {
		return configError("daemon executable %s does not exist", exe)
	}

	args := append(d.kind.baseArgs(), d.settings...)
	cmd := exec.Command(exe, args...)
	cmd.Stdout = d.stdout
	cmd.Stderr = d.stderr

	log.Infof("starting node %s: %s %s", d.kind, exe,
		strings.Join(args, " "))

	if err := cmd.Start(); err != nil {
		return err
	}
	d.cmd = cmd
	d.state = stateRunning
	return nil
}

// Process returns the OS process handle of the running daemon.  Accessing
// it before Start is a configuration error.
func (d *Daemon) Process() (*os.Process, error) {
	if d.cmd == nil || d.cmd.Process == nil {
		return nil, ErrNotStarted
	}
	return d.cmd.Process, nil
}

// Running reports whether the daemon process has been spawned and not yet
// reaped.
func (d *Daemon) Running() bool {
	return d.state == stateRunning
}

// Wait blocks until the daemon process exits and reaps it.  Callers request
// the exit itself beforehand through the RPC stop method.
func (d *Daemon) Wait() error {
	if d.cmd == nil || d.cmd.Process == nil {
		return ErrNotStarted
	}
	err := d.cmd.Wait()
	if d.state == stateRunning {
		d.state = stateStopped
	}
	return err
}

// Kill forcibly terminates the daemon process.  This is the escape hatch
// for cleanup when the RPC stop path failed, never the normal shutdown.
func (d *Daemon) Kill() error {
	if d.cmd == nil || d.cmd.Process == nil {
		return ErrNotStarted
	}
	if err := d.cmd.Process.Kill(); err != nil {
		return err
	}
	d.state = stateKilled
	// Reap the killed process so it does not linger as a zombie.
	d.cmd.Wait()
	return nil
}
