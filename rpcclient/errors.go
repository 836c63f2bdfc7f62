// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrWaitTimeout is returned when a connection wait loop exceeds its
	// deadline before the target port reaches the desired state.
	ErrWaitTimeout = errors.New("wait deadline exceeded")

	// ErrWaitCancelled is returned when the caller's context is cancelled
	// while a connection wait loop is in flight.
	ErrWaitCancelled = errors.New("wait cancelled")

	// ErrInvalidAddress is returned by AddNode when the peer address is
	// not a valid ip[:port] literal.
	ErrInvalidAddress = errors.New("invalid ip[:port] format")
)

// ConfigError describes an invalid or incomplete server configuration,
// such as a missing logical port entry.  Configuration errors are never
// retried.
type ConfigError struct {
	Desc string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "rpc config: " + e.Desc
}

// configError creates a ConfigError with the given format.
func configError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Desc: fmt.Sprintf(format, args...)}
}

// TransportError is returned when the RPC server answers with a non-200
// HTTP status.  The client never retries these itself; callers may poll
// with the wait helpers instead.
type TransportError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("unexpected http status %q from rpc server", e.Status)
}

// RPCError represents an error returned in the error field of a JSON-RPC
// response.  It carries the remote request id, the numeric error code, the
// human readable message and the optional diagnostic payload so callers can
// branch on any of them.
type RPCError struct {
	ID      string
	Code    int
	Message string
	Data    json.RawMessage
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d on request %s: %s", e.Code, e.ID,
		e.Message)
}
