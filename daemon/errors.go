// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package daemon

import (
	"errors"
	"fmt"
)

var (
	// ErrNotStarted is returned when the process handle is requested
	// before Start has spawned the daemon.
	ErrNotStarted = errors.New("daemon process not started")

	// ErrAlreadyStarted is returned by operations that are only legal
	// before the daemon process exists.
	ErrAlreadyStarted = errors.New("daemon process already started")
)

// ConfigError describes an invalid daemon configuration, such as a target
// directory that does not exist or an unknown daemon kind.  These fail fast
// and are never retried.
type ConfigError struct {
	Desc string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "daemon config: " + e.Desc
}

func configError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Desc: fmt.Sprintf(format, args...)}
}

// ValidationError is returned when a setting is rejected because its flag
// is not in the daemon kind's allow-list.  It is raised at the point the
// setting is added, before any process is spawned.
type ValidationError struct {
	Kind    Kind
	Setting string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s setting %q", e.Kind, e.Setting)
}
