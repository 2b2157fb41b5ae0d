// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/playerstats/internal/logging"
)

var (
	// ErrNotOpen matches every *NotOpenError.
	ErrNotOpen = errors.New("database is not open")

	// ErrOutcomeUnknown is returned by Handle.Wait when the caller stopped waiting
	// before the transaction finished. The transaction may still commit.
	ErrOutcomeUnknown = errors.New("transaction outcome unknown")

	// ErrReadOnly is returned when a query tries to write through a read connection.
	ErrReadOnly = errors.New("connection is read-only")

	// ErrPoolStopped is returned for transactions submitted to a stopped pool.
	ErrPoolStopped = errors.New("transaction pool stopped")
)

// NotOpenError reports an operation against a database that is not OPEN.
type NotOpenError struct {
	Name  string
	State State
}

func (e *NotOpenError) Error() string {
	return fmt.Sprintf("database %s is %s", e.Name, e.State)
}

// Is makes errors.Is(err, ErrNotOpen) true.
func (e *NotOpenError) Is(target error) bool {
	return target == ErrNotOpen
}

// BackendError wraps a driver failure with the backend and operation that produced it.
type BackendError struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// TransactionError reports the step that failed a transaction. The transaction
// has been rolled back when this error is returned.
type TransactionError struct {
	Transaction string
	Stage       string
	Err         error
}

func (e *TransactionError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("transaction %s failed: %v", e.Transaction, e.Err)
	}
	return fmt.Sprintf("transaction %s failed at stage %s: %v", e.Transaction, e.Stage, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// closeWithLog closes a resource and logs the error if closing fails.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}
