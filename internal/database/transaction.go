// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"context"
	"errors"
	"fmt"
)

// Priority selects the queue a transaction waits in.
type Priority int

const (
	// NonCritical transactions (samples, counters) yield to critical ones and may be throttled.
	NonCritical Priority = iota
	// Critical transactions (registrations, backups, restores) are always dispatched first.
	Critical
)

func (p Priority) String() string {
	if p == Critical {
		return "critical"
	}
	return "non_critical"
}

// Step is one named executable of a transaction; the name identifies the
// failing stage in a TransactionError.
type Step struct {
	Name string
	Exec Executable
}

// Transaction is an ordered list of steps executed atomically: all steps run
// in one backend transaction that is committed once, or rolled back entirely
// on the first failure.
type Transaction struct {
	Name  string
	Steps []Step
}

// NewTransaction creates an empty transaction.
//
//	tx := database.NewTransaction("register-player").
//	    Then("user", queries.RegisterBaseUser(user)).
//	    Then("user_info", queries.RegisterUserInfo(info))
func NewTransaction(name string) *Transaction {
	return &Transaction{Name: name}
}

// Then appends a step and returns the transaction for chaining.
func (t *Transaction) Then(stage string, exec Executable) *Transaction {
	t.Steps = append(t.Steps, Step{Name: stage, Exec: exec})
	return t
}

// Single wraps one executable as a transaction.
func Single(name string, exec Executable) *Transaction {
	return NewTransaction(name).Then(name, exec)
}

// run executes the steps against an open *sql.Tx bound conn. It does not commit.
func (t *Transaction) run(ctx context.Context, conn *Conn) (bool, error) {
	did := false
	for _, step := range t.Steps {
		if err := ctx.Err(); err != nil {
			return did, &TransactionError{Transaction: t.Name, Stage: step.Name, Err: err}
		}
		if step.Exec == nil {
			return did, &TransactionError{Transaction: t.Name, Stage: step.Name, Err: errors.New("nil executable")}
		}
		ok, err := step.Exec.Execute(ctx, conn)
		if err != nil {
			return did, &TransactionError{Transaction: t.Name, Stage: step.Name, Err: err}
		}
		did = did || ok
	}
	return did, nil
}

// Handle tracks a submitted transaction.
type Handle struct {
	done chan struct{}
	did  bool
	err  error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// finishedHandle returns a handle that is already complete.
func finishedHandle(did bool, err error) *Handle {
	h := newHandle()
	h.finish(did, err)
	return h
}

func (h *Handle) finish(did bool, err error) {
	h.did = did
	h.err = err
	close(h.done)
}

// Done is closed when the transaction has committed or rolled back.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the transaction finishes or ctx ends. When ctx ends first
// the returned error wraps ErrOutcomeUnknown: the transaction keeps running and
// may still commit.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		select {
		case <-h.done:
			return h.err
		default:
		}
		return fmt.Errorf("%w: %w", ErrOutcomeUnknown, ctx.Err())
	}
}

// Err blocks until the transaction finishes and returns its error.
func (h *Handle) Err() error {
	<-h.done
	return h.err
}

// Did blocks until the transaction finishes and reports whether any step did work.
func (h *Handle) Did() bool {
	<-h.done
	return h.did
}
