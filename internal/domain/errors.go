package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest marks malformed caller input. It is a local precondition
// failure: nothing was written and the caller should not retry unchanged.
var ErrInvalidRequest = errors.New("invalid request")

// SchemaMismatchError reports that none of the expected columns exist in a
// warehouse table, which indicates upstream schema drift rather than a bug here.
type SchemaMismatchError struct {
	Table      string
	Candidates []string
	Available  []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("no recognized column in %s (tried %s; table has %s)",
		e.Table, strings.Join(e.Candidates, ", "), strings.Join(e.Available, ", "))
}

// LedgerWriteError reports a failed durable insert into the pending-actions
// ledger. It is surfaced verbatim and never retried by the gate itself.
type LedgerWriteError struct {
	Table string
	Err   error
}

func (e *LedgerWriteError) Error() string {
	return fmt.Sprintf("ledger write to %s failed: %v", e.Table, e.Err)
}

func (e *LedgerWriteError) Unwrap() error { return e.Err }

// QueryError reports a failed warehouse read.
type QueryError struct {
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query against %s failed: %v", e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
