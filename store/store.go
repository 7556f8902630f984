//go:generate mockgen -package mocks -destination mocks/store.go -source=store.go
// Package store defines the tabular store contract used to load the star schema, with SQL, HTTP table
// and in-memory implementations.
package store

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/relloyd/hotelpipe/stream"
)

// Upserter inserts rows, updating the existing row when the conflict keys match.
type Upserter interface {
	Upsert(ctx context.Context, table string, rows []stream.Record, conflictKeys []string) error
}

// BatchInserter appends rows. A failed call writes none of its rows.
type BatchInserter interface {
	InsertBatch(ctx context.Context, table string, rows []stream.Record) error
}

// Selector reads every row of a table, returning the requested columns in order.
type Selector interface {
	Select(ctx context.Context, table string, columns []string) ([]stream.Record, error)
}

type Store interface {
	Upserter
	BatchInserter
	Selector
	Close() error
}

// Truncater removes every row from a table.
type Truncater interface {
	Truncate(ctx context.Context, table string) error
}

// BatchWriteFailure reports that a write call failed for its rows. Batch is set by callers that number batches.
type BatchWriteFailure struct {
	Table string
	Batch int
	Rows  int
	Err   error
}

func (e *BatchWriteFailure) Error() string {
	if e.Batch > 0 {
		return fmt.Sprintf("write of batch %d (%d rows) to %v failed: %v", e.Batch, e.Rows, e.Table, e.Err)
	}
	return fmt.Sprintf("write of %d rows to %v failed: %v", e.Rows, e.Table, e.Err)
}

func (e *BatchWriteFailure) Unwrap() error {
	return e.Err
}

// ConnectionError reports that the store could not be reached.
type ConnectionError struct {
	Op     string
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store unreachable during %v of %v: %v", e.Op, e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

func IsBatchWriteFailure(err error) bool {
	var bf *BatchWriteFailure
	return errors.As(err, &bf)
}

// conflictSplit returns the record fields that are not conflict keys, checking every key is present.
func conflictSplit(fields []string, conflictKeys []string) ([]string, error) {
	keys := make(map[string]struct{}, len(conflictKeys))
	for _, k := range conflictKeys {
		keys[k] = struct{}{}
	}
	present := make(map[string]struct{}, len(fields))
	other := make([]string, 0, len(fields))
	for _, f := range fields {
		present[f] = struct{}{}
		if _, ok := keys[f]; !ok {
			other = append(other, f)
		}
	}
	for _, k := range conflictKeys {
		if _, ok := present[k]; !ok {
			return nil, fmt.Errorf("conflict key %q is not a field of the rows supplied", k)
		}
	}
	return other, nil
}
