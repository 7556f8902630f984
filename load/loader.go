// Package load writes dimension and fact rows to a store in bounded batches.
package load

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/dimension"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/model"
	"github.com/relloyd/hotelpipe/store"
	"github.com/relloyd/hotelpipe/stream"
)

// Batch report statuses.
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
	StatusFailed   = "failed"
)

type Loader struct {
	log       logger.Logger
	store     store.Store
	batchSize int
}

func NewLoader(log logger.Logger, s store.Store, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = c.FactBatchSizeDefault
	}
	return &Loader{log: log, store: s, batchSize: batchSize}
}

func (l *Loader) BatchSize() int {
	return l.batchSize
}

// chunks splits rows into slices of at most size rows.
func chunks(rows []stream.Record, size int) [][]stream.Record {
	retval := make([][]stream.Record, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		retval = append(retval, rows[start:end])
	}
	return retval
}

// UpsertDimension writes rows keyed on conflictKeys. The first failure stops the load and is returned.
func (l *Loader) UpsertDimension(ctx context.Context, table string, rows []stream.Record, conflictKeys []string) error {
	for idx, batch := range chunks(rows, l.batchSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.store.Upsert(ctx, table, batch, conflictKeys); err != nil {
			var bf *store.BatchWriteFailure
			if errors.As(err, &bf) {
				bf.Batch = idx + 1
			}
			return errors.Wrapf(err, "dimension load of %v failed", table)
		}
	}
	l.log.Info("upserted ", len(rows), " rows into ", table)
	return nil
}

// UpsertDimensions loads hotels, dates, customers and agents in that order.
func (l *Loader) UpsertDimensions(ctx context.Context, set *dimension.Set) error {
	for _, t := range set.Tables() {
		if err := l.UpsertDimension(ctx, t.Name, t.Records, t.KeyColumns); err != nil {
			return err
		}
	}
	return nil
}

// BatchReport describes the outcome of a fact load.
type BatchReport struct {
	Batches       int     `json:"batches"`
	Succeeded     int     `json:"succeeded"`
	Failed        int     `json:"failed"`
	RowsAttempted int     `json:"rowsAttempted"`
	RowsInserted  int     `json:"rowsInserted"`
	Failures      []error `json:"-"`
	// Cancelled is the context error when the load stopped before every batch was attempted.
	Cancelled     error   `json:"-"`
}

func (r *BatchReport) Status() string {
	switch {
	case r.Failed == 0:
		return StatusComplete
	case r.Succeeded == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// InsertFacts inserts facts in batches. A failed batch is logged and recorded and the remaining
// batches are still attempted. Cancelling ctx stops before the next batch and sets Cancelled.
func (l *Loader) InsertFacts(ctx context.Context, facts []model.FactBookingRow) *BatchReport {
	recs := make([]stream.Record, len(facts))
	for i, f := range facts {
		recs[i] = f.Record()
	}
	return l.InsertBatches(ctx, c.TableFacts, recs)
}

// InsertBatches inserts rows into table in batches of the loader's batch size.
func (l *Loader) InsertBatches(ctx context.Context, table string, rows []stream.Record) *BatchReport {
	batches := chunks(rows, l.batchSize)
	r := &BatchReport{Batches: len(batches), Failures: make([]error, 0)}
	for idx, batch := range batches {
		if err := ctx.Err(); err != nil {
			r.Failed += len(batches) - idx
			r.Cancelled = errors.Wrapf(err, "load into %v cancelled before batch %d of %d", table, idx+1, len(batches))
			r.Failures = append(r.Failures, r.Cancelled)
			break
		}
		r.RowsAttempted += len(batch)
		err := l.store.InsertBatch(ctx, table, batch)
		if err != nil {
			var bf *store.BatchWriteFailure
			if errors.As(err, &bf) {
				bf.Batch = idx + 1
			} else {
				err = &store.BatchWriteFailure{Table: table, Batch: idx + 1, Rows: len(batch), Err: err}
			}
			r.Failed++
			r.Failures = append(r.Failures, err)
			l.log.Error(fmt.Sprintf("batch %d of %d failed: %v", idx+1, len(batches), err))
			continue
		}
		r.Succeeded++
		r.RowsInserted += len(batch)
		l.log.Info(fmt.Sprintf("inserted batch %d of %d into %v", idx+1, len(batches), table))
	}
	return r
}
