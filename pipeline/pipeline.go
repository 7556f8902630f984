// Package pipeline runs the booking load end to end: extract, build and upsert the dimensions,
// read back the key mappings, assemble and insert the facts, then record the run.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/dimension"
	"github.com/relloyd/hotelpipe/extract"
	"github.com/relloyd/hotelpipe/fact"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/keymap"
	"github.com/relloyd/hotelpipe/load"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/stats"
	"github.com/relloyd/hotelpipe/store"
	"github.com/relloyd/hotelpipe/stream"
)

// Stage names.
const (
	StageExtract    = "extract"
	StageDimensions = "build-dimensions"
	StageUpsert     = "upsert-dimensions"
	StageMappings   = "read-mappings"
	StageAssemble   = "assemble-facts"
	StageRerun      = "rerun-policy"
	StageInsert     = "insert-facts"
)

const recordRunTimeout = 30 * time.Second

type Extractor interface {
	Extract(ctx context.Context) (*extract.Result, error)
}

type RejectsWriter interface {
	WriteRejections(rejections []fact.Rejection) error
	Files() []string
	Close() error
}

type Config struct {
	Log         logger.Logger `errorTxt:"logger" mandatory:"yes"`
	Store       store.Store   `errorTxt:"target store" mandatory:"yes"`
	Extractor   Extractor     `errorTxt:"extractor" mandatory:"yes"`
	BatchSize   int           // fact and dimension rows per store call
	SampleSize  int           // mismatch samples per dimension
	RerunPolicy string        // reload (default) or append
	Rejects     RejectsWriter // optional
	RecordRun   bool          // write a row to etl_runs
	// StatsDumpFrequency logs stage stats while the run is in progress. Zero disables it.
	StatsDumpFrequency time.Duration
}

// ValidateRerunPolicy returns the policy to use, defaulting to reload.
func ValidateRerunPolicy(p string) (string, error) {
	switch p {
	case "":
		return c.RerunPolicyReload, nil
	case c.RerunPolicyReload, c.RerunPolicyAppend:
		return p, nil
	}
	return "", fmt.Errorf("unsupported rerun policy %q: use %v or %v", p, c.RerunPolicyReload, c.RerunPolicyAppend)
}

type Pipeline struct {
	cfg Config
}

func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return nil, err
	}
	var err error
	if cfg.RerunPolicy, err = ValidateRerunPolicy(cfg.RerunPolicy); err != nil {
		return nil, err
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = c.FactBatchSizeDefault
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = c.MismatchSampleSizeDefault
	}
	return &Pipeline{cfg: cfg}, nil
}

// run carries the state of one Run call.
type run struct {
	cfg     Config
	log     logger.Logger
	summary *Summary
	stats   *stats.RunStats
}

// stage runs fn under a StageWatcher.
func (r *run) stage(name string, fn func(w *stats.StageWatcher) error) error {
	w := r.stats.AddStageWatcher(name)
	w.Start()
	r.log.Info("starting stage ", name)
	err := fn(w)
	w.Stop(err)
	return err
}

// Run executes the stages strictly in order. The returned Summary is never nil; the error is set
// only when the run failed, in which case Summary.Status is failed.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	runID := xid.New().String()
	r := &run{
		cfg: p.cfg,
		log: p.cfg.Log.WithField("runId", runID),
		summary: &Summary{
			RunID:       runID,
			RerunPolicy: p.cfg.RerunPolicy,
			StartedAt:   time.Now().UTC(),
			Dimensions:  map[string]int{},
			Mapped:      map[string]int{},
		},
	}
	r.stats = stats.NewRunStats(r.log, stats.SetStatsDumpFrequency(p.cfg.StatsDumpFrequency))
	r.stats.StartDumping()
	err := r.execute(ctx)
	r.stats.StopDumping()
	r.summary.Stages = r.stats.GetStats()
	r.summary.FinishedAt = time.Now().UTC()
	switch {
	case err != nil:
		r.summary.Status = c.RunStatusFailed
		r.summary.Error = err.Error()
		r.log.Error("run failed: ", err)
	case r.summary.FailedBatches > 0:
		r.summary.Status = c.RunStatusCompletedWithError
		r.log.Warn("run completed with ", r.summary.FailedBatches, " failed batches")
	default:
		r.summary.Status = c.RunStatusCompleted
		r.log.Info("run completed")
	}
	if p.cfg.RecordRun {
		r.recordRun()
	}
	return r.summary, err
}

func (r *run) execute(ctx context.Context) error {
	var truncater store.Truncater
	if r.cfg.RerunPolicy == c.RerunPolicyReload {
		var ok bool
		if truncater, ok = r.cfg.Store.(store.Truncater); !ok {
			return fmt.Errorf("rerun policy %v needs a store that can truncate %v", c.RerunPolicyReload, c.TableFacts)
		}
	}
	var extracted *extract.Result
	err := r.stage(StageExtract, func(w *stats.StageWatcher) (err error) {
		if extracted, err = r.cfg.Extractor.Extract(ctx); err != nil {
			return err
		}
		w.AddRowsIn(extracted.RowsRead)
		w.AddRowsOut(len(extracted.Rows))
		r.summary.RowsRead = extracted.RowsRead
		r.summary.Duplicates = extracted.Duplicates
		r.summary.Filtered = extracted.Filtered
		r.summary.Canonical = len(extracted.Rows)
		return nil
	})
	if err != nil {
		return err
	}
	var dims *dimension.Set
	_ = r.stage(StageDimensions, func(w *stats.StageWatcher) error {
		dims = dimension.Build(extracted.Rows)
		w.AddRowsIn(len(extracted.Rows))
		r.summary.Dimensions = dims.Counts()
		for _, n := range r.summary.Dimensions {
			w.AddRowsOut(n)
		}
		return nil
	})
	loader := load.NewLoader(r.log, r.cfg.Store, r.cfg.BatchSize)
	err = r.stage(StageUpsert, func(w *stats.StageWatcher) error {
		for _, n := range r.summary.Dimensions {
			w.AddRowsIn(n)
		}
		return loader.UpsertDimensions(ctx, dims)
	})
	if err != nil {
		return err
	}
	var mappings *keymap.Mappings
	err = r.stage(StageMappings, func(w *stats.StageWatcher) (err error) {
		if mappings, err = keymap.BuildAll(ctx, r.log, r.cfg.Store); err != nil {
			return err
		}
		r.summary.Mapped = mappings.Counts()
		for _, n := range r.summary.Mapped {
			w.AddRowsOut(n)
		}
		return nil
	})
	if err != nil {
		return err
	}
	var assembled *fact.Result
	_ = r.stage(StageAssemble, func(w *stats.StageWatcher) error {
		assembled = fact.NewAssembler(r.log, mappings, r.cfg.SampleSize, r.summary.RunID).Assemble(extracted.Rows)
		w.AddRowsIn(len(extracted.Rows))
		w.AddRowsOut(len(assembled.Facts))
		r.summary.FactsPrepared = len(assembled.Facts)
		r.summary.Rejected = len(assembled.Rejected)
		r.summary.Mismatches = assembled.Report
		return nil
	})
	r.writeRejects(assembled.Rejected)
	if truncater != nil {
		err = r.stage(StageRerun, func(w *stats.StageWatcher) error {
			if err := truncater.Truncate(ctx, c.TableFacts); err != nil {
				return errors.Wrapf(err, "unable to clear %v before reload", c.TableFacts)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return r.stage(StageInsert, func(w *stats.StageWatcher) error {
		w.AddRowsIn(len(assembled.Facts))
		report := loader.InsertFacts(ctx, assembled.Facts)
		w.AddRowsOut(report.RowsInserted)
		r.summary.FactsInserted = report.RowsInserted
		r.summary.Batches = report.Batches
		r.summary.FailedBatches = report.Failed
		r.summary.FactLoadStatus = report.Status()
		switch {
		case report.Cancelled != nil:
			return report.Cancelled
		case report.Status() == load.StatusFailed:
			return errors.Wrapf(report.Failures[0], "all %d fact batches failed; first failure", report.Failed)
		}
		return nil
	})
}

// writeRejects saves rejected rows when a writer is configured. Failures are logged only.
func (r *run) writeRejects(rejections []fact.Rejection) {
	if r.cfg.Rejects == nil || len(rejections) == 0 {
		return
	}
	if err := r.cfg.Rejects.WriteRejections(rejections); err != nil {
		r.log.Error("unable to write rejected rows: ", err)
	}
	if err := r.cfg.Rejects.Close(); err != nil {
		r.log.Error("unable to close rejects output: ", err)
	}
	r.summary.RejectsFiles = r.cfg.Rejects.Files()
}

// recordRun writes the summary to the run log table. Failures are logged only.
// It does not use the run's context so that an interrupted run is still recorded.
func (r *run) recordRun() {
	ctx, cancel := context.WithTimeout(context.Background(), recordRunTimeout)
	defer cancel()
	s := r.summary
	payload, err := json.Marshal(s)
	if err != nil {
		r.log.Error("unable to encode the run summary: ", err)
		return
	}
	rec, _ := stream.NewRecordFromValues(
		[]string{c.ColRunId, c.ColRunStatus, c.ColRunStartedAt, c.ColRunFinishedAt, c.ColRunRowsRead,
			c.ColRunFactsInserted, c.ColRunFailedBatches, c.ColRunSummary},
		[]interface{}{s.RunID, s.Status, s.StartedAt, s.FinishedAt, s.RowsRead,
			s.FactsInserted, s.FailedBatches, string(payload)},
	)
	if err = r.cfg.Store.InsertBatch(ctx, c.TableRuns, []stream.Record{rec}); err != nil {
		r.log.Error("unable to record run ", s.RunID, " in ", c.TableRuns, ": ", err)
	}
}
