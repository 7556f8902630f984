package actions

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/extract"
	"github.com/relloyd/hotelpipe/file"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/pipeline"
	"github.com/relloyd/hotelpipe/store"
)

type LoadConfig struct {
	Connections               ConnectionLoader `errorTxt:"connections" mandatory:"yes"`
	Source                    string           `errorTxt:"source extract" mandatory:"yes"`
	Target                    ConnectionObject
	LogLevel                  string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic          bool
	BatchSize                 int
	SampleSize                int
	SqlTxtBatchNumRows        int
	RerunPolicy               string
	Filter                    string
	S3Region                  string
	RejectsDir                string
	RejectsMaxRows            int
	RejectsGzip               bool
	RecordRun                 bool
	StatsDumpFrequencySeconds int
	Output                    string
	Out                       io.Writer
}

// RunLoad runs one pipeline from the source extract into the target connection and prints the summary.
// It returns an error when the run failed.
func RunLoad(cfg *LoadConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if _, err := resolveOutputFormat(cfg.Output, outputOrStdout(cfg.Out)); err != nil {
		return err
	}
	log := logger.NewLogger(constants.ServiceName, cfg.LogLevel, cfg.StackDumpOnPanic)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	s, err := openTarget(log, cfg.Connections, &cfg.Target, store.OpenOptions{TxtBatchNumRows: cfg.SqlTxtBatchNumRows})
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn("error closing target ", cfg.Target.GetConnectionName(), ": ", err)
		}
	}()
	ex, err := extract.NewExtractor(extract.Config{
		Log:      log,
		Source:   cfg.Source,
		Filter:   cfg.Filter,
		S3Region: cfg.S3Region,
	})
	if err != nil {
		return err
	}
	pcfg := pipeline.Config{
		Log:                log,
		Store:              s,
		Extractor:          ex,
		BatchSize:          cfg.BatchSize,
		SampleSize:         cfg.SampleSize,
		RerunPolicy:        cfg.RerunPolicy,
		RecordRun:          cfg.RecordRun,
		StatsDumpFrequency: time.Duration(cfg.StatsDumpFrequencySeconds) * time.Second,
	}
	if cfg.RejectsDir != "" {
		rw, err := file.NewRejectsWriter(log, cfg.RejectsDir, constants.RejectsFilePrefix, cfg.RejectsMaxRows, cfg.RejectsGzip)
		if err != nil {
			return err
		}
		pcfg.Rejects = rw
	}
	p, err := pipeline.NewPipeline(pcfg)
	if err != nil {
		return err
	}
	summary, runErr := p.Run(ctx)
	if err = writeOutput(cfg.Out, summary, cfg.Output); err != nil {
		log.Error("unable to print the run summary: ", err)
	}
	if runErr != nil {
		return fmt.Errorf("run %v failed: %w", summary.RunID, runErr)
	}
	return nil
}

// openTarget loads the connection named by target and opens its store.
func openTarget(log logger.Logger, conns ConnectionLoader, target *ConnectionObject, opts store.OpenOptions) (store.Store, error) {
	name := target.GetConnectionName()
	if name == "" {
		return nil, fmt.Errorf("please supply a target <connection>[.<schema>]")
	}
	d, err := conns.LoadConnection(name)
	if err != nil {
		return nil, err
	}
	if !IsSupportedConnectionType(d.Type) {
		return nil, fmt.Errorf("unsupported connection type %q for connection %v, please use one of these: %v", d.Type, name, GetSupportedConnectionTypes())
	}
	opts.Schema = target.GetSchema()
	return store.Open(log, d, opts)
}
