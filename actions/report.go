package actions

import (
	"context"
	"fmt"
	"io"

	"github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/report"
	"github.com/relloyd/hotelpipe/store"
)

type ReportConfig struct {
	Connections      ConnectionLoader `errorTxt:"connections" mandatory:"yes"`
	Target           ConnectionObject
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic bool
	Filter           report.Filter
	PrintHeader      bool
	Out              io.Writer
}

// RunReport prints the monthly booking summary as CSV lines.
func RunReport(cfg *ReportConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	log := logger.NewLogger(constants.ServiceName, cfg.LogLevel, cfg.StackDumpOnPanic)
	s, err := openTarget(log, cfg.Connections, &cfg.Target, store.OpenOptions{})
	if err != nil {
		return err
	}
	defer s.Close()
	months, err := report.MonthlyBookings(context.Background(), s, cfg.Filter)
	if err != nil {
		return err
	}
	out := outputOrStdout(cfg.Out)
	if cfg.PrintHeader {
		fmt.Fprintln(out, report.CSVHeader)
	}
	for _, m := range months {
		fmt.Fprintln(out, m.CSVLine())
	}
	return nil
}
