package actions

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/rdbms"
	"github.com/relloyd/hotelpipe/rdbms/shared"
)

type SchemaConfig struct {
	Connections      ConnectionLoader `errorTxt:"connections" mandatory:"yes"`
	Target           ConnectionObject
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic bool
	ExecuteDDL       bool
	Out              io.Writer
	OpenConnector    shared.ConnectorOpener // defaults to rdbms.OpenDbConnection
}

// RunSchema prints the star schema DDL for the target database or, with ExecuteDDL, runs it there.
func RunSchema(cfg *SchemaConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	log := logger.NewLogger(constants.ServiceName, cfg.LogLevel, cfg.StackDumpOnPanic)
	d, err := cfg.Connections.LoadConnection(cfg.Target.GetConnectionName())
	if err != nil {
		return err
	}
	if !IsDatabaseConnectionType(d.Type) {
		return fmt.Errorf("schema DDL applies to database connections only, connection %v has type %q", d.LogicalName, d.Type)
	}
	stmts, err := rdbms.GetStarSchemaDDL(d.Type, cfg.Target.GetSchema())
	if err != nil {
		return err
	}
	out := outputOrStdout(cfg.Out)
	if !cfg.ExecuteDDL {
		for _, s := range stmts {
			fmt.Fprintf(out, "%v;\n\n", s)
		}
		return nil
	}
	open := cfg.OpenConnector
	if open == nil {
		open = rdbms.OpenDbConnection
	}
	db, err := open(log, d)
	if err != nil {
		return err
	}
	defer db.Close()
	for idx, s := range stmts {
		log.Debug("executing DDL: ", s)
		if _, err = db.ExecContext(context.Background(), s); err != nil {
			return errors.Wrapf(err, "DDL statement %d of %d failed", idx+1, len(stmts))
		}
	}
	fmt.Fprintf(out, "Created %d tables in %v\n", len(stmts), d.LogicalName)
	return nil
}
