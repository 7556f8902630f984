package shared

import (
	om "github.com/cevaris/ordered_map"
)

func FixSqlStatementGeneratorConfig(cfg *SqlStatementGeneratorConfig) {
	if cfg.OutputTable == "" {
		cfg.Log.Fatal("Error, missing output table name.")
	}
	if cfg.OutputSchema == "" {
		cfg.SchemaSeparator = ""
		cfg.Log.Debug("No output schema supplied; setting a blank separator.")
	} else {
		cfg.SchemaSeparator = "."
	}
	if cfg.TargetKeyCols == nil {
		cfg.TargetKeyCols = om.NewOrderedMap()
	}
	if cfg.TargetOtherCols == nil {
		cfg.TargetOtherCols = om.NewOrderedMap()
	}
}
