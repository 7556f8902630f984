package shared

import (
	om "github.com/cevaris/ordered_map"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/logger"
)

const strUnionAllSelect string = "\n\t\tunion all select " // deliberate trailing space.

// DmlGeneratorTxtBatch produces text batchers whose bind variables and upsert syntax follow Dialect.
type DmlGeneratorTxtBatch struct {
	Dialect *Dialect
}

type SqlStatementGeneratorConfig struct {
	Log             logger.Logger
	OutputSchema    string
	SchemaSeparator string
	OutputTable     string
	TargetKeyCols   *om.OrderedMap // ordered map of: key = record field name; value = target table column name
	TargetOtherCols *om.OrderedMap // ordered map of: key = record field name; value = target table column name
}

type sqlCoreCfg struct {
	dialect                *Dialect
	sqlStmt                string
	sqlStmtTemplate        string
	sqlValues              []interface{} // slice to hold data values for all rows in batch
	batchSize              int
	rowsInBatch            int
	previousNumRowsInBatch int
}

// columnLists returns the key columns, the other columns and both together.
func (cfg *SqlStatementGeneratorConfig) columnLists() (keyCols []string, otherCols []string, allCols []string) {
	keyCols = helper.OrderedMapValuesToStringSlice(cfg.TargetKeyCols)
	otherCols = helper.OrderedMapValuesToStringSlice(cfg.TargetOtherCols)
	allCols = make([]string, 0, len(keyCols)+len(otherCols))
	allCols = append(allCols, keyCols...)
	allCols = append(allCols, otherCols...)
	return
}

func (d *DmlGeneratorTxtBatch) dialect() *Dialect {
	if d.Dialect == nil {
		return &Dialect{Bind: BindQuestion, Upsert: UpsertMerge}
	}
	return d.Dialect
}
