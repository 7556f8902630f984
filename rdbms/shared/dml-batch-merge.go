package shared

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	h "github.com/relloyd/hotelpipe/helper"
)

// NewMergeGenerator returns an upsert batcher keyed on TargetKeyCols using the dialect's upsert syntax.
// Rows whose keys already exist get their other columns updated; when there are no other columns
// existing rows are left alone.
// Configure defaults in SqlStatementGeneratorConfig.
func (d *DmlGeneratorTxtBatch) NewMergeGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator {
	FixSqlStatementGeneratorConfig(cfg)
	dialect := d.dialect()
	cfg.Log.Debug("Creating new upsert generator for dialect ", dialect.Name)
	switch dialect.Upsert {
	case UpsertOnConflict, UpsertOnDuplicateKey:
		ins := d.NewInsertGenerator(cfg).(*SqlInsertTxtBatch)
		keyCols, otherCols, _ := cfg.columnLists()
		return &SqlInsertUpsertTxtBatch{SqlInsertTxtBatch: ins, suffix: upsertSuffix(dialect.Upsert, keyCols, otherCols)}
	default:
		o := &SqlMergeTxtBatch{SqlStatementGeneratorConfig: *cfg}
		o.dialect = dialect
		o.KeyCols, o.OtherCols, o.AllCols = o.columnLists()
		return o
	}
}

func upsertSuffix(style UpsertStyle, keyCols []string, otherCols []string) string {
	sets := make([]string, len(otherCols))
	if style == UpsertOnDuplicateKey {
		for i, c := range otherCols {
			sets[i] = fmt.Sprintf("%s = values(%s)", c, c)
		}
		if len(sets) == 0 && len(keyCols) > 0 { // a no-op update leaves the existing row and its id alone.
			sets = append(sets, fmt.Sprintf("%s = %s", keyCols[0], keyCols[0]))
		}
		return " on duplicate key update " + strings.Join(sets, ", ")
	}
	if len(otherCols) == 0 {
		return fmt.Sprintf(" on conflict (%s) do nothing", strings.Join(keyCols, ","))
	}
	for i, c := range otherCols {
		sets[i] = fmt.Sprintf("%s = excluded.%s", c, c)
	}
	return fmt.Sprintf(" on conflict (%s) do update set %s", strings.Join(keyCols, ","), strings.Join(sets, ", "))
}

// SqlInsertUpsertTxtBatch is a multi-row INSERT with a conflict clause.
type SqlInsertUpsertTxtBatch struct {
	*SqlInsertTxtBatch
	suffix string
}

func (o *SqlInsertUpsertTxtBatch) GetStatement() string {
	return o.SqlInsertTxtBatch.GetStatement() + o.suffix
}

// SqlMergeTxtBatch implements SqlStmtTxtBatcher for MERGE statements that select a batch of
// bind values as the source.
type SqlMergeTxtBatch struct {
	SqlStatementGeneratorConfig // mandatory to be populated.
	sqlCoreCfg
	AllCols   []string
	KeyCols   []string // list of columns extracted from SqlStatementGeneratorConfig.
	OtherCols []string
}

func (o *SqlMergeTxtBatch) getSqlTemplate() string {
	return `merge into <SCHEMA><SEPARATOR><TABLE> <TGT-ALIAS> 
using (<SELECT-VALUES>) <SRC-ALIAS> 
on (<KEY-COLS-EQUALS>) 
<WHEN-MATCHED>when not matched then insert 
(<ALL-COLS>) 
values (<SRC-COLS>)<TERMINATOR>`
}

func (o *SqlMergeTxtBatch) InitBatch(batchSize int) {
	o.batchSize = batchSize
	o.rowsInBatch = 0
	o.sqlValues = make([]interface{}, 0, o.batchSize*len(o.AllCols)) // many values per row in a batch.
	o.Log.Debug("MERGE keyCols = ", o.KeyCols, "; otherCols = ", o.OtherCols, "; batchSize = ", o.batchSize)
}

// AddValuesToBatch expects the key column values followed by the other column values.
func (o *SqlMergeTxtBatch) AddValuesToBatch(values []interface{}) (batchIsFull bool, err error) {
	if o.rowsInBatch >= o.batchSize {
		err = errors.New("no more rows allowed in MERGE batch")
		batchIsFull = true
		return
	}
	if len(values) != len(o.AllCols) {
		err = fmt.Errorf("the number of target table columns does not match the number of input values supplied. Num values = %v; num all columns = %v", len(values), len(o.AllCols))
		return
	}
	o.sqlValues = append(o.sqlValues, values...)
	o.rowsInBatch++
	batchIsFull = o.rowsInBatch >= o.batchSize
	return
}

func (o *SqlMergeTxtBatch) selectValues() string {
	buf := strings.Builder{}
	valIdx := 1
	for rowIdx := 0; rowIdx < o.rowsInBatch; rowIdx++ {
		if rowIdx == 0 {
			buf.WriteString("select ")
		} else {
			buf.WriteString(strUnionAllSelect)
		}
		for idx, col := range o.AllCols {
			if idx > 0 {
				buf.WriteString(",")
			}
			buf.WriteString(o.dialect.BindVar(valIdx))
			if rowIdx == 0 {
				buf.WriteString(" as " + col)
			}
			valIdx++
		}
	}
	return buf.String()
}

func (o *SqlMergeTxtBatch) GetStatement() string {
	if o.sqlStmt != "" && o.previousNumRowsInBatch == o.rowsInBatch {
		return o.sqlStmt
	}
	srcAlias := "S"
	tgtAlias := "T"
	whenMatched := ""
	if len(o.OtherCols) > 0 {
		whenMatched = "when matched then update set \n" + h.GenerateStringOfColsEqualsCols(o.OtherCols, tgtAlias, srcAlias, ",") + " \n"
	}
	o.sqlStmt = o.getSqlTemplate()
	o.sqlStmt = strings.Replace(o.sqlStmt, "<SCHEMA>", o.OutputSchema, -1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<SEPARATOR>", o.SchemaSeparator, -1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<TABLE>", o.OutputTable, -1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<SRC-ALIAS>", srcAlias, -1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<TGT-ALIAS>", tgtAlias, -1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<SELECT-VALUES>", o.selectValues(), 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<KEY-COLS-EQUALS>", h.GenerateStringOfColsEqualsCols(o.KeyCols, tgtAlias, srcAlias, " and "), 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<WHEN-MATCHED>", whenMatched, 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<ALL-COLS>", strings.Join(o.AllCols, ","), -1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<SRC-COLS>", srcAlias+"."+strings.Join(o.AllCols, ","+srcAlias+"."), -1) // aim to make: "S.col1,S.col2,S.col3..."
	o.sqlStmt = strings.Replace(o.sqlStmt, "<TERMINATOR>", o.dialect.MergeTerminator, 1)
	o.previousNumRowsInBatch = o.rowsInBatch
	o.Log.Debug("SQL Merge Generator returning SQL: ", o.sqlStmt)
	return o.sqlStmt
}

func (o *SqlMergeTxtBatch) GetValues() []interface{} {
	return o.sqlValues
}
