package shared

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/relloyd/hotelpipe/constants"
)

type BindStyle int

const (
	BindQuestion BindStyle = iota // ?
	BindDollar                    // $1
	BindAtP                       // @p1
	BindColon                     // :1
)

type UpsertStyle int

const (
	UpsertOnConflict     UpsertStyle = iota // insert ... on conflict (keys) do update
	UpsertOnDuplicateKey                    // insert ... on duplicate key update
	UpsertMerge                             // merge into ... using (select ...)
)

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	Name             string
	Bind             BindStyle
	Upsert           UpsertStyle
	MergeTerminator  string // SQL Server requires MERGE to end with a semi-colon.
	TruncateTemplate string // uses <SCHEMA><SEPARATOR><TABLE>
	MaxBindValues    int    // per statement
}

// BindVar returns the placeholder for the 1-based position n.
func (d *Dialect) BindVar(n int) string {
	switch d.Bind {
	case BindDollar:
		return "$" + strconv.Itoa(n)
	case BindAtP:
		return "@p" + strconv.Itoa(n)
	case BindColon:
		return ":" + strconv.Itoa(n)
	default:
		return "?"
	}
}

// MaxRowsPerStatement caps rowsWanted so that a statement binding numCols values per row stays within MaxBindValues.
func (d *Dialect) MaxRowsPerStatement(rowsWanted int, numCols int) int {
	if numCols <= 0 || d.MaxBindValues <= 0 {
		return rowsWanted
	}
	if max := d.MaxBindValues / numCols; max < rowsWanted {
		if max < 1 {
			return 1
		}
		return max
	}
	return rowsWanted
}

// TruncateStatement returns the statement that removes all rows from schema.table.
func (d *Dialect) TruncateStatement(schema string, table string) string {
	sep := "."
	if schema == "" {
		sep = ""
	}
	s := strings.Replace(d.TruncateTemplate, "<SCHEMA>", schema, 1)
	s = strings.Replace(s, "<SEPARATOR>", sep, 1)
	return strings.Replace(s, "<TABLE>", table, 1)
}

const (
	truncateTable = "truncate table <SCHEMA><SEPARATOR><TABLE>"
	deleteFrom    = "delete from <SCHEMA><SEPARATOR><TABLE>"
)

var dialects = map[string]Dialect{
	constants.ConnectionTypeMySql:         {Bind: BindQuestion, Upsert: UpsertOnDuplicateKey, TruncateTemplate: truncateTable, MaxBindValues: 65535},
	constants.ConnectionTypePostgres:      {Bind: BindDollar, Upsert: UpsertOnConflict, TruncateTemplate: truncateTable, MaxBindValues: 65535},
	constants.ConnectionTypeSqlite:        {Bind: BindQuestion, Upsert: UpsertOnConflict, TruncateTemplate: deleteFrom, MaxBindValues: 32766},
	constants.ConnectionTypeSqlServer:     {Bind: BindAtP, Upsert: UpsertMerge, MergeTerminator: ";", TruncateTemplate: truncateTable, MaxBindValues: 2000},
	constants.ConnectionTypeOdbcSqlServer: {Bind: BindQuestion, Upsert: UpsertMerge, MergeTerminator: ";", TruncateTemplate: truncateTable, MaxBindValues: 2000},
	constants.ConnectionTypeSnowflake:     {Bind: BindQuestion, Upsert: UpsertMerge, TruncateTemplate: truncateTable, MaxBindValues: 16384},
	constants.ConnectionTypeNetezza:       {Bind: BindDollar, Upsert: UpsertMerge, TruncateTemplate: truncateTable, MaxBindValues: 4096},
	constants.ConnectionTypeMockSql:       {Bind: BindColon, Upsert: UpsertMerge, TruncateTemplate: truncateTable},
}

// GetDialect returns a copy of the Dialect registered for the connection type.
func GetDialect(connectionType string) (*Dialect, error) {
	d, ok := dialects[connectionType]
	if !ok {
		return nil, fmt.Errorf("unsupported database type %q", connectionType)
	}
	d.Name = connectionType
	return &d, nil
}

// MustGetDialect panics if the connection type is unsupported.
func MustGetDialect(connectionType string) *Dialect {
	d, err := GetDialect(connectionType)
	if err != nil {
		panic(err)
	}
	return d
}
