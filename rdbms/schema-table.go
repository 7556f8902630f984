package rdbms

import (
	"regexp"
	"strings"
)

var (
	reQuotedDottedName = regexp.MustCompile(`".+\..+"`)   // "random.table"
	reQuotedSchemaName = regexp.MustCompile(`".+"\.".+"`) // "schema"."table"
)

type SchemaTable struct {
	SchemaTable string `errorTxt:"[<schema>.]<object>" mandatory:"yes"`
}

func NewSchemaTable(schema string, table string) SchemaTable {
	if schema == "" {
		return SchemaTable{table}
	}
	return SchemaTable{schema + "." + table}
}

func (st *SchemaTable) isQuotedTable() bool {
	// a quoted "random.table" is a table name, not a "schema"."table".
	return reQuotedDottedName.MatchString(st.SchemaTable) && !reQuotedSchemaName.MatchString(st.SchemaTable)
}

func (st *SchemaTable) GetTable() string {
	if st.isQuotedTable() {
		return st.SchemaTable
	}
	i := strings.Index(st.SchemaTable, ".")
	if i < 0 {
		return st.SchemaTable
	}
	return st.SchemaTable[i+1:]
}

func (st *SchemaTable) GetSchema() string {
	if st.isQuotedTable() {
		return ""
	}
	i := strings.Index(st.SchemaTable, ".")
	if i < 0 {
		return ""
	}
	return st.SchemaTable[:i]
}

func (st *SchemaTable) String() string {
	return st.SchemaTable
}
