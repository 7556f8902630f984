package rdbms

import (
	"fmt"
	"strings"

	c "github.com/relloyd/hotelpipe/constants"
)

// columnTypes names the SQL types used by the star schema for one database type.
type columnTypes struct {
	identity  string // surrogate key column definition
	text      string // indexable text
	longText  string
	integer   string
	double    string
	boolean   string
	date      string
	timestamp string
}

var ddlColumnTypes = map[string]columnTypes{
	c.ConnectionTypeMySql: {
		identity: "bigint not null auto_increment primary key", text: "varchar(255)", longText: "text",
		integer: "integer", double: "double", boolean: "boolean", date: "date", timestamp: "datetime"},
	c.ConnectionTypePostgres: {
		identity: "bigint generated by default as identity primary key", text: "varchar(255)", longText: "text",
		integer: "integer", double: "double precision", boolean: "boolean", date: "date", timestamp: "timestamp"},
	c.ConnectionTypeSqlite: {
		identity: "integer primary key autoincrement", text: "text", longText: "text",
		integer: "integer", double: "real", boolean: "boolean", date: "date", timestamp: "timestamp"},
	c.ConnectionTypeSqlServer: {
		identity: "bigint identity(1,1) primary key", text: "nvarchar(255)", longText: "nvarchar(max)",
		integer: "int", double: "float", boolean: "bit", date: "date", timestamp: "datetime2"},
	c.ConnectionTypeSnowflake: {
		identity: "number autoincrement primary key", text: "varchar(255)", longText: "varchar",
		integer: "integer", double: "float", boolean: "boolean", date: "date", timestamp: "timestamp_ntz"},
}

func init() {
	ddlColumnTypes[c.ConnectionTypeOdbcSqlServer] = ddlColumnTypes[c.ConnectionTypeSqlServer]
	ddlColumnTypes[c.ConnectionTypeMockSql] = ddlColumnTypes[c.ConnectionTypeSqlite]
}

type ddlColumn struct {
	name    string
	sqlType string
	notNull bool
}

type ddlTable struct {
	name       string
	columns    []ddlColumn
	uniqueCols []string
	foreign    map[string]string // column -> referenced table
}

// GetStarSchemaDDL returns create table statements for the dimensions, the fact table and the run log
// in dependency order. schema may be empty.
func GetStarSchemaDDL(dbType string, schema string) ([]string, error) {
	ct, ok := ddlColumnTypes[dbType]
	if !ok {
		return nil, fmt.Errorf("star schema DDL is not available for database type %q", dbType)
	}
	tables := starSchemaTables(ct)
	retval := make([]string, 0, len(tables))
	for _, t := range tables {
		retval = append(retval, t.createStatement(schema))
	}
	return retval, nil
}

func starSchemaTables(ct columnTypes) []ddlTable {
	return []ddlTable{
		{
			name: c.TableHotels,
			columns: []ddlColumn{
				{c.ColHotelId, ct.identity, false},
				{c.ColHotelName, ct.text, true},
				{c.ColMarketSegment, ct.text, true},
				{c.ColDistributionChannel, ct.text, true},
			},
			uniqueCols: []string{c.ColHotelName, c.ColMarketSegment, c.ColDistributionChannel},
		},
		{
			name: c.TableDates,
			columns: []ddlColumn{
				{c.ColDateId, ct.identity, false},
				{c.ColArrivalDate, ct.date, true},
				{c.ColArrivalYear, ct.integer, false},
				{c.ColArrivalMonth, ct.text, false},
				{c.ColArrivalWeekNumber, ct.integer, false},
				{c.ColArrivalDayOfMonth, ct.integer, false},
			},
			uniqueCols: []string{c.ColArrivalDate},
		},
		{
			name: c.TableCustomers,
			columns: []ddlColumn{
				{c.ColCustomerId, ct.identity, false},
				{c.ColAdults, ct.integer, true},
				{c.ColChildren, ct.integer, true},
				{c.ColBabies, ct.integer, true},
				{c.ColCustomerType, ct.text, true},
				{c.ColCountry, ct.text, true},
			},
			uniqueCols: []string{c.ColAdults, c.ColChildren, c.ColBabies, c.ColCustomerType, c.ColCountry},
		},
		{
			name: c.TableAgents,
			columns: []ddlColumn{
				{c.ColAgentId, ct.identity, false},
				{c.ColAgentName, ct.text, true},
			},
			uniqueCols: []string{c.ColAgentName},
		},
		{
			name: c.TableFacts,
			columns: []ddlColumn{
				{"booking_id", ct.identity, false},
				{c.ColHotelId, ct.integer, true},
				{c.ColDateId, ct.integer, true},
				{c.ColCustomerId, ct.integer, true},
				{c.ColAgentId, ct.integer, false},
				{c.ColIsCanceled, ct.boolean, false},
				{c.ColLeadTime, ct.integer, false},
				{c.ColStaysInWeekendNights, ct.integer, false},
				{c.ColStaysInWeekNights, ct.integer, false},
				{c.ColAdr, ct.double, false},
				{c.ColBookingChanges, ct.integer, false},
				{c.ColDepositType, ct.text, false},
				{c.ColDaysInWaitingList, ct.integer, false},
				{c.ColRequiredCarParkingSpaces, ct.integer, false},
				{c.ColTotalOfSpecialRequests, ct.integer, false},
				{c.ColReservationStatus, ct.text, false},
				{c.ColReservationStatusDate, ct.date, false},
				{c.ColLoadRunId, ct.text, false},
			},
			foreign: map[string]string{
				c.ColHotelId:    c.TableHotels,
				c.ColDateId:     c.TableDates,
				c.ColCustomerId: c.TableCustomers,
				c.ColAgentId:    c.TableAgents,
			},
		},
		{
			name: c.TableRuns,
			columns: []ddlColumn{
				{c.ColRunId, ct.text, true},
				{c.ColRunStatus, ct.text, true},
				{c.ColRunStartedAt, ct.timestamp, false},
				{c.ColRunFinishedAt, ct.timestamp, false},
				{c.ColRunRowsRead, ct.integer, false},
				{c.ColRunFactsInserted, ct.integer, false},
				{c.ColRunFailedBatches, ct.integer, false},
				{c.ColRunSummary, ct.longText, false},
			},
			uniqueCols: []string{c.ColRunId},
		},
	}
}

func (t ddlTable) createStatement(schema string) string {
	st := NewSchemaTable(schema, t.name)
	lines := make([]string, 0, len(t.columns)+len(t.foreign)+1)
	for _, col := range t.columns {
		l := fmt.Sprintf("  %v %v", col.name, col.sqlType)
		if col.notNull {
			l += " not null"
		}
		lines = append(lines, l)
	}
	if len(t.uniqueCols) > 0 {
		lines = append(lines, fmt.Sprintf("  constraint uk_%v unique (%v)", t.name, strings.Join(t.uniqueCols, ", ")))
	}
	for _, col := range t.columns { // keep column order for stable output.
		if ref, ok := t.foreign[col.name]; ok {
			refTable := NewSchemaTable(schema, ref)
			lines = append(lines, fmt.Sprintf("  constraint fk_%v_%v foreign key (%v) references %v (%v)",
				t.name, col.name, col.name, refTable.String(), col.name))
		}
	}
	return fmt.Sprintf("create table %v (\n%v\n)", st.String(), strings.Join(lines, ",\n"))
}
