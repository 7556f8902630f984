package shared

import (
	"regexp"
	"strings"
	"testing"

	"github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/logger"
)

var reWhiteSpace = regexp.MustCompile(`\s+`)

func normalizeSql(s string) string {
	return strings.TrimSpace(reWhiteSpace.ReplaceAllString(s, " "))
}

func newUpsertBatcher(t *testing.T, dbType string, keyCols []string, otherCols []string) SqlStmtTxtBatcher {
	t.Helper()
	log := logger.NewLogger("hotelpipe-test", "error", true)
	dml := &DmlGeneratorTxtBatch{Dialect: MustGetDialect(dbType)}
	return dml.NewMergeGenerator(&SqlStatementGeneratorConfig{
		Log:             log,
		OutputTable:     "dim_dates",
		TargetKeyCols:   newOrderedCols(keyCols...),
		TargetOtherCols: newOrderedCols(otherCols...),
	}).(SqlStmtTxtBatcher)
}

func TestSqlMerge(t *testing.T) {
	o := newUpsertBatcher(t, constants.ConnectionTypeSqlServer, []string{"arrival_date"}, []string{"arrival_year"})
	o.InitBatch(2)
	if _, err := o.AddValuesToBatch([]interface{}{"2015-07-01", 2015}); err != nil {
		t.Fatal(err)
	}
	if _, err := o.AddValuesToBatch([]interface{}{"2015-07-02", 2015}); err != nil {
		t.Fatal(err)
	}
	expected := `merge into dim_dates T using (select @p1 as arrival_date,@p2 as arrival_year union all select @p3,@p4) S ` +
		`on (T.arrival_date = S.arrival_date) when matched then update set T.arrival_year = S.arrival_year ` +
		`when not matched then insert (arrival_date,arrival_year) values (S.arrival_date,S.arrival_year);`
	if got := normalizeSql(o.GetStatement()); got != expected {
		t.Fatalf("bad MERGE generated:\nexpected = '%v'\ngot      = '%v'", expected, got)
	}
	if len(o.GetValues()) != 4 {
		t.Fatalf("expected 4 values; got %v", len(o.GetValues()))
	}
	if _, err := o.AddValuesToBatch([]interface{}{"2015-07-03"}); err == nil {
		t.Fatal("expected an error given an incorrect number of values")
	}
}

func TestSqlMergeKeysOnly(t *testing.T) {
	o := newUpsertBatcher(t, constants.ConnectionTypeSnowflake, []string{"agent_name"}, nil)
	o.InitBatch(1)
	_, _ = o.AddValuesToBatch([]interface{}{"9"})
	expected := `merge into dim_dates T using (select ? as agent_name) S on (T.agent_name = S.agent_name) ` +
		`when not matched then insert (agent_name) values (S.agent_name)`
	if got := normalizeSql(o.GetStatement()); got != expected {
		t.Fatalf("bad MERGE generated:\nexpected = '%v'\ngot      = '%v'", expected, got)
	}
}

func TestSqlUpsertOnConflict(t *testing.T) {
	o := newUpsertBatcher(t, constants.ConnectionTypePostgres, []string{"arrival_date"}, []string{"arrival_year", "arrival_month"})
	o.InitBatch(2)
	_, _ = o.AddValuesToBatch([]interface{}{"2015-07-01", 2015, "July"})
	expected := `insert into dim_dates (arrival_date,arrival_year,arrival_month) values ( $1,$2,$3 ) ` +
		`on conflict (arrival_date) do update set arrival_year = excluded.arrival_year, arrival_month = excluded.arrival_month`
	if got := normalizeSql(o.GetStatement()); got != expected {
		t.Fatalf("bad upsert generated:\nexpected = '%v'\ngot      = '%v'", expected, got)
	}
	o = newUpsertBatcher(t, constants.ConnectionTypeSqlite, []string{"hotel_name", "market_segment"}, nil)
	o.InitBatch(1)
	_, _ = o.AddValuesToBatch([]interface{}{"City Hotel", "Direct"})
	expected = `insert into dim_dates (hotel_name,market_segment) values ( ?,? ) on conflict (hotel_name,market_segment) do nothing`
	if got := normalizeSql(o.GetStatement()); got != expected {
		t.Fatalf("bad upsert generated:\nexpected = '%v'\ngot      = '%v'", expected, got)
	}
}

func TestSqlUpsertOnDuplicateKey(t *testing.T) {
	o := newUpsertBatcher(t, constants.ConnectionTypeMySql, []string{"arrival_date"}, []string{"arrival_year"})
	o.InitBatch(1)
	_, _ = o.AddValuesToBatch([]interface{}{"2015-07-01", 2015})
	expected := `insert into dim_dates (arrival_date,arrival_year) values ( ?,? ) on duplicate key update arrival_year = values(arrival_year)`
	if got := normalizeSql(o.GetStatement()); got != expected {
		t.Fatalf("bad upsert generated:\nexpected = '%v'\ngot      = '%v'", expected, got)
	}
	o = newUpsertBatcher(t, constants.ConnectionTypeMySql, []string{"agent_name"}, nil)
	o.InitBatch(1)
	_, _ = o.AddValuesToBatch([]interface{}{"9"})
	expected = `insert into dim_dates (agent_name) values ( ? ) on duplicate key update agent_name = agent_name`
	if got := normalizeSql(o.GetStatement()); got != expected {
		t.Fatalf("bad upsert generated:\nexpected = '%v'\ngot      = '%v'", expected, got)
	}
}
