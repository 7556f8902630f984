package shared

import (
	"regexp"
	"testing"

	"github.com/cevaris/ordered_map"
	"github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/logger"
)

func TestSqlInsert(t *testing.T) {
	log := logger.NewLogger("hotelpipe-test", "error", true)
	omKeys := ordered_map.NewOrderedMap()
	omKeys.Set("col1", "a")
	omKeys.Set("col2", "b")
	omCols := ordered_map.NewOrderedMap()
	omCols.Set("col3", "c")

	db, err := NewMockConnectionWithMockTx(log, constants.ConnectionTypeMockSql)
	if err != nil {
		t.Fatal(err)
	}
	o := db.GetDmlGenerator().NewInsertGenerator(&SqlStatementGeneratorConfig{
		Log:             log,
		OutputSchema:    "",
		SchemaSeparator: ".",
		OutputTable:     "t2",
		TargetKeyCols:   omKeys,
		TargetOtherCols: omCols}).(SqlStmtTxtBatcher)

	// Create new batch of values size 2.
	o.InitBatch(2)
	batchIsFull, err := o.AddValuesToBatch([]interface{}{"x", "y", 123})
	if err != nil {
		t.Fatal(err)
	}
	if batchIsFull {
		t.Fatal("the batch should have room for one more row")
	}
	batchIsFull, err = o.AddValuesToBatch([]interface{}{"p", "q", 2})
	if err != nil {
		t.Fatal(err)
	}
	if !batchIsFull {
		t.Fatal("the batch should be full")
	}
	if _, err = o.AddValuesToBatch([]interface{}{"r", "s", 3}); err == nil {
		t.Fatal("expected an error adding to a full batch")
	}

	// Wrong number of values.
	o.InitBatch(1)
	if _, err = o.AddValuesToBatch([]interface{}{"a", "b", 456, 789}); err == nil {
		t.Fatal("expected an error given an incorrect number of values")
	}

	o.InitBatch(1)
	if _, err = o.AddValuesToBatch([]interface{}{"a", "b", 456}); err != nil {
		t.Fatal(err)
	}
	if len(o.GetValues()) != 3 {
		t.Fatal("incorrect number of args")
	}
	re := regexp.MustCompile("[\t\r\n\f]")
	expected := `insert into t2 (a,b,c) values ( :1,:2,:3 )`
	got := re.ReplaceAllString(o.GetStatement(), " ")
	if got != expected {
		t.Fatalf("bad SQL INSERT generated: expected = '%v'; got = '%v'", expected, got)
	}

	// Multiple rows in a batch.
	o.InitBatch(2)
	_, _ = o.AddValuesToBatch([]interface{}{"a", "b", 456})
	_, _ = o.AddValuesToBatch([]interface{}{"c", "d", 789})
	expected = `insert into t2 (a,b,c) values ( :1,:2,:3 ),( :4,:5,:6 )`
	got = re.ReplaceAllString(o.GetStatement(), " ")
	if expected != got {
		t.Fatalf("bad SQL INSERT generated: expected = '%v'; got = '%v'", expected, got)
	}

	// A partly filled batch renders only the rows added.
	o.InitBatch(5)
	_, _ = o.AddValuesToBatch([]interface{}{"a", "b", 456})
	expected = `insert into t2 (a,b,c) values ( :1,:2,:3 )`
	got = re.ReplaceAllString(o.GetStatement(), " ")
	if expected != got {
		t.Fatalf("bad SQL INSERT generated for a partial batch: expected = '%v'; got = '%v'", expected, got)
	}
}

func TestSqlInsertBindStyles(t *testing.T) {
	log := logger.NewLogger("hotelpipe-test", "error", true)
	cases := map[string]string{
		constants.ConnectionTypePostgres:  `insert into star.t (a,b) values ( $1,$2 ),( $3,$4 )`,
		constants.ConnectionTypeSqlServer: `insert into star.t (a,b) values ( @p1,@p2 ),( @p3,@p4 )`,
		constants.ConnectionTypeMySql:     `insert into star.t (a,b) values ( ?,? ),( ?,? )`,
	}
	for dbType, expected := range cases {
		dml := &DmlGeneratorTxtBatch{Dialect: MustGetDialect(dbType)}
		o := dml.NewInsertGenerator(&SqlStatementGeneratorConfig{
			Log:             log,
			OutputSchema:    "star",
			OutputTable:     "t",
			TargetOtherCols: ordered_map.NewOrderedMap(),
			TargetKeyCols:   newOrderedCols("a", "b"),
		}).(SqlStmtTxtBatcher)
		o.InitBatch(2)
		_, _ = o.AddValuesToBatch([]interface{}{1, 2})
		_, _ = o.AddValuesToBatch([]interface{}{3, 4})
		if got := o.GetStatement(); got != expected {
			t.Fatalf("%v: expected %q; got %q", dbType, expected, got)
		}
	}
}

func newOrderedCols(cols ...string) *ordered_map.OrderedMap {
	m := ordered_map.NewOrderedMap()
	for _, c := range cols {
		m.Set(c, c)
	}
	return m
}
