package store

import (
	"context"
	"fmt"
	"testing"

	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/model"
	"github.com/relloyd/hotelpipe/stream"
)

func TestMemStoreUpsertAssignsStableIDs(t *testing.T) {
	m := NewStarSchemaMemStore()
	ctx := context.Background()
	if err := m.Upsert(ctx, c.TableHotels, hotelRecords("City Hotel", "Resort Hotel"), model.HotelKeyColumns); err != nil {
		t.Fatal(err)
	}
	if err := m.Upsert(ctx, c.TableHotels, hotelRecords("Resort Hotel", "Lake Hotel"), model.HotelKeyColumns); err != nil {
		t.Fatal(err)
	}
	recs, err := m.Select(ctx, c.TableHotels, []string{c.ColHotelId, c.ColHotelName})
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]int64)
	for _, r := range recs {
		got[r.GetDataAsString(c.ColHotelName)] = r.GetData(c.ColHotelId).(int64)
	}
	expected := map[string]int64{"City Hotel": 1, "Resort Hotel": 2, "Lake Hotel": 3}
	for k, v := range expected {
		if got[k] != v {
			t.Fatalf("expected %v to have id %v; got %v", k, v, got)
		}
	}
}

func TestMemStoreUpsertMergesAttributes(t *testing.T) {
	m := NewStarSchemaMemStore()
	ctx := context.Background()
	rec := stream.NewRecord()
	rec.SetData(c.ColArrivalDate, "2015-07-01")
	rec.SetData(c.ColArrivalYear, 2014)
	_ = m.Upsert(ctx, c.TableDates, []stream.Record{rec}, model.DateKeyColumns)
	rec2 := rec.Copy()
	rec2.SetData(c.ColArrivalYear, 2015)
	_ = m.Upsert(ctx, c.TableDates, []stream.Record{rec2}, model.DateKeyColumns)
	rows := m.Rows(c.TableDates)
	if len(rows) != 1 || rows[0].GetData(c.ColArrivalYear) != 2015 || rows[0].GetData(c.ColDateId) != int64(1) {
		t.Fatalf("unexpected rows after merge: %v", rows)
	}
}

func TestMemStoreInsertBatchIsAtomic(t *testing.T) {
	m := NewMemStore()
	m.DefineTable("t", "id", []string{c.ColHotelName})
	ctx := context.Background()
	if err := m.InsertBatch(ctx, "t", hotelRecords("a")); err != nil {
		t.Fatal(err)
	}
	err := m.InsertBatch(ctx, "t", hotelRecords("b", "a"))
	if !IsBatchWriteFailure(err) {
		t.Fatalf("expected a BatchWriteFailure for a duplicate key; got %v", err)
	}
	if len(m.Rows("t")) != 1 {
		t.Fatalf("expected the failed batch to add nothing; got %v", m.Rows("t"))
	}
	if m.InsertBatchCalls() != 2 {
		t.Fatalf("expected 2 calls; got %v", m.InsertBatchCalls())
	}
}

func TestMemStoreHooks(t *testing.T) {
	m := NewStarSchemaMemStore()
	ctx := context.Background()
	m.InsertBatchHook = func(table string, call int, rows []stream.Record) error {
		if call == 2 {
			return fmt.Errorf("injected failure")
		}
		return nil
	}
	for i := 0; i < 3; i++ {
		err := m.InsertBatch(ctx, c.TableFacts, hotelRecords("x"))
		if (i == 1) != (err != nil) {
			t.Fatalf("call %v: unexpected error state %v", i+1, err)
		}
	}
	if len(m.Rows(c.TableFacts)) != 2 {
		t.Fatalf("expected 2 rows; got %v", len(m.Rows(c.TableFacts)))
	}
	m.SelectTransform = func(column string, value interface{}) interface{} {
		return fmt.Sprint(value)
	}
	recs, err := m.Select(ctx, c.TableFacts, []string{"booking_id"})
	if err != nil {
		t.Fatal(err)
	}
	// The failed call does not consume an id.
	if recs[1].GetData("booking_id") != "2" {
		t.Fatalf("expected the transformed id \"2\"; got %v", recs[1].GetData("booking_id"))
	}
	m.SelectHook = func(table string) error {
		return &ConnectionError{Op: "select", Target: table, Err: fmt.Errorf("down")}
	}
	if _, err = m.Select(ctx, c.TableHotels, []string{c.ColHotelId}); !IsConnectionError(err) {
		t.Fatalf("expected a ConnectionError; got %v", err)
	}
}

func TestMemStoreTruncateAndClose(t *testing.T) {
	m := NewStarSchemaMemStore()
	ctx := context.Background()
	_ = m.InsertBatch(ctx, c.TableFacts, hotelRecords("x", "y"))
	if err := m.Truncate(ctx, c.TableFacts); err != nil {
		t.Fatal(err)
	}
	if len(m.Rows(c.TableFacts)) != 0 {
		t.Fatal("expected no rows after truncate")
	}
	if _, err := m.Select(ctx, "missing", []string{"x"}); err == nil {
		t.Fatal("expected an error for an undefined table")
	}
	_ = m.Close()
	if err := m.InsertBatch(ctx, c.TableFacts, hotelRecords("z")); !IsConnectionError(err) {
		t.Fatalf("expected a ConnectionError after close; got %v", err)
	}
}
