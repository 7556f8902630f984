package load

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/dimension"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/model"
	"github.com/relloyd/hotelpipe/store"
	"github.com/relloyd/hotelpipe/store/mocks"
	"github.com/relloyd/hotelpipe/stream"
)

func testFacts(n int) []model.FactBookingRow {
	retval := make([]model.FactBookingRow, n)
	for i := range retval {
		retval[i] = model.FactBookingRow{
			HotelID:               1,
			DateID:                1,
			CustomerID:            1,
			LeadTime:              i,
			ReservationStatusDate: civil.Date{Year: 2015, Month: time.July, Day: 1},
			LoadRunID:             "run",
		}
	}
	return retval
}

func TestInsertFactsBatchCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mocks.NewMockStore(ctrl)
	sizes := make([]int, 0)
	m.EXPECT().InsertBatch(gomock.Any(), c.TableFacts, gomock.Any()).
		DoAndReturn(func(ctx context.Context, table string, rows []stream.Record) error {
			sizes = append(sizes, len(rows))
			return nil
		}).Times(3)
	l := NewLoader(logger.NewLogger("hotelpipe-test", "error", true), m, 4)
	r := l.InsertFacts(context.Background(), testFacts(10))
	if r.Batches != 3 || r.Succeeded != 3 || r.RowsInserted != 10 || r.Status() != StatusComplete {
		t.Fatalf("unexpected report %+v", r)
	}
	if sizes[0] != 4 || sizes[1] != 4 || sizes[2] != 2 {
		t.Fatalf("unexpected batch sizes %v", sizes)
	}
}

func TestInsertFactsContinuesAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mocks.NewMockStore(ctrl)
	gomock.InOrder(
		m.EXPECT().InsertBatch(gomock.Any(), c.TableFacts, gomock.Any()).Return(nil),
		m.EXPECT().InsertBatch(gomock.Any(), c.TableFacts, gomock.Any()).Return(fmt.Errorf("timeout")),
		m.EXPECT().InsertBatch(gomock.Any(), c.TableFacts, gomock.Any()).Return(nil),
	)
	l := NewLoader(logger.NewLogger("hotelpipe-test", "error", true), m, 2)
	r := l.InsertFacts(context.Background(), testFacts(5))
	if r.Batches != 3 || r.Failed != 1 || r.Succeeded != 2 || r.RowsAttempted != 5 || r.RowsInserted != 3 {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Status() != StatusPartial {
		t.Fatalf("expected status %v; got %v", StatusPartial, r.Status())
	}
	if len(r.Failures) != 1 || !store.IsBatchWriteFailure(r.Failures[0]) {
		t.Fatalf("expected one BatchWriteFailure; got %v", r.Failures)
	}
	if bf := r.Failures[0].(*store.BatchWriteFailure); bf.Batch != 2 || bf.Rows != 2 {
		t.Fatalf("expected the failure to name batch 2 of 2 rows; got %+v", bf)
	}
}

func TestInsertFactsAllFailed(t *testing.T) {
	m := store.NewStarSchemaMemStore()
	m.InsertBatchHook = func(table string, call int, rows []stream.Record) error {
		return fmt.Errorf("read only")
	}
	r := NewLoader(logger.NewLogger("hotelpipe-test", "error", true), m, 3).InsertFacts(context.Background(), testFacts(7))
	if r.Status() != StatusFailed || m.InsertBatchCalls() != 3 {
		t.Fatalf("expected 3 failed batches; got %+v after %v calls", r, m.InsertBatchCalls())
	}
}

func TestInsertFactsCancelled(t *testing.T) {
	m := store.NewStarSchemaMemStore()
	ctx, cancel := context.WithCancel(context.Background())
	m.InsertBatchHook = func(table string, call int, rows []stream.Record) error {
		cancel()
		return nil
	}
	r := NewLoader(logger.NewLogger("hotelpipe-test", "error", true), m, 2).InsertFacts(ctx, testFacts(6))
	if m.InsertBatchCalls() != 1 || r.Succeeded != 1 || r.Failed != 2 {
		t.Fatalf("expected cancellation to stop after the first batch; got %+v", r)
	}
	if !errors.Is(r.Cancelled, context.Canceled) {
		t.Fatalf("expected the report to carry the cancellation; got %v", r.Cancelled)
	}
}

func TestUpsertDimensionsOrderAndFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mocks.NewMockStore(ctrl)
	rows := []model.RawBookingRecord{{
		Hotel: "City Hotel", MarketSegment: "Direct", DistributionChannel: "Direct", Adults: 1, CustomerType: "Transient",
		Country: "PRT", ReservationStatusDate: civil.Date{Year: 2015, Month: time.July, Day: 1},
	}}
	gomock.InOrder(
		m.EXPECT().Upsert(gomock.Any(), c.TableHotels, gomock.Any(), model.HotelKeyColumns).Return(nil),
		m.EXPECT().Upsert(gomock.Any(), c.TableDates, gomock.Any(), model.DateKeyColumns).Return(nil),
		m.EXPECT().Upsert(gomock.Any(), c.TableCustomers, gomock.Any(), model.CustomerKeyColumns).
			Return(&store.ConnectionError{Op: "write", Target: c.TableCustomers, Err: fmt.Errorf("refused")}),
	)
	l := NewLoader(logger.NewLogger("hotelpipe-test", "error", true), m, 100)
	err := l.UpsertDimensions(context.Background(), dimension.Build(rows))
	if !store.IsConnectionError(err) {
		t.Fatalf("expected the connection error to stop the load; got %v", err)
	}
}

func TestUpsertDimensionChunks(t *testing.T) {
	m := store.NewStarSchemaMemStore()
	calls := 0
	m.UpsertHook = func(table string, rows []stream.Record) error {
		calls++
		if len(rows) > 2 {
			return fmt.Errorf("batch too large")
		}
		return nil
	}
	recs := make([]stream.Record, 0, 5)
	for i := 0; i < 5; i++ {
		recs = append(recs, model.AgentRow{AgentName: fmt.Sprint(i)}.Record())
	}
	l := NewLoader(logger.NewLogger("hotelpipe-test", "error", true), m, 2)
	if err := l.UpsertDimension(context.Background(), c.TableAgents, recs, model.AgentKeyColumns); err != nil {
		t.Fatal(err)
	}
	if calls != 3 || len(m.Rows(c.TableAgents)) != 5 {
		t.Fatalf("expected 3 upsert calls and 5 agents; got %v calls and %v rows", calls, len(m.Rows(c.TableAgents)))
	}
}
