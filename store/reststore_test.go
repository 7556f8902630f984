package store

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/logger"
)

type restCall struct {
	method string
	path   string
	query  map[string]string
	prefer string
	auth   string
	body   []map[string]interface{}
}

// fakeTableServer records requests and serves GETs from rows, honouring limit and offset.
type fakeTableServer struct {
	mu     sync.Mutex
	calls  []restCall
	rows   []map[string]interface{}
	status int
}

func (f *fakeTableServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := restCall{method: r.Method, path: r.URL.Path, query: map[string]string{}, prefer: r.Header.Get("Prefer"), auth: r.Header.Get("Authorization")}
	for k := range r.URL.Query() {
		call.query[k] = r.URL.Query().Get(k)
	}
	if b, _ := ioutil.ReadAll(r.Body); len(b) > 0 {
		_ = json.Unmarshal(b, &call.body)
	}
	f.calls = append(f.calls, call)
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"message":"duplicate key value"}`))
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusCreated)
		return
	}
	limit, _ := strconv.Atoi(call.query["limit"])
	offset, _ := strconv.Atoi(call.query["offset"])
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	page := []map[string]interface{}{}
	if offset < len(f.rows) {
		page = f.rows[offset:end]
	}
	_ = json.NewEncoder(w).Encode(page)
}

func newTestRestStore(t *testing.T, srv *httptest.Server, pageSize int) *RestStore {
	t.Helper()
	s, err := NewRestStore(RestStoreConfig{
		Log:      logger.NewLogger("hotelpipe-test", "error", true),
		BaseURL:  srv.URL,
		APIKey:   "secret",
		PageSize: pageSize,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRestStoreUpsert(t *testing.T) {
	f := &fakeTableServer{}
	srv := httptest.NewServer(f)
	defer srv.Close()
	s := newTestRestStore(t, srv, 10)
	keys := []string{c.ColHotelName, c.ColMarketSegment, c.ColDistributionChannel}
	if err := s.Upsert(context.Background(), c.TableHotels, hotelRecords("City Hotel", "Resort Hotel"), keys); err != nil {
		t.Fatal(err)
	}
	if len(f.calls) != 1 {
		t.Fatalf("expected one request; got %v", len(f.calls))
	}
	call := f.calls[0]
	if call.method != http.MethodPost || call.path != "/rest/v1/dim_hotels" {
		t.Fatalf("unexpected request %v %v", call.method, call.path)
	}
	if call.query["on_conflict"] != "hotel_name,market_segment,distribution_channel" {
		t.Fatalf("unexpected on_conflict %q", call.query["on_conflict"])
	}
	if call.prefer != "resolution=merge-duplicates,return=minimal" {
		t.Fatalf("unexpected Prefer header %q", call.prefer)
	}
	if call.auth != "Bearer secret" {
		t.Fatalf("unexpected Authorization header %q", call.auth)
	}
	if len(call.body) != 2 || call.body[1][c.ColHotelName] != "Resort Hotel" {
		t.Fatalf("unexpected body %v", call.body)
	}
}

func TestRestStoreInsertFailure(t *testing.T) {
	f := &fakeTableServer{status: http.StatusConflict}
	srv := httptest.NewServer(f)
	defer srv.Close()
	s := newTestRestStore(t, srv, 10)
	err := s.InsertBatch(context.Background(), c.TableFacts, hotelRecords("City Hotel"))
	if !IsBatchWriteFailure(err) {
		t.Fatalf("expected a BatchWriteFailure; got %v", err)
	}
	if f.calls[0].prefer != "return=minimal" {
		t.Fatalf("unexpected Prefer header %q", f.calls[0].prefer)
	}
}

func TestRestStoreUnreachable(t *testing.T) {
	srv := httptest.NewServer(&fakeTableServer{})
	s := newTestRestStore(t, srv, 10)
	srv.Close()
	if err := s.InsertBatch(context.Background(), c.TableFacts, hotelRecords("City Hotel")); !IsConnectionError(err) {
		t.Fatalf("expected a ConnectionError; got %v", err)
	}
	if _, err := s.Select(context.Background(), c.TableHotels, []string{c.ColHotelId}); !IsConnectionError(err) {
		t.Fatalf("expected a ConnectionError; got %v", err)
	}
}

func TestRestStoreSelectPages(t *testing.T) {
	f := &fakeTableServer{}
	for i := 1; i <= 5; i++ {
		f.rows = append(f.rows, map[string]interface{}{c.ColAgentId: i, c.ColAgentName: strconv.Itoa(i * 10)})
	}
	srv := httptest.NewServer(f)
	defer srv.Close()
	s := newTestRestStore(t, srv, 2)
	recs, err := s.Select(context.Background(), c.TableAgents, []string{c.ColAgentId, c.ColAgentName})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 5 {
		t.Fatalf("expected 5 rows; got %v", len(recs))
	}
	if len(f.calls) != 3 {
		t.Fatalf("expected 3 page requests; got %v", len(f.calls))
	}
	if f.calls[0].query["select"] != "agent_id,agent_name" || f.calls[2].query["offset"] != "4" {
		t.Fatalf("unexpected paging queries: %v", f.calls)
	}
	// JSON numbers arrive as float64.
	if v, ok := recs[4].GetData(c.ColAgentId).(float64); !ok || v != 5 {
		t.Fatalf("unexpected agent_id %T %v", recs[4].GetData(c.ColAgentId), recs[4].GetData(c.ColAgentId))
	}
}

func TestRestStoreTruncate(t *testing.T) {
	f := &fakeTableServer{}
	srv := httptest.NewServer(f)
	defer srv.Close()
	s := newTestRestStore(t, srv, 10)
	if err := s.Truncate(context.Background(), c.TableFacts); err != nil {
		t.Fatal(err)
	}
	if f.calls[0].method != http.MethodDelete || f.calls[0].query[c.ColHotelId] != "not.is.null" {
		t.Fatalf("unexpected truncate request %+v", f.calls[0])
	}
	if err := s.Truncate(context.Background(), c.TableHotels); err == nil {
		t.Fatal("expected an error truncating a table without a filter column")
	}
}
