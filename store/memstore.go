package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/model"
	"github.com/relloyd/hotelpipe/stream"
)

// MemStore is an in-memory Store and Truncater. Tables with an id column get ascending surrogate keys;
// tables with key columns enforce unique natural keys.
type MemStore struct {
	// Optional hooks called before a write or read. A non-nil error fails the call without side effects.
	UpsertHook      func(table string, rows []stream.Record) error
	InsertBatchHook func(table string, call int, rows []stream.Record) error
	SelectHook      func(table string) error
	// SelectTransform rewrites values on the way out, e.g. to mimic a store that returns numbers as text.
	SelectTransform func(column string, value interface{}) interface{}
	mu              sync.Mutex
	tables          map[string]*memTable
	insertCalls     int
	closed          bool
}

type memTable struct {
	idColumn   string
	keyColumns []string
	rows       []stream.Record
	index      map[string]int // natural key -> position in rows
	nextID     int64
}

func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string]*memTable)}
}

// NewStarSchemaMemStore returns a MemStore with the dimension, fact and run tables defined.
func NewStarSchemaMemStore() *MemStore {
	m := NewMemStore()
	m.DefineTable(c.TableHotels, c.ColHotelId, model.HotelKeyColumns)
	m.DefineTable(c.TableDates, c.ColDateId, model.DateKeyColumns)
	m.DefineTable(c.TableCustomers, c.ColCustomerId, model.CustomerKeyColumns)
	m.DefineTable(c.TableAgents, c.ColAgentId, model.AgentKeyColumns)
	m.DefineTable(c.TableFacts, "booking_id", nil)
	m.DefineTable(c.TableRuns, "", []string{c.ColRunId})
	return m
}

// DefineTable creates or resets table. idColumn and keyColumns may be empty.
func (m *MemStore) DefineTable(table string, idColumn string, keyColumns []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = &memTable{idColumn: idColumn, keyColumns: keyColumns, index: make(map[string]int), nextID: 1}
}

func (m *MemStore) table(name string) (*memTable, error) {
	if m.closed {
		return nil, &ConnectionError{Op: "access", Target: name, Err: fmt.Errorf("store is closed")}
	}
	t, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %v does not exist", name)
	}
	return t, nil
}

func naturalKey(rec stream.Record, cols []string) (string, error) {
	parts := make([]string, len(cols))
	for i, col := range cols {
		v, ok := rec.Lookup(col)
		if !ok {
			return "", fmt.Errorf("key column %q missing from record", col)
		}
		parts[i] = helper.GetStringFromInterface(v)
	}
	return strings.Join(parts, "\x1f"), nil
}

func (m *MemStore) Upsert(ctx context.Context, table string, rows []stream.Record, conflictKeys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(table)
	if err != nil {
		return err
	}
	if m.UpsertHook != nil {
		if err := m.UpsertHook(table, rows); err != nil {
			return asBatchWriteFailure(table, len(rows), err)
		}
	}
	if len(rows) > 0 {
		if _, err := conflictSplit(rows[0].Fields(), conflictKeys); err != nil {
			return &BatchWriteFailure{Table: table, Rows: len(rows), Err: err}
		}
	}
	// Stage changes so that a failure part way leaves the table untouched.
	staged := make([]stream.Record, len(t.rows))
	copy(staged, t.rows)
	index := make(map[string]int, len(t.index))
	for k, v := range t.index {
		index[k] = v
	}
	nextID := t.nextID
	for _, rec := range rows {
		k, err := naturalKey(rec, conflictKeys)
		if err != nil {
			return &BatchWriteFailure{Table: table, Rows: len(rows), Err: err}
		}
		if pos, ok := index[k]; ok {
			updated := staged[pos].Copy()
			for _, f := range rec.Fields() {
				updated.SetData(f, rec.GetData(f))
			}
			staged[pos] = updated
			continue
		}
		newRec := rec.Copy()
		if t.idColumn != "" {
			newRec.SetData(t.idColumn, nextID)
			nextID++
		}
		index[k] = len(staged)
		staged = append(staged, newRec)
	}
	t.rows, t.index, t.nextID = staged, index, nextID
	return nil
}

func (m *MemStore) InsertBatch(ctx context.Context, table string, rows []stream.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(table)
	if err != nil {
		return err
	}
	m.insertCalls++
	if m.InsertBatchHook != nil {
		if err := m.InsertBatchHook(table, m.insertCalls, rows); err != nil {
			return asBatchWriteFailure(table, len(rows), err)
		}
	}
	added := make([]stream.Record, 0, len(rows))
	keys := make(map[string]struct{})
	for _, rec := range rows {
		if len(t.keyColumns) > 0 {
			k, err := naturalKey(rec, t.keyColumns)
			if err != nil {
				return &BatchWriteFailure{Table: table, Rows: len(rows), Err: err}
			}
			_, dupInTable := t.index[k]
			_, dupInBatch := keys[k]
			if dupInTable || dupInBatch {
				return &BatchWriteFailure{Table: table, Rows: len(rows), Err: fmt.Errorf("duplicate key %q", k)}
			}
			keys[k] = struct{}{}
		}
		added = append(added, rec.Copy())
	}
	for _, rec := range added {
		if t.idColumn != "" {
			rec.SetData(t.idColumn, t.nextID)
			t.nextID++
		}
		if len(t.keyColumns) > 0 {
			k, _ := naturalKey(rec, t.keyColumns)
			t.index[k] = len(t.rows)
		}
		t.rows = append(t.rows, rec)
	}
	return nil
}

func (m *MemStore) Select(ctx context.Context, table string, columns []string) ([]stream.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(table)
	if err != nil {
		return nil, err
	}
	if m.SelectHook != nil {
		if err := m.SelectHook(table); err != nil {
			return nil, err
		}
	}
	retval := make([]stream.Record, 0, len(t.rows))
	for _, rec := range t.rows {
		out := stream.NewRecord()
		for _, col := range columns {
			v, ok := rec.Lookup(col)
			if !ok {
				return nil, fmt.Errorf("column %q does not exist in %v", col, table)
			}
			if m.SelectTransform != nil {
				v = m.SelectTransform(col, v)
			}
			out.SetData(col, v)
		}
		retval = append(retval, out)
	}
	return retval, nil
}

func (m *MemStore) Truncate(ctx context.Context, table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(table)
	if err != nil {
		return err
	}
	t.rows = nil
	t.index = make(map[string]int)
	return nil
}

// Rows returns a copy of the rows held in table.
func (m *MemStore) Rows(table string) []stream.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[table]
	if !ok {
		return nil
	}
	retval := make([]stream.Record, len(t.rows))
	for i, rec := range t.rows {
		retval[i] = rec.Copy()
	}
	return retval
}

// InsertBatchCalls returns the number of InsertBatch calls made, successful or not.
func (m *MemStore) InsertBatchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertCalls
}

func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func asBatchWriteFailure(table string, rows int, err error) error {
	if IsBatchWriteFailure(err) || IsConnectionError(err) {
		return err
	}
	return &BatchWriteFailure{Table: table, Rows: rows, Err: err}
}
