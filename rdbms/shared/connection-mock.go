package shared

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/relloyd/hotelpipe/logger"
)

// MockStatement is a statement seen by a MockConnection.
type MockStatement struct {
	Sql  string
	Args []interface{}
}

// MockConnection implements Connector without a database. Statements executed in a transaction are
// recorded in Executed when the transaction commits.
type MockConnection struct {
	Log        logger.Logger
	DbType     string
	Dialect    *Dialect
	Dml        DmlGenerator
	ExecFunc   func(query string, args []interface{}) error        // optional: return an error to fail the statement.
	QueryFunc  func(query string, args []interface{}) (Rows, error) // optional: defaults to no rows.
	mu         sync.Mutex
	executed   []MockStatement
	rolledBack int
	closed     bool
}

// NewMockConnectionWithMockTx returns a MockConnection using the dialect of dbType.
func NewMockConnectionWithMockTx(log logger.Logger, dbType string) (*MockConnection, error) {
	d, err := GetDialect(dbType)
	if err != nil {
		return nil, err
	}
	return &MockConnection{
		Log:     log,
		DbType:  dbType,
		Dialect: d,
		Dml:     &DmlGeneratorTxtBatch{Dialect: d},
	}, nil
}

func (c *MockConnection) Begin() (Transacter, error) {
	return &MockTx{conn: c}, nil
}

func (c *MockConnection) Exec(query string, args ...interface{}) (Result, error) {
	return c.ExecContext(context.Background(), query, args...)
}

func (c *MockConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	if err := c.exec(query, args); err != nil {
		return nil, err
	}
	c.record([]MockStatement{{Sql: query, Args: args}})
	return mockResult(0), nil
}

func (c *MockConnection) Query(query string, args ...interface{}) (Rows, error) {
	return c.QueryContext(context.Background(), query, args...)
}

func (c *MockConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	c.Log.Debug("mock query: ", query)
	if c.QueryFunc != nil {
		return c.QueryFunc(query, args)
	}
	return NewMockRows(nil, nil), nil
}

func (c *MockConnection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockConnection) GetType() string {
	return c.DbType
}

func (c *MockConnection) GetDialect() *Dialect {
	return c.Dialect
}

func (c *MockConnection) GetDmlGenerator() DmlGenerator {
	return c.Dml
}

// Executed returns the committed statements in execution order.
func (c *MockConnection) Executed() []MockStatement {
	c.mu.Lock()
	defer c.mu.Unlock()
	retval := make([]MockStatement, len(c.executed))
	copy(retval, c.executed)
	return retval
}

// RolledBack returns the number of transactions rolled back.
func (c *MockConnection) RolledBack() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rolledBack
}

func (c *MockConnection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *MockConnection) exec(query string, args []interface{}) error {
	c.Log.Debug("mock exec: ", query)
	if c.ExecFunc != nil {
		return c.ExecFunc(query, args)
	}
	return nil
}

func (c *MockConnection) record(s []MockStatement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.executed = append(c.executed, s...)
}

// MockTx buffers statements until Commit.
type MockTx struct {
	conn    *MockConnection
	pending []MockStatement
	done    bool
}

func (t *MockTx) Exec(query string, args ...interface{}) (Result, error) {
	return t.ExecContext(context.Background(), query, args...)
}

func (t *MockTx) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	if t.done {
		return nil, fmt.Errorf("transaction has already been committed or rolled back")
	}
	if err := t.conn.exec(query, args); err != nil {
		return nil, err
	}
	t.pending = append(t.pending, MockStatement{Sql: query, Args: args})
	return mockResult(0), nil
}

func (t *MockTx) Commit() error {
	if t.done {
		return fmt.Errorf("transaction has already been committed or rolled back")
	}
	t.done = true
	t.conn.record(t.pending)
	return nil
}

func (t *MockTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.conn.mu.Lock()
	t.conn.rolledBack++
	t.conn.mu.Unlock()
	return nil
}

type mockResult int64

func (r mockResult) LastInsertId() (int64, error) {
	return int64(r), nil
}

func (r mockResult) RowsAffected() (int64, error) {
	return int64(r), nil
}

// MockRows implements Rows over fixed values. Scan only supports *interface{} destinations.
type MockRows struct {
	columns []string
	rows    [][]interface{}
	idx     int
}

func NewMockRows(columns []string, rows [][]interface{}) *MockRows {
	return &MockRows{columns: columns, rows: rows, idx: -1}
}

func (r *MockRows) Columns() ([]string, error) {
	return r.columns, nil
}

func (r *MockRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *MockRows) Scan(dest ...interface{}) error {
	if r.idx < 0 || r.idx >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.idx]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %v scan destinations; got %v", len(row), len(dest))
	}
	for i := range dest {
		p, ok := dest[i].(*interface{})
		if !ok {
			return fmt.Errorf("unsupported scan destination type %T", dest[i])
		}
		*p = row[i]
	}
	return nil
}

func (r *MockRows) Err() error {
	return nil
}

func (r *MockRows) Close() error {
	return nil
}
