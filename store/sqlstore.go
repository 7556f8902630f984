package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/rdbms"
	"github.com/relloyd/hotelpipe/rdbms/shared"
	"github.com/relloyd/hotelpipe/stream"
)

type SqlStoreConfig struct {
	Log             logger.Logger    `errorTxt:"logger" mandatory:"yes"`
	Conn            shared.Connector `errorTxt:"database connection" mandatory:"yes"`
	Schema          string
	TxtBatchNumRows int // rows per generated statement; capped by the dialect's bind limit
}

// SqlStore implements Store and Truncater over a database connection.
// Each write call runs in one transaction so that a failed call leaves none of its rows behind.
type SqlStore struct {
	log             logger.Logger
	conn            shared.Connector
	schema          string
	txtBatchNumRows int
}

func NewSqlStore(cfg SqlStoreConfig) (*SqlStore, error) {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return nil, err
	}
	if cfg.TxtBatchNumRows <= 0 {
		cfg.TxtBatchNumRows = c.SqlTxtBatchNumRowsDefault
	}
	return &SqlStore{
		log:             cfg.Log,
		conn:            cfg.Conn,
		schema:          cfg.Schema,
		txtBatchNumRows: cfg.TxtBatchNumRows,
	}, nil
}

func (s *SqlStore) Upsert(ctx context.Context, table string, rows []stream.Record, conflictKeys []string) error {
	if len(rows) == 0 {
		return nil
	}
	other, err := conflictSplit(rows[0].Fields(), conflictKeys)
	if err != nil {
		return &BatchWriteFailure{Table: table, Rows: len(rows), Err: err}
	}
	return s.write(ctx, table, rows, conflictKeys, other, func(dml shared.DmlGenerator, cfg *shared.SqlStatementGeneratorConfig) shared.SqlStmtGenerator {
		return dml.NewMergeGenerator(cfg)
	})
}

func (s *SqlStore) InsertBatch(ctx context.Context, table string, rows []stream.Record) error {
	if len(rows) == 0 {
		return nil
	}
	return s.write(ctx, table, rows, nil, rows[0].Fields(), func(dml shared.DmlGenerator, cfg *shared.SqlStatementGeneratorConfig) shared.SqlStmtGenerator {
		return dml.NewInsertGenerator(cfg)
	})
}

type generatorFunc func(dml shared.DmlGenerator, cfg *shared.SqlStatementGeneratorConfig) shared.SqlStmtGenerator

func (s *SqlStore) write(ctx context.Context, table string, rows []stream.Record, keyCols []string, otherCols []string, gen generatorFunc) error {
	fail := func(err error) error {
		if errors.Is(err, driver.ErrBadConn) {
			return &ConnectionError{Op: "write", Target: table, Err: err}
		}
		return &BatchWriteFailure{Table: table, Rows: len(rows), Err: err}
	}
	allCols := make([]string, 0, len(keyCols)+len(otherCols))
	allCols = append(allCols, keyCols...)
	allCols = append(allCols, otherCols...)
	batcher, ok := gen(s.conn.GetDmlGenerator(), &shared.SqlStatementGeneratorConfig{
		Log:             s.log,
		OutputSchema:    s.schema,
		OutputTable:     table,
		TargetKeyCols:   helper.StringSliceToOrderedMap(keyCols),
		TargetOtherCols: helper.StringSliceToOrderedMap(otherCols),
	}).(shared.SqlStmtTxtBatcher)
	if !ok {
		return fail(errors.New("the DML generator does not support text batches"))
	}
	tx, err := s.conn.Begin()
	if err != nil {
		return &ConnectionError{Op: "begin", Target: table, Err: err}
	}
	rowsPerStmt := s.conn.GetDialect().MaxRowsPerStatement(s.txtBatchNumRows, len(allCols))
	for start := 0; start < len(rows); start += rowsPerStmt {
		end := start + rowsPerStmt
		if end > len(rows) {
			end = len(rows)
		}
		batcher.InitBatch(end - start)
		for _, rec := range rows[start:end] {
			values, err := rec.Values(allCols)
			if err != nil {
				_ = tx.Rollback()
				return fail(err)
			}
			if _, err = batcher.AddValuesToBatch(values); err != nil {
				_ = tx.Rollback()
				return fail(err)
			}
		}
		if _, err = tx.ExecContext(ctx, batcher.GetStatement(), batcher.GetValues()...); err != nil {
			_ = tx.Rollback()
			return fail(err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fail(errors.Wrap(err, "commit failed"))
	}
	s.log.Debug("wrote ", len(rows), " rows to ", table)
	return nil
}

// recordCollector builds records from query rows.
type recordCollector struct {
	columns []string
	records []stream.Record
}

func (r *recordCollector) HandleHeader(i []interface{}) error {
	if len(i) != len(r.columns) {
		return fmt.Errorf("expected %v columns; query returned %v", len(r.columns), len(i))
	}
	return nil
}

func (r *recordCollector) HandleRow(i []interface{}) error {
	for idx := range i {
		if b, ok := i[idx].([]byte); ok { // drivers return text as bytes.
			i[idx] = string(b)
		}
	}
	rec, err := stream.NewRecordFromValues(r.columns, i)
	if err != nil {
		return err
	}
	r.records = append(r.records, rec)
	return nil
}

func (s *SqlStore) Select(ctx context.Context, table string, columns []string) ([]stream.Record, error) {
	st := rdbms.NewSchemaTable(s.schema, table)
	query := fmt.Sprintf("select %v from %v", strings.Join(columns, ","), st.String())
	h := &recordCollector{columns: columns}
	if err := rdbms.SqlQuery(ctx, s.log, s.conn, query, h); err != nil {
		if errors.Is(err, driver.ErrBadConn) {
			return nil, &ConnectionError{Op: "select", Target: table, Err: err}
		}
		return nil, errors.Wrapf(err, "unable to read %v", table)
	}
	s.log.Debug("read ", len(h.records), " rows from ", table)
	return h.records, nil
}

func (s *SqlStore) Truncate(ctx context.Context, table string) error {
	q := s.conn.GetDialect().TruncateStatement(s.schema, table)
	if _, err := s.conn.ExecContext(ctx, q); err != nil {
		return errors.Wrapf(err, "unable to truncate %v", table)
	}
	return nil
}

// Exec runs a statement outside of the row-level contract, e.g. DDL.
func (s *SqlStore) Exec(ctx context.Context, statement string) error {
	_, err := s.conn.ExecContext(ctx, statement)
	return err
}

func (s *SqlStore) Close() error {
	s.conn.Close()
	return nil
}
