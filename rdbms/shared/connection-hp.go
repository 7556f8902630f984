package shared

import (
	"context"
	"database/sql"
	"errors"
)

// HpConnection wraps the Go native sql.DB and adds the DmlGenerator and Dialect for the database type.
type HpConnection struct {
	DbSql   *sql.DB
	Dml     DmlGenerator
	Dialect *Dialect
	DbType  string
}

// NewHpConnection wraps db using the dialect registered for dbType.
func NewHpConnection(db *sql.DB, dbType string) (*HpConnection, error) {
	d, err := GetDialect(dbType)
	if err != nil {
		return nil, err
	}
	return &HpConnection{
		DbSql:   db,
		Dml:     &DmlGeneratorTxtBatch{Dialect: d},
		Dialect: d,
		DbType:  dbType,
	}, nil
}

// Connector:

func (c *HpConnection) Begin() (Transacter, error) {
	if c.DbSql == nil {
		return nil, errors.New("HpConnection was not configured correctly: DbSql is missing")
	}
	tx, err := c.DbSql.Begin()
	if err != nil {
		return nil, err
	}
	return &HpTx{txSql: tx}, nil
}

func (c *HpConnection) Exec(query string, args ...interface{}) (Result, error) {
	return c.ExecContext(context.Background(), query, args...)
}

func (c *HpConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return c.DbSql.ExecContext(ctx, query, args...)
}

func (c *HpConnection) Query(query string, args ...interface{}) (Rows, error) {
	return c.QueryContext(context.Background(), query, args...)
}

func (c *HpConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	r, err := c.DbSql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (c *HpConnection) Close() {
	_ = c.DbSql.Close()
}

func (c *HpConnection) GetDmlGenerator() DmlGenerator {
	return c.Dml
}

func (c *HpConnection) GetDialect() *Dialect {
	return c.Dialect
}

func (c *HpConnection) GetType() string {
	return c.DbType
}

// Transacter:

type HpTx struct {
	txSql *sql.Tx
}

func (t *HpTx) Exec(query string, args ...interface{}) (Result, error) {
	return t.ExecContext(context.Background(), query, args...)
}

func (t *HpTx) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return t.txSql.ExecContext(ctx, query, args...)
}

func (t *HpTx) Commit() error {
	return t.txSql.Commit()
}

func (t *HpTx) Rollback() error {
	return t.txSql.Rollback()
}
