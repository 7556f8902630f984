package rdbms

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/IBM/nzgo/v12"
	_ "github.com/alexbrainman/odbc"
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/rdbms/shared"
	sf "github.com/snowflakedb/gosnowflake"
	"github.com/xo/dburl"
)

// driverOverrides maps dburl driver names to the driver registered by the module we link.
var driverOverrides = map[string]string{
	"postgres": "pgx",
}

// OpenDbConnection opens a database connection using the supplied ConnectionDetails struct in c.
func OpenDbConnection(log logger.Logger, c shared.ConnectionDetails) (db shared.Connector, err error) {
	log.Debug("opening connection type ", c.Type, " with logicalName ", c.LogicalName) // don't log password details in c.Data!
	switch c.Type {
	case constants.ConnectionTypeSnowflake:
		db, err = newSnowflakeConnection(log, shared.GetDsnConnectionDetails(&c))
	case constants.ConnectionTypeNetezza:
		db, err = newNetezzaConnection(log, shared.GetDsnConnectionDetails(&c))
	case constants.ConnectionTypeMySql, constants.ConnectionTypePostgres, constants.ConnectionTypeSqlServer,
		constants.ConnectionTypeOdbcSqlServer, constants.ConnectionTypeSqlite:
		db, err = newConnectionWithDsn(log, c.Type, shared.GetDsnConnectionDetails(&c))
	case constants.ConnectionTypeMockSql:
		db, err = shared.NewMockConnectionWithMockTx(log, constants.ConnectionTypeMockSql)
	default:
		err = fmt.Errorf("unsupported database type, %q", c.Type)
	}
	return
}

// IsSupportedConnectionType reports whether OpenDbConnection can open connections of type t.
func IsSupportedConnectionType(t string) bool {
	_, err := shared.GetDialect(t)
	return err == nil
}

func newConnectionWithDsn(log logger.Logger, dbType string, d *shared.DsnConnectionDetails) (shared.Connector, error) {
	u, err := dburl.Parse(d.Dsn)
	if err != nil { // if the DSN could not be parsed...
		return nil, fmt.Errorf("error parsing DSN for connection type %q: %w", dbType, err)
	}
	log.Info("Opening database connection: ", u.Redacted())
	driver := u.Driver
	if o, ok := driverOverrides[driver]; ok {
		driver = o
	}
	dsn := u.DSN
	if driver == "pgx" { // pgx accepts the URL form directly.
		dsn = d.Dsn
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	conn, err := shared.NewHpConnection(db, dbType)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("Successful connection to: ", u.Redacted())
	return conn, nil
}

// newSnowflakeConnection opens the Snowflake database connection specified in d.
// The prefix 'snowflake://' is removed before the DSN is handed to the driver.
func newSnowflakeConnection(log logger.Logger, d *shared.DsnConnectionDetails) (shared.Connector, error) {
	dsn := strings.TrimPrefix(d.Dsn, "snowflake://")
	if _, err := sf.ParseDSN(dsn); err != nil {
		return nil, fmt.Errorf("unable to parse Snowflake DSN: %w", err)
	}
	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("Successful database connection to Snowflake.")
	return shared.NewHpConnection(db, constants.ConnectionTypeSnowflake)
}

// newNetezzaConnection opens the Netezza database connection specified in d.
func newNetezzaConnection(log logger.Logger, d *shared.DsnConnectionDetails) (shared.Connector, error) {
	n := shared.NetezzaConnectionDetails{Dsn: d.Dsn}
	dsn, err := n.GetNzgoConnectionString()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("nzgo", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("Successful database connection to Netezza.")
	return shared.NewHpConnection(db, constants.ConnectionTypeNetezza)
}
