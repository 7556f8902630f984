package store

import (
	"fmt"

	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/rdbms"
	"github.com/relloyd/hotelpipe/rdbms/shared"
)

// Data keys of a REST connection.
var RestConnectionKeyNames = struct {
	URL    string
	Key    string
	Schema string
}{
	URL:    "url",
	Key:    "key",
	Schema: "schema",
}

// Environment variables read when a REST connection does not carry its own URL or key.
const (
	EnvSupabaseURL = "SUPABASE_URL"
	EnvSupabaseKey = "SUPABASE_KEY"
)

type OpenOptions struct {
	Schema          string
	TxtBatchNumRows int
	PageSize        int
}

// Open returns the Store implementation for the connection type.
// REST and memory stores are built directly; every other type must be a supported database.
func Open(log logger.Logger, conn shared.ConnectionDetails, opts OpenOptions) (Store, error) {
	switch conn.Type {
	case c.ConnectionTypeRest:
		cfg := RestStoreConfig{
			Log:      log,
			BaseURL:  conn.Data[RestConnectionKeyNames.URL],
			APIKey:   conn.Data[RestConnectionKeyNames.Key],
			Schema:   conn.Data[RestConnectionKeyNames.Schema],
			PageSize: opts.PageSize,
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = helper.ReadValueFromEnvWithDefault(EnvSupabaseURL, "")
		}
		if cfg.APIKey == "" {
			cfg.APIKey = helper.ReadValueFromEnvWithDefault(EnvSupabaseKey, "")
		}
		if opts.Schema != "" {
			cfg.Schema = opts.Schema
		}
		return NewRestStore(cfg)
	case c.ConnectionTypeMemory:
		return NewStarSchemaMemStore(), nil
	}
	if !rdbms.IsSupportedConnectionType(conn.Type) {
		return nil, fmt.Errorf("unsupported connection type %q for connection %v", conn.Type, conn.LogicalName)
	}
	db, err := rdbms.OpenDbConnection(log, conn)
	if err != nil {
		return nil, &ConnectionError{Op: "open", Target: conn.LogicalName, Err: err}
	}
	return NewSqlStore(SqlStoreConfig{
		Log:             log,
		Conn:            db,
		Schema:          opts.Schema,
		TxtBatchNumRows: opts.TxtBatchNumRows,
	})
}
