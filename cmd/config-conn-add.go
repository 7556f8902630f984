package cmd

import (
	"fmt"

	"github.com/relloyd/hotelpipe/actions"
	"github.com/relloyd/hotelpipe/config"
	"github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/rdbms/shared"
	"github.com/spf13/cobra"
)

var configConnAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a connection",
	Long:  `Add a logical connection (database, REST endpoint or memory) for use as a load target.`,
}

type dsnConnectionCommand struct {
	connectionType string
	short          string
	example        string
}

// dsnConnectionCommands are the database types added by supplying a single DSN.
var dsnConnectionCommands = []dsnConnectionCommand{
	{constants.ConnectionTypePostgres, "Add a PostgreSQL connection",
		"postgres://<user>:<pass>@<host>[:<port>]/<dbname>[?sslmode=disable]"},
	{constants.ConnectionTypeSqlServer, "Add a SQL Server connection",
		"sqlserver://<user>:<pass>@<host>/<dbname>[?<opt1>=<value1>&<opt2>=<value1>&...]"},
	{constants.ConnectionTypeMySql, "Add a MySQL connection",
		"mysql://<user>:<pass>@<host>[:<port>]/<dbname>"},
	{constants.ConnectionTypeSqlite, "Add a SQLite connection",
		"sqlite3:/path/to/hotels.db"},
	{constants.ConnectionTypeSnowflake, "Add a Snowflake connection",
		"snowflake://<user>:<password>@<account>/<database-name>?schema=<schema>&warehouse=<warehouse>&role=<role>"},
}

func initConnAdd() {
	configConnAddCmd.Flags().SortFlags = false
	configConnCmd.AddCommand(configConnAddCmd)
	for _, d := range dsnConnectionCommands {
		configConnAddCmd.AddCommand(newDsnConnectionAddCmd(d))
	}
}

func newDsnConnectionAddCmd(d dsnConnectionCommand) *cobra.Command {
	cfg := &actions.ConnectionConfig{}
	conn := &shared.DsnConnectionDetails{}
	c := &cobra.Command{
		Use:   d.connectionType,
		Short: d.short,
		Long: fmt.Sprintf(`%v to the config store %q
by providing a DSN of the form:

%v
`, d.short, config.Connections.FullPath, d.example),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Type = d.connectionType
			cfg.ConfigFile = getConnectionGetterSetter()
			cfg.ConnDetails = conn
			cmd.SilenceUsage = true
			return actions.RunConnectionAdd(cfg)
		},
	}
	c.Flags().SortFlags = false
	switches.addFlag(c, &cfg.LogicalName, "connection-name", "", true, "")
	switches.addFlag(c, &cfg.Force, "force-connection", "", false, "")
	switches.addFlag(c, &conn.Dsn, "dsn", "", true, "")
	return c
}
