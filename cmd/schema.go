package cmd

import (
	"github.com/relloyd/hotelpipe/actions"
	"github.com/spf13/cobra"
)

var schemaCfg = actions.SchemaConfig{}

var schemaCmd = &cobra.Command{
	Use:   "schema " + argsTargetTxt,
	Short: "Print or execute the star schema DDL for a database connection",
	Long: `Print the create table statements for the hotel, date, customer and agent dimensions,
the booking fact table and the load_runs table, using column types for the target database.
Use --execute-ddl to run them against the target instead of printing them.`,
	Args: getTargetArgsFunc(&schemaCfg.Target),
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaCfg.Connections = getConnectionLoader()
		schemaCfg.StackDumpOnPanic = stackDumpOnPanic
		cmd.SilenceUsage = true
		return actions.RunSchema(&schemaCfg)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().SortFlags = false
	switches.addFlag(schemaCmd, &schemaCfg.ExecuteDDL, "execute-ddl", "false", false, "")
	switches.addFlag(schemaCmd, &schemaCfg.LogLevel, "log-level", "warn", false, "")
}
