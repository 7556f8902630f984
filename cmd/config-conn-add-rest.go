package cmd

import (
	"fmt"

	"github.com/relloyd/hotelpipe/actions"
	"github.com/relloyd/hotelpipe/config"
	"github.com/relloyd/hotelpipe/constants"
	"github.com/spf13/cobra"
)

var configConnAddRestCfg = &actions.ConnectionConfig{}
var restConn = actions.RestConnectionDetails{}

var configConnAddRestCmd = &cobra.Command{
	Use:     "rest",
	Aliases: []string{"supabase"},
	Short:   "Add a PostgREST connection such as a Supabase project",
	Long: fmt.Sprintf(`Add a PostgREST endpoint to the config store %q.

Dimensions are upserted with on_conflict on their natural key columns and facts are
inserted with POST. The key is sent in the apikey header and as a bearer token.
Leave the key blank to read it from SUPABASE_KEY when the connection is used.`,
		config.Connections.FullPath),
	RunE: func(cmd *cobra.Command, args []string) error {
		configConnAddRestCfg.Type = constants.ConnectionTypeRest
		configConnAddRestCfg.ConfigFile = getConnectionGetterSetter()
		configConnAddRestCfg.ConnDetails = &restConn
		cmd.SilenceUsage = true
		return actions.RunConnectionAdd(configConnAddRestCfg)
	},
}

var configConnAddMemoryCfg = &actions.ConnectionConfig{}

var configConnAddMemoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Add an in-memory connection for dry runs",
	Long: `Add an in-memory target. Nothing loaded into it survives the command, which makes it
useful to check an extract and its mismatch report before loading a real target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configConnAddMemoryCfg.Type = constants.ConnectionTypeMemory
		configConnAddMemoryCfg.ConfigFile = getConnectionGetterSetter()
		configConnAddMemoryCfg.ConnDetails = &actions.MemoryConnectionDetails{}
		cmd.SilenceUsage = true
		return actions.RunConnectionAdd(configConnAddMemoryCfg)
	},
}

func init() {
	configConnAddCmd.AddCommand(configConnAddRestCmd)
	configConnAddRestCmd.Flags().SortFlags = false
	switches.addFlag(configConnAddRestCmd, &configConnAddRestCfg.LogicalName, "connection-name", "", true, "")
	switches.addFlag(configConnAddRestCmd, &configConnAddRestCfg.Force, "force-connection", "", false, "")
	switches.addFlag(configConnAddRestCmd, &restConn.URL, "rest-url", "", true, "")
	switches.addFlag(configConnAddRestCmd, &restConn.Key, "rest-key", "", false, "")
	switches.addFlag(configConnAddRestCmd, &restConn.Schema, "rest-schema", "", false, "")

	configConnAddCmd.AddCommand(configConnAddMemoryCmd)
	switches.addFlag(configConnAddMemoryCmd, &configConnAddMemoryCfg.LogicalName, "connection-name", "", true, "")
	switches.addFlag(configConnAddMemoryCmd, &configConnAddMemoryCfg.Force, "force-connection", "", false, "")
}
