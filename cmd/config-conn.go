package cmd

import (
	"fmt"

	"github.com/relloyd/hotelpipe/config"
	"github.com/spf13/cobra"
)

var configConnCmd = &cobra.Command{
	Use:   "connections",
	Short: "Configure connection details",
	Long: fmt.Sprintf(`Configure target connections for load, schema, report and serve where:

- Connections are stored in file %q`, config.Connections.FullPath),
}

func init() {
	configCmd.AddCommand(configConnCmd)
	initConnAdd()
	initConnList()
	initConnRemove()
}
