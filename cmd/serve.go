package cmd

import (
	"net"
	"strconv"

	"github.com/relloyd/hotelpipe/actions"
	"github.com/relloyd/hotelpipe/constants"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve " + argsTargetTxt,
	Short: "Start a web service that reports on the star schema of a target connection",
	Long: `Start a web service over the star schema of a target connection with these routes:

  GET  /health
  GET  /reports/monthly?country=&hotel=&year=
  GET  /reports/kpis?country=&hotel=&year=
  GET  /runs?limit=
  POST /stop`,
	Args: getTargetArgsFunc(&serveConfig.Target),
	RunE: func(cmd *cobra.Command, args []string) error {
		serveConfig.Connections = getConnectionLoader()
		serveConfig.StackDumpOnPanic = stackDumpOnPanic
		cmd.SilenceUsage = true
		return actions.RunWebServer(&serveConfig)
	},
}

var serveConfig = actions.WebServerConfig{
	LogLevel: "info",
	Scheme:   "http",
	Addr:     net.IP{0, 0, 0, 0},
	Port:     constants.WebServerPortDefault,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().SortFlags = false
	serveCmd.Flags().IPVarP(&serveConfig.Addr, "address", "a", net.IP{0, 0, 0, 0}, "Address to listen on")
	switches.addFlag(serveCmd, &serveConfig.Port, "port", strconv.Itoa(constants.WebServerPortDefault), false, "")
	switches.addFlag(serveCmd, &serveConfig.RunsLimit, "runs-limit", strconv.Itoa(constants.RunsListLimitDefault), false, "")
	switches.addFlag(serveCmd, &serveConfig.LogLevel, "log-level", "info", false, "")
}
