package cmd

import (
	"github.com/relloyd/hotelpipe/actions"
	"github.com/spf13/cobra"
)

var reportCfg = actions.ReportConfig{}

var reportCmd = &cobra.Command{
	Use:   "report " + argsTargetTxt,
	Short: "Print monthly booking totals from the star schema as CSV",
	Long: `Print one CSV line per arrival year and month with the number of bookings, cancellations,
the cancellation rate and the average daily rate, read back from the star schema of a target
connection. Use --country, --hotel and --year to narrow the report.`,
	Args: getTargetArgsFunc(&reportCfg.Target),
	RunE: func(cmd *cobra.Command, args []string) error {
		reportCfg.Connections = getConnectionLoader()
		reportCfg.StackDumpOnPanic = stackDumpOnPanic
		cmd.SilenceUsage = true
		return actions.RunReport(&reportCfg)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().SortFlags = false
	switches.addFlag(reportCmd, &reportCfg.Filter.Country, "country", "", false, "")
	switches.addFlag(reportCmd, &reportCfg.Filter.Hotel, "hotel", "", false, "")
	switches.addFlag(reportCmd, &reportCfg.Filter.Year, "year", "0", false, "")
	switches.addFlag(reportCmd, &reportCfg.PrintHeader, "print-header", "true", false, "")
	switches.addFlag(reportCmd, &reportCfg.LogLevel, "log-level", "warn", false, "")
}
