package cmd

import (
	"fmt"
	"strconv"

	"github.com/relloyd/hotelpipe/actions"
	"github.com/relloyd/hotelpipe/constants"
	"github.com/spf13/cobra"
)

var loadCfg = actions.LoadConfig{}

var loadCmd = &cobra.Command{
	Use:   "load " + argsLoadTxt,
	Short: "Load a booking extract into the star schema of a target connection",
	Long: fmt.Sprintf(`Load a hotel booking CSV extract into the star schema of a target connection.

The extract may be a local file or an s3://<bucket>/<key> URL. Rows are de-duplicated and
optionally filtered before the hotel, date, customer and agent dimensions are upserted.
Facts whose dimension keys cannot all be resolved are rejected and summarised in the
mismatch report. Facts are inserted in batches of --batch-size and a failed batch is
skipped rather than aborting the run.

Targets are connections of type %v. Use a connection of type %q for a dry run.

The command exits non-zero when the run fails, which includes every fact batch failing or
the load being interrupted. A run where only some batches fail prints status %q and exits zero.`,
		actions.GetSupportedConnectionTypes(), constants.ConnectionTypeMemory, constants.RunStatusCompletedWithError),
	Args: getLoadArgsFunc(&loadCfg.Source, &loadCfg.Target),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runLoad()
	},
}

func runLoad() error {
	loadCfg.Connections = getConnectionLoader()
	loadCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunLoad(&loadCfg)
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().SortFlags = false
	switches.addFlag(loadCmd, &loadCfg.BatchSize, "batch-size", strconv.Itoa(constants.FactBatchSizeDefault), false, "")
	switches.addFlag(loadCmd, &loadCfg.SampleSize, "sample-size", strconv.Itoa(constants.MismatchSampleSizeDefault), false, "")
	switches.addFlag(loadCmd, &loadCfg.SqlTxtBatchNumRows, "sql-txt-batch-num-rows", strconv.Itoa(constants.SqlTxtBatchNumRowsDefault), false, "")
	switches.addFlag(loadCmd, &loadCfg.RerunPolicy, "rerun-policy", constants.RerunPolicyReload, false, "")
	switches.addFlag(loadCmd, &loadCfg.Filter, "filter", "", false, "")
	switches.addFlag(loadCmd, &loadCfg.S3Region, "s3-region", "", false, "")
	switches.addFlag(loadCmd, &loadCfg.RejectsDir, "rejects-dir", "", false, "")
	switches.addFlag(loadCmd, &loadCfg.RejectsMaxRows, "rejects-max-rows", strconv.Itoa(constants.RejectsFileMaxRowsDefault), false, "")
	switches.addFlag(loadCmd, &loadCfg.RejectsGzip, "rejects-gzip", "false", false, "")
	switches.addFlag(loadCmd, &loadCfg.RecordRun, "record-run", "true", false, "")
	switches.addFlag(loadCmd, &loadCfg.StatsDumpFrequencySeconds, "stats", "0", false, "")
	switches.addFlag(loadCmd, &loadCfg.Output, "output", "", false, "")
	switches.addFlag(loadCmd, &loadCfg.LogLevel, "log-level", "warn", false, "")
}
