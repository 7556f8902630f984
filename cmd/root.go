package cmd

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2026-10-17T00:00+0000"
	osArch           = "linux"
	stackDumpOnPanic bool
)

var rootCmd = &cobra.Command{
	Use:   "hotelpipe",
	Short: "Load hotel booking extracts into a star schema",
	Long: `hotelpipe reads a hotel booking CSV extract, builds the hotel, date, customer and agent
dimensions, upserts them into a target store, resolves their surrogate keys and inserts
booking facts in batches. Targets can be a SQL database, a PostgREST endpoint such as
Supabase or an in-memory store for dry runs. Each run prints a summary of what was loaded
and what could not be matched.

Use "config connections add" to register a target, "schema" to create the star schema,
"load" to run the pipeline and "report" or "serve" to read the results.`,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if twelveFactorMode {
		if lambdaMode {
			lambda.Start(func() error { return execute12FactorMode(twelveFactorActions) })
		} else if err := execute12FactorMode(twelveFactorActions); err != nil {
			// execute12FactorMode logs the error.
			os.Exit(1)
		}
		return
	}
	if err := rootCmd.Execute(); err != nil {
		// Execute() prints the error.
		os.Exit(1)
	}
}
