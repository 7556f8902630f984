package cmd

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/relloyd/hotelpipe/actions"
	"github.com/relloyd/hotelpipe/config"
	"github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	argsTargetTxt = "<target-connection>[.<schema>]"
	argsLoadTxt   = "<extract.csv|s3://bucket/key> " + argsTargetTxt
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"mock": cliFlag{name: "mock", shortHand: "m", desc: "mock switch for testing"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug\""},
	"batch-size": cliFlag{name: "batch-size", shortHand: "b",
		desc: "Number of facts inserted per batch; a failed batch is skipped and counted"},
	"sample-size": cliFlag{name: "sample-size", shortHand: "n",
		desc: "Number of distinct unmatched values shown per dimension in the mismatch report"},
	"sql-txt-batch-num-rows": cliFlag{name: "sql-txt-batch-num-rows", shortHand: "S",
		desc: "Number of rows combined into a single SQL statement before it is executed (SQL targets only)"},
	"rerun-policy": cliFlag{name: "rerun-policy", shortHand: "r",
		desc: "What to do with facts already loaded: \"reload\" truncates the fact table first,\n" +
			"\"append\" keeps them and relies on each fact's load_run_id to tell runs apart"},
	"filter": cliFlag{name: "filter", shortHand: "f",
		desc: "Optional JSON Logic rule applied to each extract row; rows for which it is false are skipped,\n" +
			"e.g. '{\"==\": [{\"var\": \"hotel\"}, \"City Hotel\"]}'"},
	"s3-region": cliFlag{name: "s3-region", shortHand: "R",
		desc: "AWS region of the bucket when the extract is an s3:// URL (defaults to $AWS_REGION)"},
	"rejects-dir": cliFlag{name: "rejects-dir", shortHand: "j",
		desc: "Directory in which to write rows that could not be matched to every dimension (omit to skip)"},
	"rejects-max-rows": cliFlag{name: "rejects-max-rows", shortHand: "J",
		desc: "Max number of rows in a single rejects file (0 for unlimited)"},
	"rejects-gzip": cliFlag{name: "rejects-gzip", shortHand: "z",
		desc: "Compress rejects files with gzip"},
	"record-run": cliFlag{name: "record-run", shortHand: "w",
		desc: "Record the run summary in the target's load_runs table"},
	"stats": cliFlag{name: "stats", shortHand: "L",
		desc: "Number of seconds between dumping stage statistics (use 0 to disable)"},
	"output": cliFlag{name: "output", shortHand: "o",
		desc: "Format of the run summary: \"text\", \"yaml\" or \"json\". Leave blank for text on a terminal\n" +
			"and JSON otherwise"},
	"execute-ddl": cliFlag{name: "execute-ddl", shortHand: "e",
		desc: "Execute the generated DDL against the target connection (otherwise it's printed only)"},
	"country": cliFlag{name: "country", shortHand: "c",
		desc: "Only report bookings from customers of this country code"},
	"hotel": cliFlag{name: "hotel", shortHand: "H",
		desc: "Only report bookings for this hotel name"},
	"year": cliFlag{name: "year", shortHand: "y",
		desc: "Only report bookings for this year (use 0 for all years)"},
	"print-header": cliFlag{name: "print-header", shortHand: "x",
		desc: "Print a CSV header before the report lines"},
	"port": cliFlag{name: "port", shortHand: "p",
		desc: "Port to listen on"},
	"runs-limit": cliFlag{name: "runs-limit", shortHand: "N",
		desc: "Default number of runs returned by GET /runs"},
	"connection-name": cliFlag{name: "connection-name", shortHand: "c",
		desc: "Connection name referred to by load, schema, report and serve"},
	"dsn": cliFlag{name: "dsn", shortHand: "d",
		desc: "Connect string to parse"},
	"force-connection": cliFlag{name: "force", shortHand: "f",
		desc: "Allow overwrite of existing connections"},
	"rest-url": cliFlag{name: "url", shortHand: "u",
		desc: "Base URL of the PostgREST endpoint, e.g. https://<project>.supabase.co (or set SUPABASE_URL)"},
	"rest-key": cliFlag{name: "key", shortHand: "k",
		desc: "API key sent as the apikey and bearer token (or set SUPABASE_KEY)"},
	"rest-schema": cliFlag{name: "schema", shortHand: "s",
		desc: "Postgres schema exposed by the endpoint (omit to use the default)"},
}

// addFlag add a flag to cobra.Command c, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// When running in twelveFactorMode, the targetVar is populated using the value of environment variable for the supplied
// name, or if not set then the supplied default value is used.
// When NOT running in twelveFactorMode, the default value is fetched from config if it exists else the supplied
// defaultValue is applied.
// The flag is marked as required in Cobra based on the value of required.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue, config.Main.Get)
	desc := sw.desc + desc2
	switch p := targetVar.(type) {
	case *string:
		if twelveFactorMode {
			*p = sw.val
		} else {
			c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
			// Signal that the flag was set so defaults take effect.
			if sw.val != "" {
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	case *bool:
		defaultBool := parseBool(sw.val)
		if twelveFactorMode {
			*p = defaultBool
		} else {
			c.Flags().BoolVarP(p, sw.name, sw.shortHand, defaultBool, desc)
			mustSetFlag(c.Flags(), sw.name, strconv.FormatBool(defaultBool))
		}
	case *int:
		defaultInt := 0
		if sw.val != "" {
			var err error
			if defaultInt, err = strconv.Atoi(sw.val); err != nil {
				fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
				os.Exit(1)
			}
		}
		if twelveFactorMode {
			*p = defaultInt
		} else {
			c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
			if sw.val != "" {
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	if required && !twelveFactorMode {
		_ = c.MarkFlagRequired(sw.name)
	}
}

// parseBool treats true, 1, yes and y as true in any case. Anything else is false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}

// getCliFlag fetches the value of name from the environment, when running in twelveFactorMode,
// else read the Main config file to find it.
// If a value cannot be found then use the supplied defaultValue in its place.
func (f *cliFlags) getCliFlag(name string, defaultValue string, fnGetConfig func(key string, out interface{}) error) cliFlag {
	s, ok := (*f)[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	if twelveFactorMode {
		if err := helper.ReadValueFromEnv(flagNameToEnvVar(name), &s.val); err != nil {
			s.val = defaultValue
		}
	} else {
		err := fnGetConfig(s.name, &s.val)
		if errors.As(err, &config.KeyNotFoundError{}) || s.val == "" {
			s.val = defaultValue
		}
	}
	return s
}

// flagNameToEnvVar will form a sanitised environment variable name using constants.EnvVarPrefix.
func flagNameToEnvVar(name string) string {
	return constants.EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func mustSetFlag(f *pflag.FlagSet, name string, val string) {
	if err := f.Set(name, val); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// getTargetArgsFunc returns a func that cobra uses to validate that we have 1 arg.
// It saves arg[0] as the target connection.
func getTargetArgsFunc(tgt *actions.ConnectionObject) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("requires one argument: %v", argsTargetTxt)
		}
		*tgt = actions.ConnectionObject{ConnectionObject: args[0]}
		return nil
	}
}

// getLoadArgsFunc returns a func that cobra uses to validate that we have 2 args.
// It saves arg[0] as the extract and arg[1] as the target connection.
func getLoadArgsFunc(src *string, tgt *actions.ConnectionObject) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("requires two arguments: %v", argsLoadTxt)
		}
		*src = args[0]
		*tgt = actions.ConnectionObject{ConnectionObject: args[1]}
		return nil
	}
}
