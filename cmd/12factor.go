package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/relloyd/hotelpipe/actions"
	"github.com/relloyd/hotelpipe/config"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/rdbms/shared"
	"github.com/relloyd/hotelpipe/store"
	"github.com/xo/dburl"
)

// init will be called first due to the lexical order in which these functions are executed.
// This ensures the value of twelveFactorMode is set before other init() functions configure
// Cobra flags, since addFlag reads environment variables in place of CLI flags in this mode.
func init() {
	var envFiles []string
	if f := os.Getenv(envVarEnvFile); f != "" {
		envFiles = append(envFiles, f)
	}
	if err := helper.LoadDotEnv(envFiles...); err != nil {
		fmt.Println(err)
	}
	setupTwelveFactorMode()
}

// setupTwelveFactorMode will enable or disable 12 factor mode based on environment variable.
func setupTwelveFactorMode() {
	mode := os.Getenv(envVarTwelveFactorMode)
	if mode != "" {
		twelveFactorMode = true
		lambdaMode = strings.ToLower(mode) == "lambda"
	} else {
		// Tests may have turned the mode on while others require it off.
		twelveFactorMode = false
		lambdaMode = false
	}
}

const (
	envVarTwelveFactorMode      = c.EnvVarPrefix + "_" + "12FACTOR_MODE"
	envVarEnvFile               = c.EnvVarPrefix + "_" + "ENV_FILE"
	envVarCommand               = c.EnvVarPrefix + "_" + "COMMAND"
	envVarSource                = c.EnvVarPrefix + "_" + "SOURCE"        // extract path or s3:// URL
	envVarTargetObject          = c.EnvVarPrefix + "_" + "TARGET_OBJECT" // optional <schema>
	envVarLogLevel              = c.EnvVarPrefix + "_" + "LOG_LEVEL"
	envVarStackDump             = c.EnvVarPrefix + "_" + "STACK_DUMP"
	defaultConnectionNameTarget = "TARGET"
)

var (
	twelveFactorMode bool // true if os env var envVarTwelveFactorMode is set
	lambdaMode       bool // true if envVarTwelveFactorMode is "lambda"
	twelveFactorVars = map[string]string{
		envVarCommand:      "",
		envVarSource:       "",
		envVarTargetObject: "",
		helper.GetTypeEnvVarName(defaultConnectionNameTarget): "",
		helper.GetDsnEnvVarName(defaultConnectionNameTarget):  "",
		store.EnvSupabaseURL: "",
		store.EnvSupabaseKey: "",
		envVarLogLevel:       "",
		envVarStackDump:      "",
	}
	twelveFactorVarsSensitive = map[string]string{ // used to flag some of the above variables as being sensitive.
		helper.GetDsnEnvVarName(defaultConnectionNameTarget): "",
		store.EnvSupabaseKey: "",
	}
)

type twelveFactorAction struct {
	setupFunc  func(src string, tgt string)
	runnerFunc func() error
}

var twelveFactorActions = map[string]twelveFactorAction{
	"load": {
		setupFunc: func(src string, tgt string) {
			loadCfg.Source = src
			loadCfg.Target = actions.ConnectionObject{ConnectionObject: tgt}
		},
		runnerFunc: runLoad,
	},
	"schema": {
		setupFunc: func(src string, tgt string) {
			schemaCfg.Target = actions.ConnectionObject{ConnectionObject: tgt}
		},
		runnerFunc: func() error {
			schemaCfg.Connections = getConnectionLoader()
			schemaCfg.StackDumpOnPanic = stackDumpOnPanic
			return actions.RunSchema(&schemaCfg)
		},
	},
	"report": {
		setupFunc: func(src string, tgt string) {
			reportCfg.Target = actions.ConnectionObject{ConnectionObject: tgt}
		},
		runnerFunc: func() error {
			reportCfg.Connections = getConnectionLoader()
			reportCfg.StackDumpOnPanic = stackDumpOnPanic
			return actions.RunReport(&reportCfg)
		},
	},
}

func getConnectionLoader() actions.ConnectionLoader {
	if twelveFactorMode {
		return &TwelveFactorConnections{}
	}
	return config.Connections
}

func getConnectionGetterSetter() actions.ConnectionGetterSetter {
	if twelveFactorMode {
		fmt.Printf("Error: connections cannot be configured when %v is set (supply them using %v and %v instead)\n",
			envVarTwelveFactorMode,
			helper.GetTypeEnvVarName(defaultConnectionNameTarget),
			helper.GetDsnEnvVarName(defaultConnectionNameTarget))
		os.Exit(1)
	}
	return config.Connections
}

func execute12FactorMode(acts map[string]twelveFactorAction) (err error) {
	// The log level is not a persistent flag, so fetch it from the environment here.
	logLevel := helper.ReadValueFromEnvWithDefault(envVarLogLevel, "warn")
	stackDumpOnPanic = os.Getenv(envVarStackDump) != ""
	log := logger.NewLogger(c.ServiceName, logLevel, stackDumpOnPanic)
	log.Info("hotelpipe is running in 12 Factor mode...")
	for k := range twelveFactorVars {
		twelveFactorVars[k] = os.Getenv(k)
		if _, sensitive := twelveFactorVarsSensitive[k]; sensitive && twelveFactorVars[k] != "" {
			log.Debug(k, "=", "<obfuscated>")
		} else {
			log.Debug(k, "=", twelveFactorVars[k])
		}
	}
	command := strings.ToLower(twelveFactorVars[envVarCommand])
	a, ok := acts[command]
	if !ok {
		err = fmt.Errorf("invalid command %q in %v", twelveFactorVars[envVarCommand], envVarCommand)
		log.Error(err.Error())
		return
	}
	// Setup the target string to include the schema, as Cobra would have with CLI args.
	tgt := defaultConnectionNameTarget
	if s := twelveFactorVars[envVarTargetObject]; s != "" {
		tgt = fmt.Sprintf("%v.%v", defaultConnectionNameTarget, s) // e.g. TARGET.star
	}
	a.setupFunc(twelveFactorVars[envVarSource], tgt)
	if err = a.runnerFunc(); err != nil {
		log.Error("Error: ", err)
	}
	return err
}

// TwelveFactorConnections loads connections from HB_<NAME>_TYPE and HB_<NAME>_DSN.
// It implements actions.ConnectionLoader.
type TwelveFactorConnections struct{}

// LoadConnection reads the connection type and DSN for connectionName from the environment and checks
// the DSN parses for that type. REST connections take their URL from the DSN variable or SUPABASE_URL.
// Memory connections need no DSN.
func (t *TwelveFactorConnections) LoadConnection(connectionName string) (shared.ConnectionDetails, error) {
	d := shared.ConnectionDetails{LogicalName: connectionName, Data: make(map[string]string)}
	kType := helper.GetTypeEnvVarName(connectionName)
	if err := helper.ReadValueFromEnv(kType, &d.Type); err != nil {
		return d, err
	}
	d.Type = strings.TrimSpace(strings.ToLower(d.Type))
	var dsn string
	kDsn := helper.GetDsnEnvVarName(connectionName)
	switch d.Type {
	case c.ConnectionTypeMemory:
		return d, nil
	case c.ConnectionTypeRest:
		if err := helper.ReadValueFromEnv(kDsn, &dsn); err == nil {
			d.Data[store.RestConnectionKeyNames.URL] = dsn
		}
		return d, nil
	}
	if err := helper.ReadValueFromEnv(kDsn, &dsn); err != nil {
		return d, err
	}
	switch d.Type {
	case c.ConnectionTypeSnowflake:
		if !strings.HasPrefix(dsn, "snowflake://") {
			return d, fmt.Errorf("%v must be a snowflake:// DSN", kDsn)
		}
	case c.ConnectionTypeNetezza:
		if err := (shared.NetezzaConnectionDetails{Dsn: dsn}).Parse(); err != nil {
			return d, err
		}
	default:
		if !actions.IsDatabaseConnectionType(d.Type) {
			return d, fmt.Errorf("unsupported connection type %q in %v, please use one of these: %v", d.Type, kType, actions.GetSupportedConnectionTypes())
		}
		if _, err := dburl.Parse(dsn); err != nil {
			return d, fmt.Errorf("unable to parse %v: %w", kDsn, err)
		}
	}
	d.Data = (&shared.DsnConnectionDetails{Dsn: dsn}).GetMap(d.Data)
	return d, nil
}
