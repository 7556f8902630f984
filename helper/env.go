package helper

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/relloyd/hotelpipe/constants"
)

// LoadDotEnv reads KEY=VALUE pairs from the given files (default ".env") into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("error loading environment file %v: %w", f, err)
		}
	}
	return nil
}

// GetEnvVar fetches OS environment variable.
// It returns an error if the value is missing AND mandatory == true.
func GetEnvVar(k string, mandatory bool) (string, error) {
	value := os.Getenv(k)
	if value == "" && mandatory {
		return "", fmt.Errorf("environment variable %v is not set", k)
	}
	return value, nil
}

// ReadValueFromEnv reads the env var name into val.
// If the env var is not set then return an error and leave val untouched.
func ReadValueFromEnv(name string, val *string) error {
	v := os.Getenv(name)
	if v == "" {
		return fmt.Errorf("value for environment variable %v not found", name)
	}
	*val = v
	return nil
}

// ReadValueFromEnvWithDefault will read the value of name from the environment.
// If it's not set then the supplied defaultValue is returned.
func ReadValueFromEnvWithDefault(name string, defaultValue string) (v string) {
	if err := ReadValueFromEnv(name, &v); err != nil {
		v = defaultValue
	}
	return
}

// GetDsnEnvVarName returns HB_<CONNECTION>_DSN.
func GetDsnEnvVarName(connectionName string) string {
	return fmt.Sprintf("%v_%v_DSN", constants.EnvVarPrefix, envVarToken(connectionName))
}

// GetTypeEnvVarName returns HB_<CONNECTION>_TYPE.
func GetTypeEnvVarName(connectionName string) string {
	return fmt.Sprintf("%v_%v_TYPE", constants.EnvVarPrefix, envVarToken(connectionName))
}

func envVarToken(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToUpper(s)), "-", "_")
}
