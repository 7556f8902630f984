package config

import (
	"fmt"
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
	c "github.com/relloyd/hotelpipe/constants"
)

// EnvHomeDir overrides the directory holding config files.
const EnvHomeDir = c.EnvVarPrefix + "_HOME"

// defaultHomeDir returns $HB_HOME or ~/.hotelpipe, falling back to the working directory
// when the user's home cannot be found.
func defaultHomeDir() string {
	if d := os.Getenv(EnvHomeDir); d != "" {
		return d
	}
	home, err := homedir.Dir()
	if err != nil {
		return MainDir
	}
	return path.Join(home, MainDir)
}

// makeDir makes dir with owner-only permissions if it does not already exist.
func makeDir(dir string) error {
	_, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err = os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("error creating directory %v: %v", dir, err)
		}
	} else if err != nil {
		return err
	}
	return nil
}
