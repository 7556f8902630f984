package actions

import (
	"errors"
	"fmt"
	"io"

	"github.com/relloyd/hotelpipe/config"
	"github.com/relloyd/hotelpipe/helper"
)

type DefaultAddConfig struct {
	ConfigFile *config.File `errorTxt:"config-file" mandatory:"yes"`
	Key        string       `errorTxt:"key" mandatory:"yes"`
	Value      string       `errorTxt:"value" mandatory:"yes"`
	Force      bool
	Out        io.Writer
}

type DefaultRemoveConfig struct {
	ConfigFile *config.File `errorTxt:"config-file" mandatory:"yes"`
	Key        string       `errorTxt:"key" mandatory:"yes"`
	Out        io.Writer
}

// RunDefaultAdd saves a default flag value. Without Force it is an error to replace an existing key.
func RunDefaultAdd(cfg *DefaultAddConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	var val string
	if err := cfg.ConfigFile.Get(cfg.Key, &val); err == nil && !cfg.Force {
		return fmt.Errorf("key %q exists, use force to update the value or remove it first", cfg.Key)
	} else if err != nil && !errors.As(err, &config.KeyNotFoundError{}) {
		return err
	}
	if err := cfg.ConfigFile.Set(cfg.Key, cfg.Value); err != nil {
		return fmt.Errorf("error writing config file after adding: %v", err)
	}
	fmt.Fprintf(outputOrStdout(cfg.Out), "Key %q added to %q\n", cfg.Key, cfg.ConfigFile.FullPath)
	return nil
}

func RunDefaultRemove(cfg *DefaultRemoveConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if err := cfg.ConfigFile.Delete(cfg.Key); err != nil {
		return fmt.Errorf("unable to delete key %q from config: %v", cfg.Key, err)
	}
	fmt.Fprintf(outputOrStdout(cfg.Out), "Key %q removed\n", cfg.Key)
	return nil
}

// RunDefaultList prints each default as key = value.
func RunDefaultList(f *config.File, out io.Writer) error {
	keys, err := f.GetAllKeys()
	if err != nil {
		return err
	}
	out = outputOrStdout(out)
	for _, k := range keys {
		var v string
		if err = f.Get(k, &v); err != nil {
			return err
		}
		fmt.Fprintf(out, "%v = %v\n", k, v)
	}
	return nil
}
