package actions

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/hotelpipe/config"
	"github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/rdbms/shared"
	"github.com/relloyd/hotelpipe/store"
)

type ConnectionConfig struct {
	ConfigFile        ConnectionGetterSetter `errorTxt:"connections config file" mandatory:"yes"`
	LogicalName       string                 `errorTxt:"connection name" mandatory:"yes"`
	Type              string
	ConnDetails       ConnectionValidator
	Force             bool
	MustUseOdbcScheme bool
	Out               io.Writer
}

// RestConnectionDetails describes a PostgREST style endpoint such as a Supabase project.
type RestConnectionDetails struct {
	URL    string `errorTxt:"REST base URL" mandatory:"yes"`
	Key    string
	Schema string
}

func (d *RestConnectionDetails) Parse() error {
	if err := helper.ValidateStructIsPopulated(d); err != nil {
		return err
	}
	u, err := url.Parse(d.URL)
	if err != nil {
		return errors.Wrap(err, "REST URL could not be parsed")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("REST URL must use http or https, got %q", u.Scheme)
	}
	return nil
}

func (d *RestConnectionDetails) GetScheme() (string, error) {
	return constants.ConnectionTypeRest, nil
}

func (d *RestConnectionDetails) GetMap(m map[string]string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m[store.RestConnectionKeyNames.URL] = d.URL
	if d.Key != "" {
		m[store.RestConnectionKeyNames.Key] = d.Key
	}
	if d.Schema != "" {
		m[store.RestConnectionKeyNames.Schema] = d.Schema
	}
	return m
}

// MemoryConnectionDetails describes an in-memory target. It has nothing to configure.
type MemoryConnectionDetails struct{}

func (d *MemoryConnectionDetails) Parse() error { return nil }

func (d *MemoryConnectionDetails) GetScheme() (string, error) {
	return constants.ConnectionTypeMemory, nil
}

func (d *MemoryConnectionDetails) GetMap(m map[string]string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	return m
}

// NetezzaConnectionValidator adapts shared.NetezzaConnectionDetails to ConnectionValidator.
type NetezzaConnectionValidator struct {
	shared.NetezzaConnectionDetails
}

func (d *NetezzaConnectionValidator) GetScheme() (string, error) {
	return constants.ConnectionTypeNetezza, nil
}

func (d *NetezzaConnectionValidator) GetMap(m map[string]string) map[string]string {
	return (&shared.DsnConnectionDetails{Dsn: d.Dsn}).GetMap(m)
}

func RunConnectionAdd(cfg *ConnectionConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if cfg.ConnDetails == nil {
		return errors.New("please supply connection details")
	}
	if strings.Contains(cfg.LogicalName, ".") {
		return fmt.Errorf("connection name cannot contain period characters '.' as they're used to split <connection>[.<schema>]")
	}
	if err := cfg.ConnDetails.Parse(); err != nil {
		return errors.Wrap(err, "unable to create connection")
	}
	connection := shared.ConnectionDetails{
		LogicalName: cfg.LogicalName,
		Type:        cfg.Type,
		Data:        cfg.ConnDetails.GetMap(nil),
	}
	// Save the full scheme e.g. odbc+sqlserver, since plain sqlserver uses the native driver.
	scheme, err := cfg.ConnDetails.GetScheme()
	if err != nil {
		return err
	}
	if cfg.MustUseOdbcScheme || cfg.Type == constants.ConnectionTypeOdbc || connection.Type == "" {
		connection.Type = scheme
	}
	if cfg.MustUseOdbcScheme && !strings.HasPrefix(connection.Type, constants.ConnectionTypeOdbc+"+") {
		return fmt.Errorf("%v is an unsupported ODBC connection type, please use one of these: %v", connection.Type, GetSupportedOdbcConnectionTypes())
	}
	if !IsSupportedConnectionType(connection.Type) {
		return fmt.Errorf("unsupported connection type %q, please use one of these: %v", connection.Type, GetSupportedConnectionTypes())
	}
	existing := &shared.ConnectionDetails{}
	err = cfg.ConfigFile.Get(cfg.LogicalName, existing)
	if err == nil && existing.Type != "" && !cfg.Force {
		return fmt.Errorf("connection exists, use force to update the connection or remove it first")
	} else if err != nil && !errors.As(err, &config.KeyNotFoundError{}) {
		return err
	}
	if err = cfg.ConfigFile.Set(cfg.LogicalName, &connection); err != nil {
		return fmt.Errorf("error writing connections config file after adding: %v", err)
	}
	fmt.Fprintf(outputOrStdout(cfg.Out), "Connection %q added\n", cfg.LogicalName)
	return nil
}

func RunConnectionRemove(cfg *ConnectionConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if err := cfg.ConfigFile.Delete(cfg.LogicalName); err != nil {
		return fmt.Errorf("unable to delete connection %q from config: %v", cfg.LogicalName, err)
	}
	fmt.Fprintf(outputOrStdout(cfg.Out), "Connection %q removed\n", cfg.LogicalName)
	return nil
}

// RunConnectionList prints every connection with secrets redacted.
func RunConnectionList(f ConnectionGetterSetter, out io.Writer) error {
	keys, err := f.GetAllKeys()
	if err != nil {
		return err
	}
	out = outputOrStdout(out)
	for _, k := range keys {
		conn := shared.ConnectionDetails{}
		if err = f.Get(k, &conn); err != nil {
			return err
		}
		fmt.Fprintf(out, "%v:\n%v\n", k, conn)
	}
	return nil
}
