package shared

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relloyd/hotelpipe/constants"
	"github.com/xo/dburl"
)

// ConnectionDetails holds credentials for a logical store connection.
// Database connections keep a DSN under Data["dsn"]; other connections use their own keys.
type ConnectionDetails struct {
	Type        string            `json:"type" errorTxt:"connection type" mandatory:"yes" yaml:"type"`
	LogicalName string            `json:"logicalName" errorTxt:"connection logical name" mandatory:"yes" yaml:"logicalName"`
	Data        map[string]string `json:"data" yaml:"data"`
}

// secretKeys are Data keys whose values are never printed.
var secretKeys = map[string]struct{}{
	"password": {},
	"key":      {},
	"apiKey":   {},
}

// String redacts passwords and pretty-prints the contents of ConnectionDetails.
func (c ConnectionDetails) String() string {
	x := make([]string, 0, len(c.Data)+1)
	x = append(x, fmt.Sprintf("  type = %v", c.Type))
	if v, ok := c.Data[DefaultDsnConnectionKeyNames.Dsn]; ok { // if there's a DSN...
		x = append(x, fmt.Sprintf("  dsn = %v", RedactDsn(c.Type, v)))
		return strings.Join(x, "\n")
	}
	keys := make([]string, 0, len(c.Data))
	for k := range c.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := c.Data[k]
		if _, ok := secretKeys[k]; ok {
			v = "xxxxx"
		}
		x = append(x, fmt.Sprintf("  %v = %v", k, v))
	}
	return strings.Join(x, "\n")
}

// RedactDsn removes the password from dsn. DSNs that cannot be parsed are hidden entirely.
func RedactDsn(connectionType string, dsn string) string {
	switch connectionType {
	case constants.ConnectionTypeNetezza:
		return NetezzaConnectionDetails{Dsn: dsn}.String()
	case constants.ConnectionTypeSnowflake:
		if u, err := dburl.Parse(dsn); err == nil {
			return u.Redacted()
		}
		return "snowflake://xxxxx"
	default:
		u, err := dburl.Parse(dsn)
		if err != nil {
			return "xxxxx"
		}
		return u.Redacted()
	}
}
