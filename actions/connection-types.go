package actions

import (
	"sort"
	"strings"

	"github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/rdbms"
)

// targetConnectionTypes lists every type a load can write to, database or not.
var targetConnectionTypes = []string{
	constants.ConnectionTypeMySql,
	constants.ConnectionTypeNetezza,
	constants.ConnectionTypeOdbcSqlServer,
	constants.ConnectionTypePostgres,
	constants.ConnectionTypeSnowflake,
	constants.ConnectionTypeSqlServer,
	constants.ConnectionTypeSqlite,
	constants.ConnectionTypeRest,
	constants.ConnectionTypeMemory,
}

// IsSupportedConnectionType returns true if a load can target connections of the given type.
func IsSupportedConnectionType(t string) bool {
	switch t {
	case constants.ConnectionTypeRest, constants.ConnectionTypeMemory:
		return true
	}
	return rdbms.IsSupportedConnectionType(t)
}

// IsDatabaseConnectionType returns true if the type is opened through database/sql.
func IsDatabaseConnectionType(t string) bool {
	switch t {
	case constants.ConnectionTypeRest, constants.ConnectionTypeMemory:
		return false
	}
	return rdbms.IsSupportedConnectionType(t)
}

// GetSupportedConnectionTypes returns a comma separated, sorted list of connection types.
func GetSupportedConnectionTypes() string {
	return getSupportedConnectionTypes("")
}

// GetSupportedOdbcConnectionTypes returns the types that use an odbc+ scheme.
func GetSupportedOdbcConnectionTypes() string {
	return getSupportedConnectionTypes(constants.ConnectionTypeOdbc)
}

func getSupportedConnectionTypes(prefix string) string {
	s := make([]string, 0, len(targetConnectionTypes))
	for _, t := range targetConnectionTypes {
		if strings.HasPrefix(t, prefix) && IsSupportedConnectionType(t) {
			s = append(s, t)
		}
	}
	sort.Strings(s)
	return strings.Join(s, ", ")
}
