package helper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	om "github.com/cevaris/ordered_map"
	"github.com/golang-sql/civil"
	"github.com/relloyd/hotelpipe/constants"
)

// StringSliceToOrderedMap adds each value in s to an ordered map with key and value set to the value in s.
func StringSliceToOrderedMap(s []string) *om.OrderedMap {
	retval := om.NewOrderedMap()
	for _, v := range s {
		retval.Set(v, v)
	}
	return retval
}

// OrderedMapValuesToStringSlice returns the values of m in insertion order.
// Values are expected to be strings (column names).
func OrderedMapValuesToStringSlice(m *om.OrderedMap) []string {
	if m == nil {
		return nil
	}
	retval := make([]string, 0, m.Len())
	iter := m.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, fmt.Sprint(kv.Value))
	}
	return retval
}

// CsvToStringSliceTrimSpaces converts 'f1, f2 ,f3' into a slice of values with spaces removed.
// An empty input gives an empty slice.
func CsvToStringSliceTrimSpaces(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	tokens := strings.Split(s, ",")
	for x := range tokens {
		tokens[x] = strings.TrimSpace(tokens[x])
	}
	return tokens
}

// SplitRight splits s at the last occurrence of c.
// If c is missing, return s, "".
func SplitRight(s string, c string) (string, string) {
	i := strings.LastIndex(s, c)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+len(c):]
}

// GenerateStringOfColsEqualsCols returns "src.col1 = tgt.col1<sep>src.col2 = tgt.col2".
func GenerateStringOfColsEqualsCols(colList []string, srcAlias string, tgtAlias string, separator string) string {
	retval := make([]string, len(colList))
	for idx, col := range colList {
		retval[idx] = fmt.Sprintf("%s.%s = %s.%s", srcAlias, col, tgtAlias, col)
	}
	return strings.Join(retval, separator)
}

// GetStringFromInterface converts a store or record value to its plain text form.
// Integral floats are printed without a decimal point so that 9.0 and 9 agree.
func GetStringFromInterface(input interface{}) string {
	switch v := input.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case bool:
		return strconv.FormatBool(v)
	case civil.Date:
		return v.String()
	case time.Time:
		return v.Format(constants.DateFormatIso)
	case *int64:
		if v == nil {
			return ""
		}
		return strconv.FormatInt(*v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bitSize int) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize) // 'f' preserves all decimal places without an exponent.
}
