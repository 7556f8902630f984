package keymap

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"
	"github.com/mitchellh/mapstructure"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/stream"
)

var civilDateType = reflect.TypeOf(civil.Date{})

// toInt64 accepts the integer shapes a store may hand back: native ints, integral floats
// (JSON numbers) and integer text. Anything else is an error rather than a silent truncation.
func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("value %v overflows int64", x)
		}
		return int64(x), nil
	case float32:
		return toInt64(float64(x))
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, fmt.Errorf("value %v is not integral", x)
		}
		return int64(x), nil
	case []byte:
		return toInt64(string(x))
	case string:
		s := strings.TrimSpace(x)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not an integer", x)
		}
		return toInt64(f)
	case nil:
		return 0, fmt.Errorf("value is null")
	default:
		return 0, fmt.Errorf("unsupported integer value type %T", v)
	}
}

func toCivilDate(v interface{}) (civil.Date, error) {
	switch x := v.(type) {
	case civil.Date:
		return x, nil
	case time.Time:
		return civil.DateOf(x), nil
	case []byte:
		return toCivilDate(string(x))
	case string:
		s := strings.TrimSpace(x)
		if len(s) > len(c.DateFormatIso) {
			s = s[:len(c.DateFormatIso)] // drop any time of day.
		}
		return civil.ParseDate(s)
	default:
		return civil.Date{}, fmt.Errorf("unsupported date value type %T", v)
	}
}

// storeValueHook normalizes values read back from a store before mapstructure assigns them.
func storeValueHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if data == nil {
		return data, nil
	}
	switch {
	case to == civilDateType:
		return toCivilDate(data)
	case to.Kind() == reflect.Int || to.Kind() == reflect.Int64:
		i, err := toInt64(data)
		if err != nil {
			return nil, err
		}
		if to.Kind() == reflect.Int {
			return int(i), nil
		}
		return i, nil
	case to.Kind() == reflect.String && from.Kind() != reflect.String:
		return helper.GetStringFromInterface(data), nil
	}
	return data, nil
}

// decodeRecord fills the struct pointed to by out from rec using the mapstructure tags of out.
func decodeRecord(rec stream.Record, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: storeValueHook,
		Result:     out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(rec.GetDataMap())
}
