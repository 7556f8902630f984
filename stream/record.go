package stream

import (
	"bytes"
	"encoding/json"
	"fmt"

	om "github.com/cevaris/ordered_map"
	h "github.com/relloyd/hotelpipe/helper"
)

// Record is one row exchanged with a store: field names in insertion order mapped to values.
// Null values are represented by nil interfaces.
// Records are passed by value; they share the underlying ordered map.
type Record struct {
	data *om.OrderedMap
}

// NewRecord creates a new empty Record.
func NewRecord() Record {
	return Record{data: om.NewOrderedMap()}
}

// NewRecordFromValues builds a Record using fields[i] = values[i].
func NewRecordFromValues(fields []string, values []interface{}) (Record, error) {
	if len(fields) != len(values) {
		return Record{}, fmt.Errorf("mismatched record fields (%v) and values (%v)", len(fields), len(values))
	}
	r := NewRecord()
	for i, f := range fields {
		r.SetData(f, values[i])
	}
	return r, nil
}

func NewNilRecord() Record {
	return Record{}
}

func (sr Record) RecordIsNil() bool {
	return sr.data == nil
}

// SetData adds or replaces the field name. New fields go to the end of the field order.
func (sr Record) SetData(name string, value interface{}) {
	sr.data.Set(name, value)
}

// GetData returns the value of name and panics if the field does not exist.
func (sr Record) GetData(name string) interface{} {
	val, ok := sr.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("invalid key name %q supplied while trying to fetch value from record: %v", name, sr.Fields()))
	}
	return val
}

// Lookup returns the value of name and whether it exists.
func (sr Record) Lookup(name string) (interface{}, bool) {
	if sr.data == nil {
		return nil, false
	}
	return sr.data.Get(name)
}

// GetDataAsString returns the plain text form of the value of name.
func (sr Record) GetDataAsString(name string) string {
	return h.GetStringFromInterface(sr.GetData(name))
}

func (sr Record) GetDataLen() int {
	if sr.data == nil {
		return 0
	}
	return sr.data.Len()
}

// Fields returns the field names in order.
func (sr Record) Fields() []string {
	retval := make([]string, 0, sr.GetDataLen())
	if sr.data == nil {
		return retval
	}
	iter := sr.data.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Key.(string))
	}
	return retval
}

// Values returns the values of the given fields in the order requested.
func (sr Record) Values(fields []string) ([]interface{}, error) {
	retval := make([]interface{}, len(fields))
	for i, f := range fields {
		v, ok := sr.Lookup(f)
		if !ok {
			return nil, fmt.Errorf("field %q does not exist in record %v", f, sr.Fields())
		}
		retval[i] = v
	}
	return retval, nil
}

// GetDataMap returns an unordered copy of the record.
func (sr Record) GetDataMap() map[string]interface{} {
	retval := make(map[string]interface{}, sr.GetDataLen())
	if sr.data == nil {
		return retval
	}
	iter := sr.data.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval[kv.Key.(string)] = kv.Value
	}
	return retval
}

// Copy returns a new record holding the same fields and values.
func (sr Record) Copy() Record {
	retval := NewRecord()
	if sr.data == nil {
		return retval
	}
	iter := sr.data.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval.data.Set(kv.Key, kv.Value)
	}
	return retval
}

// MarshalJSON writes the record as a JSON object with keys in field order.
func (sr Record) MarshalJSON() ([]byte, error) {
	b := bytes.Buffer{}
	b.WriteByte('{')
	for i, f := range sr.Fields() {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(sr.GetData(f))
		if err != nil {
			return nil, fmt.Errorf("error marshalling value of field %q: %w", f, err)
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// String renders the record for logs.
func (sr Record) String() string {
	b, err := sr.MarshalJSON()
	if err != nil {
		return fmt.Sprint(sr.GetDataMap())
	}
	return string(b)
}
