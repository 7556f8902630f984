package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/diegoholiveira/jsonlogic"
	"github.com/relloyd/hotelpipe/model"
)

// Filter keeps rows for which a JSON Logic rule evaluates to true.
// The rule sees the row keyed by source column name, e.g. {"==": [{"var": "hotel"}, "City Hotel"]}.
type Filter struct {
	rule   string
	result bytes.Buffer
}

// NewFilter validates rule and returns a Filter. An empty rule keeps every row.
func NewFilter(rule string) (*Filter, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return &Filter{}, nil
	}
	if !jsonlogic.IsValid(strings.NewReader(rule)) {
		return nil, fmt.Errorf("invalid JSON Logic filter rule: %v", rule)
	}
	return &Filter{rule: rule}, nil
}

// Keep reports whether r passes the rule.
func (f *Filter) Keep(r model.RawBookingRecord) (bool, error) {
	if f.rule == "" {
		return true, nil
	}
	data, err := json.Marshal(r.SourceValues())
	if err != nil {
		return false, err
	}
	f.result.Reset()
	if err := jsonlogic.Apply(strings.NewReader(f.rule), bytes.NewReader(data), &f.result); err != nil {
		return false, fmt.Errorf("error applying JSON Logic filter: %w", err)
	}
	return strings.TrimSpace(f.result.String()) == "true", nil
}
