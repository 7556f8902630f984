package fact

import (
	"fmt"
	"strings"
)

// Dimension names used in mismatch reports and rejects.
const (
	DimensionHotel    = "hotel"
	DimensionDate     = "date"
	DimensionCustomer = "customer"
	DimensionAgent    = "agent"
)

// MappingResolutionGap is a natural key that has no surrogate id in its dimension mapping.
type MappingResolutionGap struct {
	Dimension string
	Key       string
}

func (g MappingResolutionGap) Error() string {
	return fmt.Sprintf("no %v id found for key %v", g.Dimension, g.Key)
}

// Mismatch counts the unresolved keys of one dimension.
type Mismatch struct {
	Rows     int      `json:"rows"`     // rows affected
	Distinct int      `json:"distinct"` // distinct keys
	Samples  []string `json:"samples"`  // first distinct keys seen
	seen     map[string]struct{}
}

func newMismatch() *Mismatch {
	return &Mismatch{Samples: make([]string, 0), seen: make(map[string]struct{})}
}

func (m *Mismatch) add(key string, sampleSize int) {
	m.Rows++
	if _, ok := m.seen[key]; ok {
		return
	}
	m.seen[key] = struct{}{}
	m.Distinct++
	if len(m.Samples) < sampleSize {
		m.Samples = append(m.Samples, key)
	}
}

// MismatchReport holds a Mismatch for every dimension, including those without gaps.
type MismatchReport struct {
	Hotel    *Mismatch `json:"hotel"`
	Date     *Mismatch `json:"date"`
	Customer *Mismatch `json:"customer"`
	Agent    *Mismatch `json:"agent"`
}

func NewMismatchReport() *MismatchReport {
	return &MismatchReport{
		Hotel:    newMismatch(),
		Date:     newMismatch(),
		Customer: newMismatch(),
		Agent:    newMismatch(),
	}
}

// Get returns the Mismatch of the named dimension or nil.
func (r *MismatchReport) Get(dimension string) *Mismatch {
	switch dimension {
	case DimensionHotel:
		return r.Hotel
	case DimensionDate:
		return r.Date
	case DimensionCustomer:
		return r.Customer
	case DimensionAgent:
		return r.Agent
	}
	return nil
}

func (r *MismatchReport) record(g MappingResolutionGap, sampleSize int) {
	if m := r.Get(g.Dimension); m != nil {
		m.add(g.Key, sampleSize)
	}
}

// Empty reports whether no gaps were recorded.
func (r *MismatchReport) Empty() bool {
	return r.Hotel.Rows+r.Date.Rows+r.Customer.Rows+r.Agent.Rows == 0
}

func (r *MismatchReport) String() string {
	lines := make([]string, 0, 4)
	for _, d := range []string{DimensionHotel, DimensionDate, DimensionCustomer, DimensionAgent} {
		m := r.Get(d)
		l := fmt.Sprintf("%v: %d rows, %d distinct missing keys", d, m.Rows, m.Distinct)
		if len(m.Samples) > 0 {
			l += fmt.Sprintf("; sample %v", strings.Join(m.Samples, " | "))
		}
		lines = append(lines, l)
	}
	return strings.Join(lines, "\n")
}
