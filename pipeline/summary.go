package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/relloyd/hotelpipe/fact"
	"github.com/relloyd/hotelpipe/stats"
)

// Summary is the outcome of a run. Run returns one whether or not the run failed.
type Summary struct {
	RunID          string               `json:"runId"`
	Status         string               `json:"status"`
	RerunPolicy    string               `json:"rerunPolicy"`
	StartedAt      time.Time            `json:"startedAt"`
	FinishedAt     time.Time            `json:"finishedAt"`
	RowsRead       int                  `json:"rowsRead"`
	Duplicates     int                  `json:"duplicates"`
	Filtered       int                  `json:"filtered"`
	Canonical      int                  `json:"canonicalRows"`
	Dimensions     map[string]int       `json:"dimensions"`
	Mapped         map[string]int       `json:"mapped"`
	FactsPrepared  int                  `json:"factsPrepared"`
	Rejected       int                  `json:"rejected"`
	FactsInserted  int                  `json:"factsInserted"`
	Batches        int                  `json:"batches"`
	FailedBatches  int                  `json:"failedBatches"`
	// FactLoadStatus is complete, partial or failed once fact batches have been attempted.
	FactLoadStatus string               `json:"factLoadStatus,omitempty"`
	Mismatches     *fact.MismatchReport `json:"mismatches"`
	RejectsFiles   []string             `json:"rejectsFiles,omitempty"`
	Stages         []stats.Stats        `json:"stages"`
	Error          string               `json:"error,omitempty"`
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the summary for a terminal.
func (s *Summary) String() string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "Run %v: %v\n", s.RunID, s.Status)
	if s.Error != "" {
		fmt.Fprintf(&b, "Error: %v\n", s.Error)
	}
	fmt.Fprintf(&b, "Rows read: %d; duplicates removed: %d; filtered: %d; canonical rows: %d\n",
		s.RowsRead, s.Duplicates, s.Filtered, s.Canonical)
	for _, k := range sortedKeys(s.Dimensions) {
		fmt.Fprintf(&b, "  %v: %d built, %d mapped\n", k, s.Dimensions[k], s.Mapped[k])
	}
	fmt.Fprintf(&b, "Facts prepared: %d; rejected rows: %d\n", s.FactsPrepared, s.Rejected)
	fmt.Fprintf(&b, "Facts inserted: %d in %d batches; failed batches: %d\n", s.FactsInserted, s.Batches, s.FailedBatches)
	if s.FactLoadStatus != "" {
		fmt.Fprintf(&b, "Fact load: %v\n", s.FactLoadStatus)
	}
	if s.Mismatches != nil {
		b.WriteString("Missing mappings:\n")
		for _, l := range strings.Split(s.Mismatches.String(), "\n") {
			b.WriteString("  " + l + "\n")
		}
	}
	for _, f := range s.RejectsFiles {
		fmt.Fprintf(&b, "Rejected rows written to %v\n", f)
	}
	for _, st := range s.Stages {
		fmt.Fprintf(&b, "  %v %v %v (%d ms, %d in, %d out)\n", st.StatusEmoji, st.StageName, st.StatusText, st.ElapsedMs, st.RowsIn, st.RowsOut)
	}
	return b.String()
}
