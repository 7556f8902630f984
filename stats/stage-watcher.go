package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Stage statuses.
const (
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// StageWatcher records the timing and row counts of one pipeline stage.
// Row counters may be updated while the stage runs and read concurrently by a RunStats dumper.
type StageWatcher struct {
	stageName string
	rowsIn    int64
	rowsOut   int64
	mu        sync.Mutex
	status    string
	startTime time.Time
	stopTime  time.Time
}

type Stats struct {
	StageName   string `json:"stageName"`
	StatusText  string `json:"statusText"`
	StatusEmoji string `json:"-"`
	ElapsedMs   int64  `json:"elapsedMs"`
	RowsIn      int64  `json:"rowsIn"`
	RowsOut     int64  `json:"rowsOut"`
}

func NewStageWatcher(stageName string) *StageWatcher {
	return &StageWatcher{stageName: stageName, status: StatusPending}
}

func (w *StageWatcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.startTime = time.Now()
	w.status = StatusRunning
}

// Stop ends the stage, marking it failed when err is not nil.
func (w *StageWatcher) Stop(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopTime = time.Now()
	if err != nil {
		w.status = StatusFailed
	} else {
		w.status = StatusComplete
	}
}

func (w *StageWatcher) AddRowsIn(n int) {
	atomic.AddInt64(&w.rowsIn, int64(n))
}

func (w *StageWatcher) AddRowsOut(n int) {
	atomic.AddInt64(&w.rowsOut, int64(n))
}

// RenderStats returns the stats at the time of the call.
func (w *StageWatcher) RenderStats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	var elapsed time.Duration
	switch w.status {
	case StatusRunning:
		elapsed = time.Since(w.startTime)
	case StatusComplete, StatusFailed:
		elapsed = w.stopTime.Sub(w.startTime)
	}
	var emoji string
	switch w.status {
	case StatusRunning:
		emoji = "\U0000231B" // hour glass
	case StatusComplete:
		emoji = "\U00002705" // green tick
	case StatusFailed:
		emoji = "\U0000274C" // cross
	}
	return Stats{
		StageName:   w.stageName,
		StatusText:  w.status,
		StatusEmoji: emoji,
		ElapsedMs:   elapsed.Milliseconds(),
		RowsIn:      atomic.LoadInt64(&w.rowsIn),
		RowsOut:     atomic.LoadInt64(&w.rowsOut),
	}
}

// String will format the stats for general logging.
func (s Stats) String() string {
	return fmt.Sprintf(
		"Stats for %v %v %v "+
			"elapsedMs=%v "+
			"rowsIn=%v "+
			"rowsOut=%v",
		s.StageName, s.StatusText, s.StatusEmoji,
		s.ElapsedMs,
		s.RowsIn,
		s.RowsOut,
	)
}
