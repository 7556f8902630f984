package stats

import (
	"sync"
	"time"

	"github.com/cevaris/ordered_map"
	"github.com/relloyd/hotelpipe/logger"
)

type StatsFetcher interface {
	GetStats() []Stats
}

// RunStats keeps the StageWatcher of every stage in the order the stages were added,
// optionally logging them on a ticker while the run is in progress.
type RunStats struct {
	mu              sync.Mutex
	log             logger.Logger
	stages          *ordered_map.OrderedMap
	tickerFrequency time.Duration
	ticker          *time.Ticker
	tickerDone      chan struct{}
}

// SetStatsDumpFrequency returns an option for NewRunStats. Zero disables periodic dumps.
func SetStatsDumpFrequency(d time.Duration) func(r *RunStats) {
	return func(r *RunStats) {
		r.tickerFrequency = d
	}
}

func NewRunStats(log logger.Logger, options ...func(r *RunStats)) *RunStats {
	r := &RunStats{log: log, stages: ordered_map.NewOrderedMap()}
	for _, option := range options {
		option(r)
	}
	return r
}

// AddStageWatcher creates the watcher for stageName, replacing any earlier one.
func (r *RunStats) AddStageWatcher(stageName string) *StageWatcher {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := NewStageWatcher(stageName)
	r.stages.Set(stageName, w)
	return w
}

// GetStats implements interface StatsFetcher{}.
func (r *RunStats) GetStats() []Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	retval := make([]Stats, 0, r.stages.Len())
	iter := r.stages.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Value.(*StageWatcher).RenderStats())
	}
	return retval
}

func (r *RunStats) StartDumping() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ticker != nil || r.tickerFrequency <= 0 {
		return
	}
	r.ticker = time.NewTicker(r.tickerFrequency)
	r.tickerDone = make(chan struct{})
	go func(ticker *time.Ticker, done chan struct{}) {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				r.logStats()
			}
		}
	}(r.ticker, r.tickerDone)
}

// StopDumping stops the ticker and logs the final stats, only if StartDumping started it.
func (r *RunStats) StopDumping() {
	r.mu.Lock()
	if r.ticker == nil {
		r.mu.Unlock()
		return
	}
	r.ticker.Stop()
	close(r.tickerDone)
	r.ticker = nil
	r.mu.Unlock()
	r.logStats()
}

func (r *RunStats) logStats() {
	for _, s := range r.GetStats() {
		r.log.Info(s.String())
	}
}
