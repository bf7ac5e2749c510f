package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	Runs             uint64            `json:"runs"`
	RunsFailed       uint64            `json:"runs_failed"`
	PagesFetched     uint64            `json:"pages_fetched"`
	RecordsExtracted uint64            `json:"records_extracted"`
	RecordsPublished uint64            `json:"records_published"`
	ErrorsTotal      uint64            `json:"errors_total"`
	RunSecondsAvg    float64           `json:"run_seconds_avg"`
	ErrorsByKind     map[string]uint64 `json:"errors_by_kind,omitempty"`
	ErrorsBySource   map[string]uint64 `json:"errors_by_source,omitempty"`
}

var (
	runs             uint64
	runsFailed       uint64
	pagesFetched     uint64
	recordsExtracted uint64
	recordsPublished uint64
	errorsTotal      uint64

	runCount uint64
	runNanos uint64

	statsMu        sync.Mutex
	errorsByKind   = map[string]uint64{}
	errorsBySource = map[string]uint64{}
)

func IncRun(failed bool) {
	atomic.AddUint64(&runs, 1)
	if failed {
		atomic.AddUint64(&runsFailed, 1)
	}
}

func IncPagesFetched(_ string) {
	atomic.AddUint64(&pagesFetched, 1)
}

func AddRecordsExtracted(_ string, n int) {
	if n <= 0 {
		return
	}
	atomic.AddUint64(&recordsExtracted, uint64(n))
}

func SetRecordsPublished(n int) {
	if n < 0 {
		n = 0
	}
	atomic.StoreUint64(&recordsPublished, uint64(n))
}

func ObserveRunDuration(seconds float64) {
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&runCount, 1)
	atomic.AddUint64(&runNanos, uint64(seconds*1e9))
}

func IncError(kind, source string) {
	if kind == "" {
		kind = ErrorUnknown
	}
	if source == "" {
		source = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByKind[kind]++
	errorsBySource[source]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	kindCopy := copyMap(errorsByKind)
	sourceCopy := copyMap(errorsBySource)
	statsMu.Unlock()

	count := atomic.LoadUint64(&runCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&runNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		Runs:             atomic.LoadUint64(&runs),
		RunsFailed:       atomic.LoadUint64(&runsFailed),
		PagesFetched:     atomic.LoadUint64(&pagesFetched),
		RecordsExtracted: atomic.LoadUint64(&recordsExtracted),
		RecordsPublished: atomic.LoadUint64(&recordsPublished),
		ErrorsTotal:      atomic.LoadUint64(&errorsTotal),
		RunSecondsAvg:    avg,
		ErrorsByKind:     kindCopy,
		ErrorsBySource:   sourceCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
