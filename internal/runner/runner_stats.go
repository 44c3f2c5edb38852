package runner

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hibari/internal/util"
)

// Stats aggregates run counters. All methods are safe for concurrent
// use; the interval logger reads while query execution writes.
type Stats struct {
	mu          sync.Mutex
	queries     int64
	sqlValid    int64
	timeouts    int64
	whitelisted int64
	bugs        int64
	slow        int64
	latencies   []time.Duration
	oracleRuns  map[string]int64
	oracleBugs  map[string]int64
	oracleSkips map[string]int64
}

// NewStats returns an empty stats collector.
func NewStats() *Stats {
	return &Stats{
		oracleRuns:  make(map[string]int64),
		oracleBugs:  make(map[string]int64),
		oracleSkips: make(map[string]int64),
	}
}

func (s *Stats) ObserveQuery(d time.Duration, valid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	if valid {
		s.sqlValid++
	}
	s.latencies = append(s.latencies, d)
}

func (s *Stats) ObserveSlow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slow++
}

func (s *Stats) ObserveTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts++
}

func (s *Stats) ObserveWhitelisted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whitelisted++
}

func (s *Stats) ObserveBug() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bugs++
}

func (s *Stats) ObserveOracle(name string, bug bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oracleRuns[name]++
	if bug {
		s.oracleBugs[name]++
	}
}

func (s *Stats) ObserveSkip(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oracleSkips[name]++
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Queries     int64
	SQLValid    int64
	Timeouts    int64
	Whitelisted int64
	Bugs        int64
	Slow        int64
	P50         time.Duration
	P95         time.Duration
	P99         time.Duration
	OracleRuns  map[string]int64
	OracleBugs  map[string]int64
	OracleSkips map[string]int64
}

// Snapshot copies the counters and computes latency percentiles.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Queries:     s.queries,
		SQLValid:    s.sqlValid,
		Timeouts:    s.timeouts,
		Whitelisted: s.whitelisted,
		Bugs:        s.bugs,
		Slow:        s.slow,
		OracleRuns:  copyCounts(s.oracleRuns),
		OracleBugs:  copyCounts(s.oracleBugs),
		OracleSkips: copyCounts(s.oracleSkips),
	}
	sorted := append([]time.Duration(nil), s.latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	snap.P50 = percentile(sorted, 50)
	snap.P95 = percentile(sorted, 95)
	snap.P99 = percentile(sorted, 99)
	return snap
}

// percentile reads the p-th percentile from an ascending slice using
// the nearest-rank method.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// startStatsLogger periodically logs counter deltas. The returned stop
// function halts the logger; it is safe to call once.
func (r *Runner) startStatsLogger() func() {
	interval := time.Duration(r.cfg.Logging.ReportIntervalSeconds) * time.Second
	if interval <= 0 {
		return func() {}
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		var last Snapshot
		for {
			select {
			case <-ticker.C:
				snap := r.stats.Snapshot()
				delta := snap.Queries - last.Queries
				if delta > 0 {
					util.Infof("queries last interval: %d qps=%.1f valid=%d timeouts=%d whitelisted=%d bugs=%d slow=%d",
						delta,
						float64(delta)/interval.Seconds(),
						snap.SQLValid-last.SQLValid,
						snap.Timeouts-last.Timeouts,
						snap.Whitelisted-last.Whitelisted,
						snap.Bugs-last.Bugs,
						snap.Slow-last.Slow,
					)
				}
				last = snap
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		ticker.Stop()
	}
}

// logSummary prints the final aggregate counters and latency profile.
func (r *Runner) logSummary() {
	snap := r.stats.Snapshot()
	util.Infof("run summary queries=%d sql_valid=%d timeouts=%d whitelisted=%d bugs=%d slow=%d",
		snap.Queries, snap.SQLValid, snap.Timeouts, snap.Whitelisted, snap.Bugs, snap.Slow)
	util.Infof("latency p50=%s p95=%s p99=%s", snap.P50, snap.P95, snap.P99)

	names := make([]string, 0, len(snap.OracleRuns))
	for name := range snap.OracleRuns {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d/%d", name, snap.OracleBugs[name], snap.OracleRuns[name]))
	}
	if len(parts) > 0 {
		util.Infof("oracle bugs/runs: %s", strings.Join(parts, " "))
	}
	if snap.Bugs > 0 {
		util.Highlightf("%d bug case(s) recorded under %s", snap.Bugs, r.cfg.Reports.OutputDir)
	}
}
