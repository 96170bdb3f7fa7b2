package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects in-process counters for availability requests. There is no
// external metrics backend; the counters feed the health endpoint and logs.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64
	feedFetches   atomic.Int64

	started time.Time

	// Recent request durations, capped to maxDurations.
	durations    []time.Duration
	maxDurations int
}

// NewMetrics creates a new metrics collector.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		started:      time.Now(),
		durations:    make([]time.Duration, 0, maxDurations),
		maxDurations: maxDurations,
	}
}

// RecordRequest records one availability request and its duration.
func (m *Metrics) RecordRequest(d time.Duration) {
	m.requestTotal.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, d)
}

// RecordFailure records a failed availability request.
func (m *Metrics) RecordFailure() {
	m.requestFailed.Add(1)
}

// RecordFeedFetch records one upstream calendar fetch attempt.
func (m *Metrics) RecordFeedFetch() {
	m.feedFetches.Add(1)
}

// Snapshot is a point-in-time view of the collected counters.
type Snapshot struct {
	RequestTotal  int64         `json:"request_total"`
	RequestFailed int64         `json:"request_failed"`
	FeedFetches   int64         `json:"feed_fetches"`
	AvgDuration   time.Duration `json:"avg_duration_ms"`
	Uptime        time.Duration `json:"uptime_seconds"`
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	var total time.Duration
	for _, d := range m.durations {
		total += d
	}
	var avg time.Duration
	if len(m.durations) > 0 {
		avg = total / time.Duration(len(m.durations))
	}
	m.mu.Unlock()

	return Snapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		FeedFetches:   m.feedFetches.Load(),
		AvgDuration:   avg,
		Uptime:        time.Since(m.started),
	}
}
