package build

import (
	"sync"
	"time"
)

// Metrics tracks pipeline activity across runs. The watch command keeps one
// pipeline alive over many rebuild cycles, so counters accumulate until Reset.
type Metrics struct {
	mutex            sync.RWMutex
	totalBuilds      int64
	successfulBuilds int64
	failedBuilds     int64
	cacheHits        int64
	totalDuration    time.Duration
}

// MetricsSnapshot is a point-in-time copy of the pipeline counters.
type MetricsSnapshot struct {
	TotalBuilds      int64
	SuccessfulBuilds int64
	FailedBuilds     int64
	CacheHits        int64
	TotalDuration    time.Duration
	AverageDuration  time.Duration
}

// NewMetrics creates zeroed pipeline metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record tallies a single document result.
func (m *Metrics) Record(result DocumentResult) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.totalBuilds++
	if result.Failed() {
		m.failedBuilds++
	} else {
		m.successfulBuilds++
	}
	if result.CacheHit {
		m.cacheHits++
	}
	m.totalDuration += result.Duration
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snapshot := MetricsSnapshot{
		TotalBuilds:      m.totalBuilds,
		SuccessfulBuilds: m.successfulBuilds,
		FailedBuilds:     m.failedBuilds,
		CacheHits:        m.cacheHits,
		TotalDuration:    m.totalDuration,
	}
	if m.totalBuilds > 0 {
		snapshot.AverageDuration = m.totalDuration / time.Duration(m.totalBuilds)
	}
	return snapshot
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.totalBuilds = 0
	m.successfulBuilds = 0
	m.failedBuilds = 0
	m.cacheHits = 0
	m.totalDuration = 0
}
