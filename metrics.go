package assetcache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational
// metrics. Implement it to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after each load attempt. hit is true when
	// the request was served from cache; err is nil on success.
	RecordLoad(duration time.Duration, hit bool, err error)

	// RecordEviction is called for each entry removed under budget
	// pressure.
	RecordEviction(bytes int64)

	// RecordGC is called after each garbage collection pass.
	RecordGC(removed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(time.Duration, bool, error) {}
func (NoopMetricsCollector) RecordEviction(int64)                  {}
func (NoopMetricsCollector) RecordGC(int, time.Duration)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external
// dependencies.
type BasicMetricsCollector struct {
	LoadCount      atomic.Int64
	LoadErrors     atomic.Int64
	LoadTotalNanos atomic.Int64
	CacheHits      atomic.Int64
	CacheMisses    atomic.Int64
	EvictionCount  atomic.Int64
	EvictionBytes  atomic.Int64
	GCRuns         atomic.Int64
	GCRemoved      atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, hit bool, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if hit {
		b.CacheHits.Add(1)
	} else {
		b.CacheMisses.Add(1)
	}
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordEviction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEviction(bytes int64) {
	b.EvictionCount.Add(1)
	b.EvictionBytes.Add(bytes)
}

// RecordGC implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGC(removed int, duration time.Duration) {
	b.GCRuns.Add(1)
	b.GCRemoved.Add(int64(removed))
}
