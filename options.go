package assetcache

import "log/slog"

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithLogger sets the structured logger. The default discards all
// output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMemoryBudget sets the initial memory budget in bytes. 0 means
// unlimited. The budget is a soft cap: critical entries are retained
// even when that leaves it exceeded.
func WithMemoryBudget(bytes int64) Option {
	return func(m *Manager) {
		m.budget.Store(bytes)
	}
}

// WithWorkers sets the number of async-load workers. If n <= 0 the pool
// sizes itself to the available parallelism, with a floor of 4.
func WithWorkers(n int) Option {
	return func(m *Manager) {
		m.workers = n
	}
}

// WithMetricsCollector sets the metrics sink. The default is a no-op.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(m *Manager) {
		if mc != nil {
			m.metrics = mc
		}
	}
}

// WithMaxConcurrentLoads caps simultaneous loader invocations across
// the sync and async paths. 0 means unlimited. Useful when loaders call
// into a device layer that tolerates only limited concurrency.
func WithMaxConcurrentLoads(n int64) Option {
	return func(m *Manager) {
		m.maxConcurrentLoads = n
	}
}

// WithIOLimit caps aggregate loader read throughput in bytes per
// second. 0 means unlimited. The limiter is exposed via
// Manager.IOLimiter for use with the assetio helpers.
func WithIOLimit(bytesPerSec int64) Option {
	return func(m *Manager) {
		m.ioLimit = bytesPerSec
	}
}
