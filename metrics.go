package chromatch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    addCounter       prometheus.Counter
//	    compareHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordAddModel(duration time.Duration, err error) {
//	    p.addCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordAddModel is called after each add-model operation.
	// duration is the total time taken, err is nil if successful.
	RecordAddModel(duration time.Duration, err error)

	// RecordRemoveModel is called after each remove operation.
	// found is false when the name was not present.
	RecordRemoveModel(found bool)

	// RecordCompare is called after each comparison operation.
	// models is the number of stored models scored, duration is the
	// time taken, err is nil if successful.
	RecordCompare(models int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAddModel(time.Duration, error)     {}
func (NoopMetricsCollector) RecordRemoveModel(bool)                  {}
func (NoopMetricsCollector) RecordCompare(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddModelCount      atomic.Int64
	AddModelErrors     atomic.Int64
	AddModelTotalNanos atomic.Int64
	RemoveCount        atomic.Int64
	RemoveMisses       atomic.Int64
	CompareCount       atomic.Int64
	CompareErrors      atomic.Int64
	CompareTotalNanos  atomic.Int64
	CompareModels      atomic.Int64
}

// RecordAddModel implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAddModel(duration time.Duration, err error) {
	b.AddModelCount.Add(1)
	b.AddModelTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AddModelErrors.Add(1)
	}
}

// RecordRemoveModel implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemoveModel(found bool) {
	b.RemoveCount.Add(1)
	if !found {
		b.RemoveMisses.Add(1)
	}
}

// RecordCompare implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompare(models int, duration time.Duration, err error) {
	b.CompareCount.Add(1)
	b.CompareTotalNanos.Add(duration.Nanoseconds())
	b.CompareModels.Add(int64(models))
	if err != nil {
		b.CompareErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddModelCount:    b.AddModelCount.Load(),
		AddModelErrors:   b.AddModelErrors.Load(),
		AddModelAvgNanos: b.getAvgAddModelNanos(),
		RemoveCount:      b.RemoveCount.Load(),
		RemoveMisses:     b.RemoveMisses.Load(),
		CompareCount:     b.CompareCount.Load(),
		CompareErrors:    b.CompareErrors.Load(),
		CompareAvgNanos:  b.getAvgCompareNanos(),
		CompareModels:    b.CompareModels.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgAddModelNanos() int64 {
	count := b.AddModelCount.Load()
	if count == 0 {
		return 0
	}
	return b.AddModelTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgCompareNanos() int64 {
	count := b.CompareCount.Load()
	if count == 0 {
		return 0
	}
	return b.CompareTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddModelCount    int64
	AddModelErrors   int64
	AddModelAvgNanos int64
	RemoveCount      int64
	RemoveMisses     int64
	CompareCount     int64
	CompareErrors    int64
	CompareAvgNanos  int64
	CompareModels    int64
}
