package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one counter slot.
type MetricID uint16

const (
	MetricAccessCheck MetricID = iota
	MetricAccessExpiring
	MetricAccessMissing
	MetricAccessCheckError
	MetricRefreshCheck
	MetricRefreshExpiring
	MetricRefreshMissing
	MetricRefreshCheckError
	MetricTermination
	MetricTerminationFailure
	MetricWatchTick
	MetricCheckLatency
	MetricIDCount
)

const (
	HistBucketCount = 8
	cacheLineSize   = 64
)

type histogram struct {
	buckets [HistBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Config enables counters and the check latency histogram.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// Metrics holds lock-free counters and latency histograms.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [MetricIDCount]paddedCounter
	histograms    [MetricIDCount]histogram
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

func New(cfg Config) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatency,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram for id. Only MetricCheckLatency carries
// a histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id != MetricCheckLatency {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[BucketIndex(d)], 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= MetricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

func (m *Metrics) Snapshot() Snapshot {
	if m == nil || !m.enabled {
		return Snapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := Snapshot{
		Counters:   make(map[MetricID]uint64, int(MetricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < MetricIDCount; id++ {
		if id == MetricCheckLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, HistBucketCount)
		for i := 0; i < HistBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricCheckLatency].buckets[i])
		}
		s.Histograms[MetricCheckLatency] = buckets
	}

	return s
}

// BucketIndex maps a check duration to one of the fixed buckets
// (<=1ms, 2.5ms, 5ms, 10ms, 25ms, 50ms, 100ms, +Inf). Checks hit a local
// store or Redis, so the bounds sit lower than request latencies.
func BucketIndex(d time.Duration) int {
	switch {
	case d <= time.Millisecond:
		return 0
	case d <= 2500*time.Microsecond:
		return 1
	case d <= 5*time.Millisecond:
		return 2
	case d <= 10*time.Millisecond:
		return 3
	case d <= 25*time.Millisecond:
		return 4
	case d <= 50*time.Millisecond:
		return 5
	case d <= 100*time.Millisecond:
		return 6
	default:
		return 7
	}
}
