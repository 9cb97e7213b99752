package prometheus

import (
	"github.com/MrEthical07/goLiveness/metrics/export/internaldefs"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Collector adapts a [Source] to a client_golang registry. It emits the same
// series as [Exporter.Render].
type Collector struct {
	source     Source
	counters   []*prom.Desc
	histograms []*prom.Desc
	dropped    *prom.Desc
}

var _ prom.Collector = (*Collector)(nil)

// NewCollector creates a Collector reading from source.
func NewCollector(source Source) *Collector {
	c := &Collector{
		source:     source,
		counters:   make([]*prom.Desc, len(internaldefs.CounterDefs)),
		histograms: make([]*prom.Desc, len(internaldefs.HistogramDefs)),
		dropped:    prom.NewDesc(internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, nil, nil),
	}
	for i, def := range internaldefs.CounterDefs {
		c.counters[i] = prom.NewDesc(def.Name, def.Help, nil, nil)
	}
	for i, def := range internaldefs.HistogramDefs {
		c.histograms[i] = prom.NewDesc(def.Name, def.Help, nil, nil)
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prom.Desc) {
	for _, d := range c.counters {
		ch <- d
	}
	for _, d := range c.histograms {
		ch <- d
	}
	ch <- c.dropped
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prom.Metric) {
	snapshot := c.source.MetricsSnapshot()

	for i, def := range internaldefs.CounterDefs {
		ch <- prom.MustNewConstMetric(c.counters[i], prom.CounterValue, float64(snapshot.Counters[def.ID]))
	}

	for i, def := range internaldefs.HistogramDefs {
		raw, ok := snapshot.Histograms[def.ID]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		buckets := make(map[float64]uint64, len(internaldefs.HistogramUpperBounds))
		for j, le := range internaldefs.HistogramUpperBounds {
			buckets[le] = cumulative[j]
		}
		ch <- prom.MustNewConstHistogram(c.histograms[i], cumulative[len(cumulative)-1], 0, buckets)
	}

	ch <- prom.MustNewConstMetric(c.dropped, prom.CounterValue, float64(c.source.AuditDropped()))
}
