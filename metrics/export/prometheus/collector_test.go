package prometheus

import (
	"testing"

	goLiveness "github.com/MrEthical07/goLiveness"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorGathersCountersAndHistogram(t *testing.T) {
	reg := prom.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(fakeSource{
		snapshot: goLiveness.MetricsSnapshot{
			Counters: map[goLiveness.MetricID]uint64{
				goLiveness.MetricRefreshMissing: 4,
			},
			Histograms: map[goLiveness.MetricID][]uint64{
				goLiveness.MetricCheckLatency: {2, 0, 1, 0, 0, 0, 0, 1},
			},
		},
		dropped: 3,
	})))

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	var histCount uint64
	var firstBucket uint64
	for _, mf := range families {
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			byName[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetHistogram() != nil:
			histCount = m.GetHistogram().GetSampleCount()
			firstBucket = m.GetHistogram().GetBucket()[0].GetCumulativeCount()
		}
	}

	assert.Equal(t, 4.0, byName["goliveness_refresh_missing_total"])
	assert.Equal(t, 0.0, byName["goliveness_termination_total"])
	assert.Equal(t, 3.0, byName["goliveness_audit_dropped_total"])
	assert.Equal(t, uint64(4), histCount)
	assert.Equal(t, uint64(2), firstBucket)
}

func TestCollectorSkipsDisabledHistogram(t *testing.T) {
	reg := prom.NewRegistry()
	require.NoError(t, reg.Register(NewCollector(fakeSource{
		snapshot: goLiveness.MetricsSnapshot{
			Counters:   map[goLiveness.MetricID]uint64{},
			Histograms: map[goLiveness.MetricID][]uint64{},
		},
	})))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		assert.NotEqual(t, "goliveness_check_latency_seconds", mf.GetName())
	}
}
