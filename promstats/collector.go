// Package promstats exports dynarray allocator counters as Prometheus metrics.
package promstats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/dynarray"
)

// Collector is a prometheus.Collector reading an allocator's metrics on
// every scrape.
type Collector struct {
	src dynarray.MetricsSource

	bytesInUse *prometheus.Desc
	allocs     *prometheus.Desc
	frees      *prometheus.Desc
	reallocs   *prometheus.Desc
}

// NewCollector creates a Collector for src. Metric names are prefixed with
// namespace; constLabels are attached to every metric.
func NewCollector(namespace string, src dynarray.MetricsSource, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "allocator", name), help, nil, constLabels)
	}
	return &Collector{
		src:        src,
		bytesInUse: desc("bytes_in_use", "Bytes handed out to arrays and not yet freed."),
		allocs:     desc("allocs_total", "Zeroed allocations served."),
		frees:      desc("frees_total", "Buffers released."),
		reallocs:   desc("reallocs_total", "Buffers resized."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bytesInUse
	ch <- c.allocs
	ch <- c.frees
	ch <- c.reallocs
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.src.Metrics()
	ch <- prometheus.MustNewConstMetric(c.bytesInUse, prometheus.GaugeValue, float64(m.BytesInUse))
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(m.Allocs))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(m.Frees))
	ch <- prometheus.MustNewConstMetric(c.reallocs, prometheus.CounterValue, float64(m.Reallocs))
}
