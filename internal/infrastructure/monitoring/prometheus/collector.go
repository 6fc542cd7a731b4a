// Package prometheus implements the metrics collector ports of the matching
// engine and the valuation orchestrator on top of the Prometheus client.
package prometheus

import (
	"net/http"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// defaultDurationBuckets cover the request-path latencies of the engine, from
// sub-millisecond cache hits to multi-second ML round trips.
var defaultDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Collector registers metrics lazily on first use.  Each metric name must be
// used with a consistent label-key set; that invariant is held by the calling
// code, which uses fixed label shapes per metric.
type Collector struct {
	namespace string
	registry  *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewCollector creates a Collector with its own registry, pre-populated with
// the standard Go and process collectors.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Collector{
		namespace:  namespace,
		registry:   registry,
		counters:   map[string]*prometheus.CounterVec{},
		gauges:     map[string]*prometheus.GaugeVec{},
		histograms: map[string]*prometheus.HistogramVec{},
	}
}

// IncCounter increments the named counter by one.
func (c *Collector) IncCounter(name string, labels map[string]string) {
	c.counter(name, labelKeys(labels)).With(prometheus.Labels(normalize(labels))).Inc()
}

// SetGauge sets the named gauge to value.
func (c *Collector) SetGauge(name string, value float64, labels map[string]string) {
	c.gauge(name, labelKeys(labels)).With(prometheus.Labels(normalize(labels))).Set(value)
}

// ObserveHistogram records one observation on the named histogram.
func (c *Collector) ObserveHistogram(name string, value float64, labels map[string]string) {
	c.histogram(name, labelKeys(labels)).With(prometheus.Labels(normalize(labels))).Observe(value)
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) counter(name string, keys []string) *prometheus.CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.counters[name]; ok {
		return v
	}
	v := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      name,
	}, keys)
	c.registry.MustRegister(v)
	c.counters[name] = v
	return v
}

func (c *Collector) gauge(name string, keys []string) *prometheus.GaugeVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.gauges[name]; ok {
		return v
	}
	v := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Name:      name,
	}, keys)
	c.registry.MustRegister(v)
	c.gauges[name] = v
	return v
}

func (c *Collector) histogram(name string, keys []string) *prometheus.HistogramVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.histograms[name]; ok {
		return v
	}
	v := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Name:      name,
		Buckets:   defaultDurationBuckets,
	}, keys)
	c.registry.MustRegister(v)
	c.histograms[name] = v
	return v
}

func labelKeys(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalize(labels map[string]string) map[string]string {
	if labels == nil {
		return map[string]string{}
	}
	return labels
}
