package api

import (
	"fmt"
	"io"
	"net/http"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"catalog/internal/version"
)

// Metrics collects request metrics and writes them in the Prometheus text
// exposition format.
type Metrics struct {
	renders      *Counter
	cacheLookups *Counter
	errors       *Counter

	renderDuration *Histogram

	documentBytes *Gauge

	startTime time.Time
}

// Counter is a monotonically increasing counter
type Counter struct {
	name   string
	help   string
	labels []string
	values sync.Map // label key -> *uint64
}

// Histogram tracks distributions of values
type Histogram struct {
	name    string
	help    string
	labels  []string
	buckets []float64
	values  sync.Map // label key -> *histogramValue
}

type histogramValue struct {
	mu      sync.Mutex
	sum     float64
	count   uint64
	buckets []uint64 // last slot is +Inf
}

// Gauge is a metric that can go up and down
type Gauge struct {
	name   string
	help   string
	labels []string
	values sync.Map // label key -> *float64
}

// NewMetrics creates an empty collector
func NewMetrics() *Metrics {
	return &Metrics{
		renders: &Counter{
			name:   "catalog_renders_total",
			help:   "Documents served, by dataset and format",
			labels: []string{"dataset", "format"},
		},
		cacheLookups: &Counter{
			name:   "catalog_render_cache_lookups_total",
			help:   "Render cache lookups, by result",
			labels: []string{"result"},
		},
		errors: &Counter{
			name:   "catalog_errors_total",
			help:   "Error responses, by error code",
			labels: []string{"code"},
		},
		renderDuration: &Histogram{
			name:    "catalog_render_duration_seconds",
			help:    "Time spent building a document",
			labels:  []string{"format"},
			buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		documentBytes: &Gauge{
			name:   "catalog_document_bytes",
			help:   "Size of the last document served, by dataset and format",
			labels: []string{"dataset", "format"},
		},
		startTime: time.Now(),
	}
}

// RecordRender records a served document.
func (m *Metrics) RecordRender(dataset, format string, size int) {
	m.renders.Inc(dataset, format)
	m.documentBytes.Set(float64(size), dataset, format)
}

// ObserveBuild records the time spent encoding a document.
func (m *Metrics) ObserveBuild(format string, d time.Duration) {
	m.renderDuration.Observe(d.Seconds(), format)
}

// RecordCacheLookup records a render cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if hit {
		m.cacheLookups.Inc("hit")
	} else {
		m.cacheLookups.Inc("miss")
	}
}

// RecordError records an error response.
func (m *Metrics) RecordError(code string) {
	m.errors.Inc(code)
}

// WritePrometheus writes all metrics
func (m *Metrics) WritePrometheus(w io.Writer) {
	fmt.Fprintf(w, "# HELP catalog_info Build information\n")
	fmt.Fprintf(w, "# TYPE catalog_info gauge\n")
	fmt.Fprintf(w, "catalog_info{version=%q} 1\n\n", version.Version)

	fmt.Fprintf(w, "# HELP catalog_uptime_seconds Time since the server started\n")
	fmt.Fprintf(w, "# TYPE catalog_uptime_seconds counter\n")
	fmt.Fprintf(w, "catalog_uptime_seconds %.3f\n\n", time.Since(m.startTime).Seconds())

	fmt.Fprintf(w, "# HELP catalog_goroutines Number of goroutines\n")
	fmt.Fprintf(w, "# TYPE catalog_goroutines gauge\n")
	fmt.Fprintf(w, "catalog_goroutines %d\n\n", runtime.NumGoroutine())

	m.renders.write(w)
	m.cacheLookups.write(w)
	m.errors.write(w)
	m.renderDuration.write(w)
	m.documentBytes.write(w)
}

// labelKey renders label pairs as {a="x",b="y"}; no labels give "".
func labelKey(labels, values []string) string {
	if len(labels) == 0 || len(values) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(labels))
	for i, label := range labels {
		if i < len(values) {
			pairs = append(pairs, fmt.Sprintf("%s=%q", label, values[i]))
		}
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func sortedKeys(m *sync.Map) []string {
	var keys []string
	m.Range(func(key, _ interface{}) bool {
		keys = append(keys, key.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}

// Inc adds one
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add adds delta
func (c *Counter) Add(delta uint64, labelValues ...string) {
	val, _ := c.values.LoadOrStore(labelKey(c.labels, labelValues), new(uint64))
	atomic.AddUint64(val.(*uint64), delta)
}

// Value returns the current count for the label values
func (c *Counter) Value(labelValues ...string) uint64 {
	if val, ok := c.values.Load(labelKey(c.labels, labelValues)); ok {
		return atomic.LoadUint64(val.(*uint64))
	}
	return 0
}

func (c *Counter) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n", c.name, c.help)
	fmt.Fprintf(w, "# TYPE %s counter\n", c.name)
	for _, key := range sortedKeys(&c.values) {
		val, _ := c.values.Load(key)
		fmt.Fprintf(w, "%s%s %d\n", c.name, key, atomic.LoadUint64(val.(*uint64)))
	}
	fmt.Fprintln(w)
}

// Observe records one value
func (h *Histogram) Observe(value float64, labelValues ...string) {
	val, _ := h.values.LoadOrStore(labelKey(h.labels, labelValues), &histogramValue{
		buckets: make([]uint64, len(h.buckets)+1),
	})
	hv := val.(*histogramValue)

	hv.mu.Lock()
	defer hv.mu.Unlock()

	hv.sum += value
	hv.count++

	idx := len(h.buckets)
	for i, bound := range h.buckets {
		if value <= bound {
			idx = i
			break
		}
	}
	hv.buckets[idx]++
}

// withLe appends the le label to a label key
func withLe(key, le string) string {
	if key == "" {
		return `{le="` + le + `"}`
	}
	return key[:len(key)-1] + `,le="` + le + `"}`
}

func (h *Histogram) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n", h.name, h.help)
	fmt.Fprintf(w, "# TYPE %s histogram\n", h.name)
	for _, key := range sortedKeys(&h.values) {
		val, _ := h.values.Load(key)
		hv := val.(*histogramValue)

		hv.mu.Lock()
		cumulative := uint64(0)
		for i, bound := range h.buckets {
			cumulative += hv.buckets[i]
			fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(key, fmt.Sprintf("%g", bound)), cumulative)
		}
		cumulative += hv.buckets[len(h.buckets)]
		fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(key, "+Inf"), cumulative)
		fmt.Fprintf(w, "%s_sum%s %.6f\n", h.name, key, hv.sum)
		fmt.Fprintf(w, "%s_count%s %d\n", h.name, key, hv.count)
		hv.mu.Unlock()
	}
	fmt.Fprintln(w)
}

// Set stores the gauge value
func (g *Gauge) Set(value float64, labelValues ...string) {
	ptr := new(float64)
	*ptr = value
	g.values.Store(labelKey(g.labels, labelValues), ptr)
}

func (g *Gauge) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n", g.name, g.help)
	fmt.Fprintf(w, "# TYPE %s gauge\n", g.name)
	for _, key := range sortedKeys(&g.values) {
		val, _ := g.values.Load(key)
		fmt.Fprintf(w, "%s%s %g\n", g.name, key, *val.(*float64))
	}
	fmt.Fprintln(w)
}

// handleMetrics handles GET /metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	s.metrics.WritePrometheus(w)
}
