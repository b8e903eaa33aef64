package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AggregationMetrics records what the sales aggregation silently filters.
// Orphaned references are dropped from results by policy, but they are
// counted here so stale catalog data stays visible to operators.
type AggregationMetrics struct {
	duration         *prometheus.HistogramVec
	orphanLineItems  prometheus.Counter
	orphanVendorRows prometheus.Counter
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
}

// NewAggregationMetrics registers the aggregation metrics on the provided registerer.
func NewAggregationMetrics(reg prometheus.Registerer) *AggregationMetrics {
	if reg == nil {
		return &AggregationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sales_query_duration_seconds",
		Help:    "Duration of sales aggregation queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})
	orphanLineItems := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_orphan_line_items_total",
		Help: "Cart lines dropped because their product no longer resolves.",
	})
	orphanVendorRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_orphan_vendor_groups_total",
		Help: "Aggregated groups dropped because their vendor no longer resolves.",
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_cache_hits_total",
		Help: "Monthly sales responses served from cache.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_cache_misses_total",
		Help: "Monthly sales responses computed from the database.",
	})
	reg.MustRegister(duration, orphanLineItems, orphanVendorRows, cacheHits, cacheMisses)
	return &AggregationMetrics{
		duration:         duration,
		orphanLineItems:  orphanLineItems,
		orphanVendorRows: orphanVendorRows,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
	}
}

// ObserveDuration records the duration of the named query.
func (m *AggregationMetrics) ObserveDuration(query string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(query)).Observe(duration.Seconds())
}

// AddOrphanLineItems counts cart lines dropped for unresolved products.
func (m *AggregationMetrics) AddOrphanLineItems(n int) {
	if m == nil || m.orphanLineItems == nil || n <= 0 {
		return
	}
	m.orphanLineItems.Add(float64(n))
}

// AddOrphanVendorGroups counts groups dropped for unresolved vendors.
func (m *AggregationMetrics) AddOrphanVendorGroups(n int) {
	if m == nil || m.orphanVendorRows == nil || n <= 0 {
		return
	}
	m.orphanVendorRows.Add(float64(n))
}

// IncCacheHit counts a cache-served monthly sales response.
func (m *AggregationMetrics) IncCacheHit() {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.Inc()
}

// IncCacheMiss counts a database-served monthly sales response.
func (m *AggregationMetrics) IncCacheMiss() {
	if m == nil || m.cacheMisses == nil {
		return
	}
	m.cacheMisses.Inc()
}

func normalizeLabel(query string) string {
	if query == "" {
		return "unknown"
	}
	return query
}
