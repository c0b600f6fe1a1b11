package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine Prometheus metrics.
var (
	CatalogLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "facetdex",
			Name:      "catalog_loads_total",
			Help:      "Catalog loads by sort key and status (ok, error, stale)",
		},
		[]string{"sort", "status"},
	)

	CatalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "facetdex",
			Name:      "catalog_projects",
			Help:      "Number of projects in the most recently loaded catalog",
		},
	)

	TypeaheadResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "facetdex",
			Name:      "typeahead_resolutions_total",
			Help:      "Typeahead resolutions by outcome (published, stale, error, empty)",
		},
		[]string{"outcome"},
	)

	TypeaheadResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "facetdex",
			Name:      "typeahead_results",
			Help:      "Number of deduplicated suggestions per published resolution",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "facetdex",
			Name:      "search_cache_total",
			Help:      "Search service cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers catalog and typeahead metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(CatalogLoadsTotal)
	prometheus.MustRegister(CatalogSize)
	prometheus.MustRegister(TypeaheadResolutionsTotal)
	prometheus.MustRegister(TypeaheadResults)
	prometheus.MustRegister(SearchCacheTotal)
	engineMetricsRegistered = true
}
