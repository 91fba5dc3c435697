// Package metrics holds Prometheus instruments for site loading.  All
// collectors are registered with the global registry, so the dev server's
// /metrics endpoint exposes them without extra wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SiteLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lx_site_load_total",
			Help: "Cumulative number of site_info sections validated successfully.",
		})

	SiteLoadErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lx_site_load_errors_total",
			Help: "Cumulative number of site_info load failures by kind.",
		}, []string{"kind"})

	SiteLoadSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lx_site_load_seconds",
			Help:    "Time spent reading, parsing, and validating a project file.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		})

	SiteCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lx_site_cache_entries",
			Help: "Number of validated site records held by the dev server cache.",
		})
)

func init() {
	prometheus.MustRegister(
		SiteLoadTotal,
		SiteLoadErrorsTotal,
		SiteLoadSeconds,
		SiteCacheEntries,
	)
}
