// Package metrics exposes Prometheus collectors for the HTTP surface and
// the recommendation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courserec",
		Name:      "http_requests_total",
		Help:      "HTTP requests processed, partitioned by route and status code.",
	}, []string{"route", "code"})

	// RecommendationSeconds observes end-to-end recommendation latency,
	// including the demand join.
	RecommendationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "courserec",
		Name:      "recommendation_seconds",
		Help:      "Latency of recommendation requests.",
		Buckets:   prometheus.DefBuckets,
	})

	// IndexBuildSeconds records the startup index construction time.
	IndexBuildSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "courserec",
		Name:      "index_build_seconds",
		Help:      "Wall time of the last similarity index build.",
	})

	// IndexedCourses records the number of documents in the live index.
	IndexedCourses = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "courserec",
		Name:      "indexed_courses",
		Help:      "Courses in the current similarity index.",
	})
)
