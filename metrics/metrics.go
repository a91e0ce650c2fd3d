// Package metrics Prometheus 指标
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campusmap_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campusmap_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	RouteSearchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campusmap_route_searches_total",
		Help: "Route searches by profile and outcome",
	}, []string{"profile", "outcome"})
	RouteSearchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "campusmap_route_search_duration_ms",
		Help:    "Shortest path computation time in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
	})
	RouteCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campusmap_route_cache_hits_total",
		Help: "Total route cache hits",
	})
	RouteCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campusmap_route_cache_misses_total",
		Help: "Total route cache misses",
	})
	MapMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campusmap_mutations_total",
		Help: "Map mutations by kind",
	}, []string{"kind"})
	MapEntities = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "campusmap_entities",
		Help: "Current number of map entities by kind",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(RouteSearchesTotal)
	prometheus.MustRegister(RouteSearchDurationMs)
	prometheus.MustRegister(RouteCacheHitsTotal)
	prometheus.MustRegister(RouteCacheMissesTotal)
	prometheus.MustRegister(MapMutationsTotal)
	prometheus.MustRegister(MapEntities)
}

// SetEntityCounts 更新地图实体数量
func SetEntityCounts(nodes, edges, buildings, mpos int) {
	MapEntities.WithLabelValues("node").Set(float64(nodes))
	MapEntities.WithLabelValues("edge").Set(float64(edges))
	MapEntities.WithLabelValues("building").Set(float64(buildings))
	MapEntities.WithLabelValues("mpo").Set(float64(mpos))
}

// Handler 暴露 /metrics
func Handler() http.Handler { return promhttp.Handler() }
