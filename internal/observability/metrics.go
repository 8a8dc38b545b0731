package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "restaurant_finder_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_finder_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "status"},
	)

	// RestaurantQueries counts list queries by mode (filtered or search)
	RestaurantQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_finder_queries_total",
			Help: "Number of restaurant list queries",
		},
		[]string{"mode", "status"},
	)

	// QueryResultSize observes the total match count of list queries
	QueryResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "restaurant_finder_query_result_size",
			Help:    "Total number of restaurants matched by list queries",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 500},
		},
	)

	// RateLimitRejections counts requests rejected by the rate limiter
	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "restaurant_finder_rate_limit_rejections_total",
			Help: "Number of requests rejected by the rate limiter",
		},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "restaurant_finder_active_connections",
			Help: "Number of active connections",
		},
	)
)
