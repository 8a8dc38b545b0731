package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsExist(t *testing.T) {
	assert.NotNil(t, RequestDuration)
	assert.NotNil(t, DatabaseOperations)
	assert.NotNil(t, RestaurantQueries)
	assert.NotNil(t, QueryResultSize)
	assert.NotNil(t, RateLimitRejections)
	assert.NotNil(t, ActiveConnections)
}

func TestRequestDuration(t *testing.T) {
	RequestDuration.WithLabelValues("/api/restaurants", "GET", "200").Observe(0.05)
	RequestDuration.WithLabelValues("/api/restaurants/:id", "GET", "404").Observe(0.01)
}

func TestDatabaseOperations(t *testing.T) {
	DatabaseOperations.WithLabelValues("find", "success").Inc()
	DatabaseOperations.WithLabelValues("count", "error").Inc()
	DatabaseOperations.WithLabelValues("insert", "duplicate").Inc()
}

func TestRestaurantQueries(t *testing.T) {
	RestaurantQueries.WithLabelValues("search", "success").Inc()
	RestaurantQueries.WithLabelValues("filtered", "validation_error").Inc()
}

func TestRateLimitRejections(t *testing.T) {
	RateLimitRejections.Inc()
}

func TestActiveConnections(t *testing.T) {
	ActiveConnections.Set(10)
	ActiveConnections.Inc()
	ActiveConnections.Dec()
	ActiveConnections.Set(0)
}

func TestQueryResultSize(t *testing.T) {
	QueryResultSize.Observe(0)
	QueryResultSize.Observe(15)
}
