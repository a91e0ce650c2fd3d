package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetEntityCounts(t *testing.T) {
	SetEntityCounts(9, 10, 2, 1)
	assert.Equal(t, 9.0, testutil.ToFloat64(MapEntities.WithLabelValues("node")))
	assert.Equal(t, 10.0, testutil.ToFloat64(MapEntities.WithLabelValues("edge")))
	assert.Equal(t, 2.0, testutil.ToFloat64(MapEntities.WithLabelValues("building")))
	assert.Equal(t, 1.0, testutil.ToFloat64(MapEntities.WithLabelValues("mpo")))
}

func TestHandlerExposesCounters(t *testing.T) {
	RouteCacheHitsTotal.Inc()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "campusmap_route_cache_hits_total")
}
