package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOrderPlaced(t *testing.T) {
	before := testutil.ToFloat64(ordersPlaced)
	RecordOrderPlaced()
	assert.Equal(t, before+1, testutil.ToFloat64(ordersPlaced))
}

func TestRequestStartedGroupsStatus(t *testing.T) {
	done := RequestStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(httpInFlight))
	done("GET", "/products", 404)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/products", "4xx")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordCacheLookup("hit")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "market_catalog_cache_lookups_total"))
}
