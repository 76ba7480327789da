package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsExist(t *testing.T) {
	assert.NotNil(t, RequestDuration)
	assert.NotNil(t, CacheHits)
	assert.NotNil(t, BackendCalls)
	assert.NotNil(t, PostalLookups)
	assert.NotNil(t, IdentityUpserts)
	assert.NotNil(t, PlaceholderTaxIDs)
	assert.NotNil(t, ImageResolutions)
	assert.NotNil(t, SessionEvents)
	assert.NotNil(t, ActiveConnections)
}

func TestRequestDuration(t *testing.T) {
	RequestDuration.WithLabelValues("/v1/health", "GET", "200").Observe(0.5)
	RequestDuration.WithLabelValues("/v1/prescriptions", "POST", "201").Observe(1.2)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(PostalLookups.WithLabelValues("found"))
	PostalLookups.WithLabelValues("found").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PostalLookups.WithLabelValues("found")))

	before = testutil.ToFloat64(IdentityUpserts.WithLabelValues("create", "success"))
	IdentityUpserts.WithLabelValues("create", "success").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(IdentityUpserts.WithLabelValues("create", "success")))

	before = testutil.ToFloat64(CacheHits.WithLabelValues("postal_lookup_miss"))
	CacheHits.WithLabelValues("postal_lookup_miss").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CacheHits.WithLabelValues("postal_lookup_miss")))
}

func TestGauges(t *testing.T) {
	before := testutil.ToFloat64(ActiveConnections)
	ActiveConnections.Inc()
	ActiveConnections.Inc()
	ActiveConnections.Dec()
	assert.Equal(t, before+1, testutil.ToFloat64(ActiveConnections))
	ActiveConnections.Dec()
}
