package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/clients/{leadID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/clients/{leadID}", "404")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"LEAD-1", "LEAD-2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/clients/"+id, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(activeConnections))
}

func TestClaimMetrics(t *testing.T) {
	var m ClaimMetrics
	claimed := leadClaims.WithLabelValues("claimed")
	publish := realtimePublishErrors.WithLabelValues("lead_claimed")
	c0, p0 := testutil.ToFloat64(claimed), testutil.ToFloat64(publish)

	m.RecordClaim("claimed")
	m.RecordPublishError("lead_claimed")

	assert.Equal(t, c0+1, testutil.ToFloat64(claimed))
	assert.Equal(t, p0+1, testutil.ToFloat64(publish))
}
