package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Extraction(2)
	m.Extraction(1)
	m.NERFailure()
	m.StoreOp("add", "file", nil)
	m.StoreOp("add", "file", errors.New("disk full"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.extractions))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.segments))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.nerFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.storeOps.WithLabelValues("add", "file")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeFailures.WithLabelValues("add", "file")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Extraction(1)
	m.NERFailure()
	m.StoreOp("load", "sqlite", nil)
	assert.Nil(t, m.Registry())
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.Extraction(1)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), "nadcal_extractions_total 1"))
}
