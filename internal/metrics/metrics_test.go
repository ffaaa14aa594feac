package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Observe(t *testing.T) {
	c := NewCollector("image_enhancer")

	c.ObserveOutcome("ENHANCED", 120*time.Millisecond)
	c.ObserveOutcome("ENHANCED", 80*time.Millisecond)
	c.ObserveOutcome("FAILED", time.Second)
	c.ObserveSkip(SkipLoop)
	c.ObserveCache(true)
	c.ObserveCache(false)
	c.ObserveCache(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Outcomes.WithLabelValues("ENHANCED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Outcomes.WithLabelValues("FAILED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Skipped.WithLabelValues(SkipLoop)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheMisses))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveOutcome("ENHANCED", time.Second)
		c.ObserveSkip(SkipMalformed)
		c.ObserveIndexed(true)
		c.ObserveCache(true)
	})
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("image_enhancer")
	c.ObserveSkip(SkipMalformed)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `image_enhancer_skipped_total{reason="malformed"} 1`)
}
