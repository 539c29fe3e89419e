package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveChannel(t *testing.T) {
	m := New(false)

	m.ObserveChannel("greedy", "pc", "satisfied", 3, 0)
	m.ObserveChannel("greedy", "pc", "satisfied", 1, 0)
	m.ObserveChannel("greedy", "mobile", "floor_fallback", 4, 5)
	m.ObserveChannel("uniform", "mobile", "infeasible", -1, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.optimizations.WithLabelValues("greedy", "pc", "satisfied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.optimizations.WithLabelValues("greedy", "mobile", "floor_fallback")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.overrun.WithLabelValues("mobile")), "last run wins")
	assert.Equal(t, 2, testutil.CollectAndCount(m.downgradeSteps))
}

func TestMetrics_Counters(t *testing.T) {
	m := New(false)

	m.ObserveRejected("pc", "no_rank_one")
	m.ObserveRejected("pc", "no_rank_one")
	m.ObserveCategorized(3, 2)
	m.ObserveDuration("greedy", 2*time.Millisecond)
	m.ObserveHTTP("POST", "/api/optimize", 200, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rejected.WithLabelValues("pc", "no_rank_one")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.categorizations.WithLabelValues("cache")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.categorizations.WithLabelValues("model")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/optimize", "200")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New(true)
	m.ObserveChannel("greedy", "pc", "satisfied", 1, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `rankbudget_optimizations_total{channel="pc",kind="greedy",status="satisfied"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestMetrics_Registry(t *testing.T) {
	t.Run("collectors gather from the private registry", func(t *testing.T) {
		m := New(false)
		m.ObserveRejected("pc", "no_rank_one")
		m.ObserveRejected("mobile", "duplicate_rank")

		count, err := testutil.GatherAndCount(m.Registry(), "rankbudget_rejected_curves_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		runtime, err := testutil.GatherAndCount(m.Registry(), "go_goroutines")
		require.NoError(t, err)
		assert.Zero(t, runtime)
	})

	t.Run("runtime collectors are registered on request", func(t *testing.T) {
		m := New(true)

		count, err := testutil.GatherAndCount(m.Registry(), "go_goroutines")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveChannel("greedy", "pc", "satisfied", 1, 0)
		m.ObserveRejected("pc", "no_rank_one")
		m.ObserveDuration("greedy", time.Second)
		m.ObserveCategorized(1, 1)
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}
