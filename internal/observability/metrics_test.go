package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()

	require.NotNil(t, m.AnalysesTotal)
	require.NotNil(t, m.AnalysisErrors)
	require.NotNil(t, m.FallbackSubstitutions)
	require.NotNil(t, m.AnalysisDuration)
	require.NotNil(t, m.PropertyLookups)

	// Unregistered metrics must not collide across instances.
	other := NewMetricsForTesting()
	require.NotNil(t, other)
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetricsForTesting()

	m.AnalysesTotal.WithLabelValues("low").Inc()
	m.AnalysesTotal.WithLabelValues("low").Inc()
	m.AnalysesTotal.WithLabelValues("critical").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("low")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("critical")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("high")))

	m.FallbackSubstitutions.WithLabelValues("flood").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackSubstitutions.WithLabelValues("flood")))

	m.PropertyLookups.WithLabelValues("miss").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropertyLookups.WithLabelValues("miss")))

	m.AnalysisErrors.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysisErrors))
}
