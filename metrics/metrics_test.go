package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistration(t *testing.T) {
	// Collectors are registered globally on import; they must exist
	assert.NotNil(t, AnalysisRuns)
	assert.NotNil(t, EventsIngested)
	assert.NotNil(t, EventsClassified)
	assert.NotNil(t, PatternsFound)
	assert.NotNil(t, RunDuration)
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestCounterVecLabels(t *testing.T) {
	c := EventsClassified.WithLabelValues("TEST")
	before := counterValue(t, c)
	c.Add(3)
	assert.Equal(t, before+3, counterValue(t, c))
}
