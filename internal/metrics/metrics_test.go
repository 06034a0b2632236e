package metrics

import (
	"testing"
	"time"

	"cholwatch/domain/risk"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAnalysisMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAnalysisMetrics(reg)

	m.RecordOutcome(OutcomeOK, 20*time.Millisecond)
	m.RecordOutcome(OutcomeColumnMissing, time.Millisecond)
	m.RecordReadings(map[risk.Category]int{risk.Normal: 2, risk.HighRisk: 1}, 3, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues(OutcomeColumnMissing)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReadingsClassified.WithLabelValues("Normal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReadingsClassified.WithLabelValues("HighRisk")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReadingsDropped.WithLabelValues("missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReadingsDropped.WithLabelValues("unparseable")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.AnalysisDuration))
}

func TestAnalysisMetrics_NilSafe(t *testing.T) {
	var m *AnalysisMetrics

	assert.NotPanics(t, func() {
		m.RecordOutcome(OutcomeEmpty, time.Second)
		m.RecordReadings(nil, 0, 0)
	})
}
