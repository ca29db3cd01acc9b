package decision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func policy(thresholds ...MetricThreshold) PolicySnapshot {
	return PolicySnapshot{Metrics: thresholds}
}

func TestEvaluate_ScaleUpWhenAnyMetricExceedsThreshold(t *testing.T) {
	p := policy(
		MetricThreshold{Name: "queue_length", ScaleUp: 10, ScaleDown: 2},
		MetricThreshold{Name: "ttft", ScaleUp: 500, ScaleDown: 100},
	)
	samples := map[string]Sample{
		"queue_length": {Value: 12, Found: true},
		"ttft":         {Value: 50, Found: true},
	}

	d := Evaluate(p, samples)

	assert.True(t, d.MetricsAvailable)
	assert.True(t, d.WantScaleUp)
	assert.False(t, d.WantScaleDown)
	assert.Equal(t, "queue_length", d.Trigger)
}

func TestEvaluate_ScaleDownOnlyWhenAllMetricsBelowThreshold(t *testing.T) {
	p := policy(
		MetricThreshold{Name: "queue_length", ScaleUp: 10, ScaleDown: 2},
		MetricThreshold{Name: "ttft", ScaleUp: 500, ScaleDown: 100},
	)
	samples := map[string]Sample{
		"queue_length": {Value: 1, Found: true},
		"ttft":         {Value: 50, Found: true},
	}

	d := Evaluate(p, samples)

	assert.True(t, d.WantScaleDown)
	assert.False(t, d.WantScaleUp)
}

func TestEvaluate_NoScaleDownWhenOneMetricAtOrAboveThreshold(t *testing.T) {
	p := policy(
		MetricThreshold{Name: "queue_length", ScaleUp: 10, ScaleDown: 2},
		MetricThreshold{Name: "ttft", ScaleUp: 500, ScaleDown: 100},
	)
	samples := map[string]Sample{
		"queue_length": {Value: 1, Found: true},
		"ttft":         {Value: 100, Found: true}, // equal to threshold, not strictly below
	}

	d := Evaluate(p, samples)

	assert.False(t, d.WantScaleDown)
	assert.False(t, d.WantScaleUp)
	assert.Equal(t, "within thresholds", d.Reason)
}

func TestEvaluate_MetricsUnavailableOnMissingSample(t *testing.T) {
	p := policy(MetricThreshold{Name: "queue_length", ScaleUp: 10, ScaleDown: 2})
	d := Evaluate(p, map[string]Sample{})

	assert.False(t, d.MetricsAvailable)
	assert.False(t, d.WantScaleUp)
	assert.False(t, d.WantScaleDown)
	assert.Equal(t, "no metrics returned", d.Reason)
}

func TestEvaluate_MetricsUnavailableOnQueryError(t *testing.T) {
	p := policy(MetricThreshold{Name: "queue_length", ScaleUp: 10, ScaleDown: 2})
	d := Evaluate(p, map[string]Sample{
		"queue_length": {Err: errors.New("timeout")},
	})

	assert.False(t, d.MetricsAvailable)
}

func TestEvaluate_MetricsUnavailableOnNotFound(t *testing.T) {
	p := policy(MetricThreshold{Name: "queue_length", ScaleUp: 10, ScaleDown: 2})
	d := Evaluate(p, map[string]Sample{
		"queue_length": {Found: false},
	})

	assert.False(t, d.MetricsAvailable)
}

func TestEvaluate_ScaleUpAndScaleDownAreMutuallyExclusive(t *testing.T) {
	thresholds := []MetricThreshold{
		{Name: "a", ScaleUp: 10, ScaleDown: 2},
		{Name: "b", ScaleUp: 20, ScaleDown: 5},
	}
	values := []float64{0, 1, 2, 5, 9, 10, 11, 15, 20, 21, 30}

	for _, av := range values {
		for _, bv := range values {
			samples := map[string]Sample{
				"a": {Value: av, Found: true},
				"b": {Value: bv, Found: true},
			}
			d := Evaluate(policy(thresholds...), samples)
			assert.False(t, d.WantScaleUp && d.WantScaleDown,
				"a=%v b=%v produced both scaleUp and scaleDown", av, bv)
		}
	}
}

func TestCooldownExpired(t *testing.T) {
	assert.True(t, CooldownExpired(100, 0, 30), "missing annotation is always expired")
	assert.True(t, CooldownExpired(100, 69, 30))
	assert.True(t, CooldownExpired(100, 70, 30), "boundary is inclusive")
	assert.False(t, CooldownExpired(100, 71, 30))
}
