// Package decision implements the pure metrics-to-action evaluation rules
// shared by every LLMClusterAutoscaler reconcile: no I/O, no clock reads,
// fully exhaustible by table tests.
package decision

// MetricThreshold is one metric's hysteresis pair. ScaleUp must be strictly
// greater than ScaleDown; callers validate this before Evaluate runs.
type MetricThreshold struct {
	Name      string
	ScaleUp   float64
	ScaleDown float64
}

// PolicySnapshot is the subset of an LLMClusterAutoscaler's spec that the
// decision engine needs: the metric thresholds it must check.
type PolicySnapshot struct {
	Metrics []MetricThreshold
}

// Sample is one metric's observed value. Found=false models a well-formed,
// empty query response (§4.4); Err models a hard query failure.
type Sample struct {
	Value float64
	Found bool
	Err   error
}

// Decision is the result of evaluating one tick's samples against policy.
type Decision struct {
	WantScaleUp      bool
	WantScaleDown    bool
	MetricsAvailable bool
	Trigger          string
	TriggerThreshold float64
	Reason           string
	Observed         map[string]float64
}

// Evaluate applies §4.3's hysteresis rules to one tick's samples.
//
// If any metric is missing a sample or errored, the cycle is
// MetricsAvailable=false and neither scale direction is requested.
// Otherwise wantScaleUp is true iff any metric exceeds its scale-up
// threshold (first such metric recorded as Trigger); wantScaleDown is true
// iff every metric is strictly below its scale-down threshold. The two are
// mutually exclusive by construction: a metric that trips scale-up cannot
// also be strictly below its scale-down threshold, since scaleUp >
// scaleDown is enforced at validation time.
func Evaluate(policy PolicySnapshot, samples map[string]Sample) Decision {
	observed := make(map[string]float64, len(policy.Metrics))

	for _, m := range policy.Metrics {
		s, ok := samples[m.Name]
		if !ok || !s.Found || s.Err != nil {
			return Decision{
				MetricsAvailable: false,
				Reason:           "no metrics returned",
				Observed:         observed,
			}
		}
		observed[m.Name] = s.Value
	}

	wantScaleUp := false
	trigger := ""
	triggerThreshold := 0.0
	wantScaleDown := true

	for _, m := range policy.Metrics {
		v := observed[m.Name]
		if !wantScaleUp && v > m.ScaleUp {
			wantScaleUp = true
			trigger = m.Name
			triggerThreshold = m.ScaleUp
		}
		if v >= m.ScaleDown {
			wantScaleDown = false
		}
	}

	if wantScaleUp {
		wantScaleDown = false
	}

	reason := "within thresholds"
	switch {
	case wantScaleUp:
		reason = "metric " + trigger + " above scale-up threshold"
	case wantScaleDown:
		reason = "all metrics below scale-down thresholds"
	}

	return Decision{
		WantScaleUp:      wantScaleUp,
		WantScaleDown:    wantScaleDown,
		MetricsAvailable: true,
		Trigger:          trigger,
		TriggerThreshold: triggerThreshold,
		Reason:           reason,
		Observed:         observed,
	}
}

// CooldownExpired reports whether nowEpoch - lastEpoch has reached
// stabilizationSeconds. A lastEpoch of 0 (missing/unparsable annotation, per
// §4.2 step 4) is always treated as expired.
func CooldownExpired(nowEpoch, lastEpoch int64, stabilizationSeconds int32) bool {
	if lastEpoch <= 0 {
		return true
	}
	return nowEpoch-lastEpoch >= int64(stabilizationSeconds)
}
