package promquery

import "fmt"

// DefaultQuery returns the canonical PromQL for metricType parameterized by
// appLabel and namespace, per §6.3. Callers substitute this only when the
// metric's spec.query is empty.
func DefaultQuery(metricType, appLabel, namespace string) (string, error) {
	switch metricType {
	case "QueueLength":
		return fmt.Sprintf(`sum(redis_queue_length{app="%s",queue="request_queue"})`, appLabel), nil
	case "TTFT":
		return fmt.Sprintf(`histogram_quantile(0.95, sum(rate(llm_ttft_seconds_bucket{app="%s"}[2m])) by (le)) * 1000`, appLabel), nil
	case "TPOT":
		return fmt.Sprintf(`histogram_quantile(0.95, sum(rate(llm_tpot_seconds_bucket{app="%s"}[2m])) by (le)) * 1000`, appLabel), nil
	case "Latency":
		return fmt.Sprintf(`histogram_quantile(0.95, sum(rate(llm_request_latency_seconds_bucket{app="%s"}[2m])) by (le)) * 1000`, appLabel), nil
	case "GPUUtilization":
		return fmt.Sprintf(`avg(DCGM_FI_DEV_GPU_UTIL{namespace="%s"})`, namespace), nil
	default:
		return "", fmt.Errorf("unknown metric type %q", metricType)
	}
}
