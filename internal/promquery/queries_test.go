package promquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQuery(t *testing.T) {
	cases := []struct {
		metricType string
		appLabel   string
		namespace  string
		want       string
	}{
		{"QueueLength", "llama-router", "ns1", `sum(redis_queue_length{app="llama-router",queue="request_queue"})`},
		{"TTFT", "llama-router", "ns1", `histogram_quantile(0.95, sum(rate(llm_ttft_seconds_bucket{app="llama-router"}[2m])) by (le)) * 1000`},
		{"TPOT", "llama-router", "ns1", `histogram_quantile(0.95, sum(rate(llm_tpot_seconds_bucket{app="llama-router"}[2m])) by (le)) * 1000`},
		{"Latency", "llama-router", "ns1", `histogram_quantile(0.95, sum(rate(llm_request_latency_seconds_bucket{app="llama-router"}[2m])) by (le)) * 1000`},
		{"GPUUtilization", "llama-router", "ns1", `avg(DCGM_FI_DEV_GPU_UTIL{namespace="ns1"})`},
	}

	for _, tc := range cases {
		got, err := DefaultQuery(tc.metricType, tc.appLabel, tc.namespace)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestDefaultQueryUnknownType(t *testing.T) {
	_, err := DefaultQuery("Bogus", "app", "ns")
	assert.Error(t, err)
}
