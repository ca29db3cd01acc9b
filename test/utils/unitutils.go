package utils

import (
	"context"
	"fmt"
	"time"

	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	llmdv1alpha1 "github.com/llm-d-incubation/llm-fleet-controlplane/api/v1alpha1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// The following helpers build the canonical PromQL strings
// promquery.DefaultQuery is expected to produce, written independently of
// that package's own implementation. No test in this repository calls them;
// the controller tests build their mock keys with DefaultQuery itself.
func ExpectedQueueLengthQuery(appLabel string) string {
	return fmt.Sprintf(`sum(redis_queue_length{app="%s",queue="request_queue"})`, appLabel)
}

func ExpectedTTFTQuery(appLabel string) string {
	return fmt.Sprintf(`histogram_quantile(0.95, sum(rate(llm_ttft_seconds_bucket{app="%s"}[2m])) by (le)) * 1000`, appLabel)
}

func ExpectedTPOTQuery(appLabel string) string {
	return fmt.Sprintf(`histogram_quantile(0.95, sum(rate(llm_tpot_seconds_bucket{app="%s"}[2m])) by (le)) * 1000`, appLabel)
}

func ExpectedGPUUtilizationQuery(namespace string) string {
	return fmt.Sprintf(`avg(DCGM_FI_DEV_GPU_UTIL{namespace="%s"})`, namespace)
}

// NewTestLLMCluster returns a minimal, schema-valid LLMCluster fixture for
// reconciler and envtest use.
func NewTestLLMCluster(name, namespace string) *llmdv1alpha1.LLMCluster {
	return &llmdv1alpha1.LLMCluster{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: llmdv1alpha1.LLMClusterSpec{
			Model:              "meta/llama-3-70b",
			Image:              "vllm/vllm-openai:latest",
			InferenceEngine:    llmdv1alpha1.InferenceEngineVLLM,
			Replicas:           2,
			GPUsPerPod:         4,
			TensorParallelSize: 8,
		},
	}
}

// NewTestLLMClusterAutoscaler returns a minimal, schema-valid
// LLMClusterAutoscaler fixture.
func NewTestLLMClusterAutoscaler(name, namespace, appLabel string) *llmdv1alpha1.LLMClusterAutoscaler {
	return &llmdv1alpha1.LLMClusterAutoscaler{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: llmdv1alpha1.LLMClusterAutoscalerSpec{
			ScaleTargetRef: llmdv1alpha1.ScaleTargetRef{AppLabel: appLabel},
			MinInstances:   1,
			MaxInstances:   4,
			Metrics: []llmdv1alpha1.MetricSpec{
				{
					Type:      llmdv1alpha1.MetricQueueLength,
					Threshold: llmdv1alpha1.MetricThreshold{ScaleUp: "10", ScaleDown: "2"},
				},
			},
			Prometheus: llmdv1alpha1.PrometheusRef{Address: "https://prometheus.monitoring.svc:9090"},
		},
	}
}

// MockPromAPI is a mock implementation of promv1.API for testing
type MockPromAPI struct {
	QueryResults map[string]model.Value
	QueryErrors  map[string]error
}

func (m *MockPromAPI) Query(ctx context.Context, query string, ts time.Time, opts ...promv1.Option) (model.Value, promv1.Warnings, error) {
	if err, exists := m.QueryErrors[query]; exists {
		return nil, nil, err
	}
	if val, exists := m.QueryResults[query]; exists {
		return val, nil, nil
	}
	// Default return vector with one sample (to pass metrics validation)
	// This simulates Prometheus having scraped at least one metric
	return model.Vector{
		&model.Sample{
			Metric:    model.Metric{},
			Value:     0,
			Timestamp: model.TimeFromUnix(ts.Unix()),
		},
	}, nil, nil
}

func (m *MockPromAPI) QueryRange(ctx context.Context, query string, r promv1.Range, opts ...promv1.Option) (model.Value, promv1.Warnings, error) {
	return nil, nil, nil
}

func (m *MockPromAPI) QueryExemplars(ctx context.Context, query string, startTime, endTime time.Time) ([]promv1.ExemplarQueryResult, error) {
	return nil, nil
}

func (m *MockPromAPI) Buildinfo(ctx context.Context) (promv1.BuildinfoResult, error) {
	return promv1.BuildinfoResult{}, nil
}

func (m *MockPromAPI) Config(ctx context.Context) (promv1.ConfigResult, error) {
	return promv1.ConfigResult{}, nil
}

func (m *MockPromAPI) Flags(ctx context.Context) (promv1.FlagsResult, error) {
	return promv1.FlagsResult{}, nil
}

func (m *MockPromAPI) LabelNames(ctx context.Context, matches []string, startTime, endTime time.Time, opts ...promv1.Option) ([]string, promv1.Warnings, error) {
	return nil, nil, nil
}

func (m *MockPromAPI) LabelValues(ctx context.Context, label string, matches []string, startTime, endTime time.Time, opts ...promv1.Option) (model.LabelValues, promv1.Warnings, error) {
	return nil, nil, nil
}

func (m *MockPromAPI) Series(ctx context.Context, matches []string, startTime, endTime time.Time, opts ...promv1.Option) ([]model.LabelSet, promv1.Warnings, error) {
	return nil, nil, nil
}

func (m *MockPromAPI) GetValue(ctx context.Context, timestamp time.Time, opts ...promv1.Option) (model.Value, promv1.Warnings, error) {
	return nil, nil, nil
}

func (m *MockPromAPI) Metadata(ctx context.Context, metric, limit string) (map[string][]promv1.Metadata, error) {
	return nil, nil
}

func (m *MockPromAPI) TSDB(ctx context.Context, opts ...promv1.Option) (promv1.TSDBResult, error) {
	return promv1.TSDBResult{}, nil
}

func (m *MockPromAPI) WalReplay(ctx context.Context) (promv1.WalReplayStatus, error) {
	return promv1.WalReplayStatus{}, nil
}

func (m *MockPromAPI) Targets(ctx context.Context) (promv1.TargetsResult, error) {
	return promv1.TargetsResult{}, nil
}

func (m *MockPromAPI) TargetsMetadata(ctx context.Context, matchTarget, metric, limit string) ([]promv1.MetricMetadata, error) {
	return nil, nil
}

func (m *MockPromAPI) AlertManagers(ctx context.Context) (promv1.AlertManagersResult, error) {
	return promv1.AlertManagersResult{}, nil
}

func (m *MockPromAPI) CleanTombstones(ctx context.Context) error {
	return nil
}

func (m *MockPromAPI) DeleteSeries(ctx context.Context, matches []string, startTime, endTime time.Time) error {
	return nil
}

func (m *MockPromAPI) Snapshot(ctx context.Context, skipHead bool) (promv1.SnapshotResult, error) {
	return promv1.SnapshotResult{}, nil
}

func (m *MockPromAPI) Rules(ctx context.Context) (promv1.RulesResult, error) {
	return promv1.RulesResult{}, nil
}

func (m *MockPromAPI) Alerts(ctx context.Context) (promv1.AlertsResult, error) {
	return promv1.AlertsResult{}, nil
}

func (m *MockPromAPI) Runtimeinfo(ctx context.Context) (promv1.RuntimeinfoResult, error) {
	return promv1.RuntimeinfoResult{}, nil
}
