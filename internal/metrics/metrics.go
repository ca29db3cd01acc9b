package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	fleetScaleActionsTotal *prometheus.CounterVec
	fleetDesiredInstances  *prometheus.GaugeVec
	fleetCurrentInstances  *prometheus.GaugeVec
	clusterReadyReplicas   *prometheus.GaugeVec
	clusterTotalGPUs       *prometheus.GaugeVec
)

// InitMetrics registers all custom metrics with the provided registry.
func InitMetrics(registry prometheus.Registerer) error {
	fleetScaleActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llmfleet_scale_actions_total",
			Help: "Total number of fleet scaling actions taken by an LLMClusterAutoscaler",
		},
		[]string{"autoscaler", "namespace", "action"},
	)
	fleetDesiredInstances = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "llmfleet_desired_instances",
			Help: "Desired instance count for a fleet managed by an LLMClusterAutoscaler",
		},
		[]string{"autoscaler", "namespace"},
	)
	fleetCurrentInstances = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "llmfleet_current_instances",
			Help: "Current instance count for a fleet managed by an LLMClusterAutoscaler",
		},
		[]string{"autoscaler", "namespace"},
	)
	clusterReadyReplicas = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "llmcluster_ready_replicas",
			Help: "Ready replica count reported by an LLMCluster's status",
		},
		[]string{"cluster", "namespace"},
	)
	clusterTotalGPUs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "llmcluster_total_gpus",
			Help: "Total accelerators allocated to an LLMCluster (replicas * gpusPerPod)",
		},
		[]string{"cluster", "namespace"},
	)

	for _, c := range []prometheus.Collector{
		fleetScaleActionsTotal, fleetDesiredInstances, fleetCurrentInstances,
		clusterReadyReplicas, clusterTotalGPUs,
	} {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return nil
}

// MetricsEmitter handles emission of custom metrics from reconcilers.
type MetricsEmitter struct{}

// NewMetricsEmitter creates a new metrics emitter.
func NewMetricsEmitter() *MetricsEmitter {
	return &MetricsEmitter{}
}

// EmitScaleAction records one fleet scaling decision execution. The reason
// text belongs on the event/log, not here: it is free-form and would blow up
// this counter's label cardinality.
func (m *MetricsEmitter) EmitScaleAction(ctx context.Context, autoscalerName, namespace, action string) error {
	if fleetScaleActionsTotal == nil {
		return fmt.Errorf("fleetScaleActionsTotal metric not initialized")
	}
	fleetScaleActionsTotal.With(prometheus.Labels{
		"autoscaler": autoscalerName,
		"namespace":  namespace,
		"action":     action,
	}).Inc()
	return nil
}

// EmitFleetSize records the current and desired instance counts for a fleet.
func (m *MetricsEmitter) EmitFleetSize(ctx context.Context, autoscalerName, namespace string, current, desired int) error {
	if fleetCurrentInstances == nil || fleetDesiredInstances == nil {
		return fmt.Errorf("fleet size metrics not initialized")
	}
	labels := prometheus.Labels{"autoscaler": autoscalerName, "namespace": namespace}
	fleetCurrentInstances.With(labels).Set(float64(current))
	fleetDesiredInstances.With(labels).Set(float64(desired))
	return nil
}

// EmitClusterStatus records the ready-replica and total-GPU gauges for an
// LLMCluster after a reconcile's status computation.
func (m *MetricsEmitter) EmitClusterStatus(ctx context.Context, clusterName, namespace string, readyReplicas, totalGPUs int32) error {
	if clusterReadyReplicas == nil || clusterTotalGPUs == nil {
		return fmt.Errorf("cluster status metrics not initialized")
	}
	labels := prometheus.Labels{"cluster": clusterName, "namespace": namespace}
	clusterReadyReplicas.With(labels).Set(float64(readyReplicas))
	clusterTotalGPUs.With(labels).Set(float64(totalGPUs))
	return nil
}
