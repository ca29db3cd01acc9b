/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// AutoscalerMode selects whether a fleet is scaled as one pool or as two
// coordinated prefill/decode pools. The reference control logic applies the
// monolithic rules to each selector in both modes.
type AutoscalerMode string

const (
	AutoscalerModeMonolithic    AutoscalerMode = "monolithic"
	AutoscalerModeDisaggregated AutoscalerMode = "disaggregated"
)

// MetricType enumerates the canonical metric kinds with built-in default queries.
type MetricType string

const (
	MetricQueueLength    MetricType = "QueueLength"
	MetricTTFT           MetricType = "TTFT"
	MetricTPOT           MetricType = "TPOT"
	MetricLatency        MetricType = "Latency"
	MetricGPUUtilization MetricType = "GPUUtilization"
)

// ScaleTargetRef selects the LLMCluster instances a fleet autoscaler manages.
type ScaleTargetRef struct {
	// LabelSelector is used verbatim if set.
	LabelSelector string `json:"labelSelector,omitempty"`

	// AppLabel, if LabelSelector is empty, yields the default selector
	// "app=<appLabel>,role=instance".
	AppLabel string `json:"appLabel,omitempty"`
}

// MetricThreshold carries the hysteresis pair for one metric. ScaleUp must be
// strictly greater than ScaleDown (the hysteresis invariant); violating this
// is a validation failure.
type MetricThreshold struct {
	ScaleUp   string `json:"scaleUp"`
	ScaleDown string `json:"scaleDown"`
}

// MetricSpec is one metric watched by a fleet autoscaler.
type MetricSpec struct {
	// +kubebuilder:validation:Enum=QueueLength;TTFT;TPOT;Latency;GPUUtilization
	Type MetricType `json:"type"`

	// Query overrides the canonical default query for Type. If empty, a
	// default is substituted from AppLabel and the autoscaler's namespace.
	Query string `json:"query,omitempty"`

	Threshold MetricThreshold `json:"threshold"`
}

// PrometheusRef identifies the metrics backend a fleet autoscaler queries.
type PrometheusRef struct {
	// +kubebuilder:validation:MinLength=1
	Address string `json:"address"`
}

// InstanceTemplate seeds new LLMCluster objects created by scale-up. Either a
// full embedded Spec or the flat shorthand fields are honored; Spec wins if set.
type InstanceTemplate struct {
	Spec *LLMClusterSpec `json:"spec,omitempty"`

	Model              string `json:"model,omitempty"`
	ModelSize          string `json:"modelSize,omitempty"`
	Replicas           int32  `json:"replicas,omitempty"`
	GPUsPerPod         int32  `json:"gpusPerPod,omitempty"`
	TensorParallelSize int32  `json:"tensorParallelSize,omitempty"`
	Image              string `json:"image,omitempty"`

	NamePrefix  string            `json:"namePrefix,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// RouterRef identifies the existing LLMCluster whose router.backends list the
// fleet autoscaler keeps aligned with the live fleet.
type RouterRef struct {
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// +kubebuilder:validation:Minimum=1
	BackendPort int32 `json:"backendPort"`

	BackendNamePrefix string `json:"backendNamePrefix,omitempty"`
}

// AutoscalerBehavior configures cooldown/stabilization windows.
type AutoscalerBehavior struct {
	// +kubebuilder:validation:Minimum=0
	// +kubebuilder:default=300
	ScaleUpStabilizationSeconds int64 `json:"scaleUpStabilizationSeconds,omitempty"`

	// +kubebuilder:validation:Minimum=0
	// +kubebuilder:default=300
	ScaleDownStabilizationSeconds int64 `json:"scaleDownStabilizationSeconds,omitempty"`
}

// LLMClusterAutoscalerSpec is a fleet scaling policy.
type LLMClusterAutoscalerSpec struct {
	// +kubebuilder:validation:Enum=monolithic;disaggregated
	// +kubebuilder:default=monolithic
	Mode AutoscalerMode `json:"mode,omitempty"`

	ScaleTargetRef ScaleTargetRef `json:"scaleTargetRef"`

	// +kubebuilder:validation:Minimum=1
	MinInstances int32 `json:"minInstances"`

	// +kubebuilder:validation:Minimum=1
	MaxInstances int32 `json:"maxInstances"`

	// +kubebuilder:validation:MinItems=1
	Metrics []MetricSpec `json:"metrics"`

	Prometheus PrometheusRef `json:"prometheus"`

	InstanceTemplate InstanceTemplate `json:"instanceTemplate,omitempty"`

	RouterRef RouterRef `json:"routerRef"`

	Behavior AutoscalerBehavior `json:"behavior,omitempty"`
}

// ScaleAction is the outcome of one fleet-autoscaler reconcile.
type ScaleAction string

const (
	ScaleActionScaleUp   ScaleAction = "ScaleUp"
	ScaleActionScaleDown ScaleAction = "ScaleDown"
	ScaleActionNoOp      ScaleAction = "NoOp"
	ScaleActionBlocked   ScaleAction = "Blocked"
)

// Canonical condition types for LLMClusterAutoscaler.Status.Conditions.
const (
	AutoscalerConditionReady            = "Ready"
	AutoscalerConditionMetricsAvailable = "MetricsAvailable"
)

// LLMClusterAutoscalerStatus is controller-owned observed state.
type LLMClusterAutoscalerStatus struct {
	CurrentInstances int32 `json:"currentInstances,omitempty"`

	DesiredInstances int32 `json:"desiredInstances,omitempty"`

	LastScaleTime metav1.Time `json:"lastScaleTime,omitempty"`

	// +kubebuilder:validation:Enum=ScaleUp;ScaleDown;NoOp;Blocked
	LastScaleAction ScaleAction `json:"lastScaleAction,omitempty"`

	ObservedMetrics map[string]string `json:"observedMetrics,omitempty"`

	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// Annotation keys used for cooldown bookkeeping on the autoscaler object
// itself, rather than in status, so that concurrent status writes from a
// reconcile-in-progress never race with cooldown reads.
const (
	AnnotationLastScaleUpEpoch   = "autoscaling.serving.ai/last-scale-up-epoch"
	AnnotationLastScaleDownEpoch = "autoscaling.serving.ai/last-scale-down-epoch"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=llmca
// +kubebuilder:printcolumn:name="Min",type=integer,JSONPath=".spec.minInstances"
// +kubebuilder:printcolumn:name="Max",type=integer,JSONPath=".spec.maxInstances"
// +kubebuilder:printcolumn:name="Current",type=integer,JSONPath=".status.currentInstances"
// +kubebuilder:printcolumn:name="LastAction",type=string,JSONPath=".status.lastScaleAction"
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=".metadata.creationTimestamp"

// LLMClusterAutoscaler is a fleet-level scaling policy over LLMCluster objects.
type LLMClusterAutoscaler struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   LLMClusterAutoscalerSpec   `json:"spec,omitempty"`
	Status LLMClusterAutoscalerStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// LLMClusterAutoscalerList contains a list of LLMClusterAutoscaler.
type LLMClusterAutoscalerList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []LLMClusterAutoscaler `json:"items"`
}

func init() {
	SchemeBuilder.Register(&LLMClusterAutoscaler{}, &LLMClusterAutoscalerList{})
}
