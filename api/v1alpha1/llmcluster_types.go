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
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// InferenceEngine identifies the serving runtime a pod template runs.
type InferenceEngine string

const (
	InferenceEngineVLLM      InferenceEngine = "vllm"
	InferenceEngineTGI       InferenceEngine = "tgi"
	InferenceEngineTensorRT  InferenceEngine = "tensorrt-llm"
)

// PodManagementPolicyType mirrors appsv1.PodManagementPolicyType for the stateful pod set.
type PodManagementPolicyType string

const (
	ParallelPodManagement PodManagementPolicyType = "Parallel"
	OrderedPodManagement  PodManagementPolicyType = "Ordered"
)

// InferenceArgs carries engine tuning parameters passed through to the inference container.
type InferenceArgs struct {
	// +kubebuilder:validation:Minimum=1
	MaxContextLength int `json:"maxContextLength,omitempty"`

	// +kubebuilder:validation:Minimum=1
	BlockSize int `json:"blockSize,omitempty"`

	Dtype string `json:"dtype,omitempty"`

	// +kubebuilder:validation:Pattern=`^0?\.\d+$`
	GPUMemoryFraction string `json:"gpuMemoryFraction,omitempty"`
}

// RouterSpec configures the optional request router deployment fronting a cluster.
type RouterSpec struct {
	Enabled bool `json:"enabled,omitempty"`

	// +kubebuilder:validation:Minimum=1
	Replicas int32 `json:"replicas,omitempty"`

	Image string `json:"image,omitempty"`

	Type string `json:"type,omitempty"`

	// Backends is reconciled by the fleet autoscaler when this LLMCluster plays
	// the role of routerRef for an LLMClusterAutoscaler; never set by a user.
	Backends []RouterBackend `json:"backends,omitempty"`
}

// RouterBackend is one entry in a router's backend list.
type RouterBackend struct {
	Name    string `json:"name"`
	Service string `json:"service"`
	Port    int32  `json:"port"`
}

// QueueSpec configures the optional request queue deployment.
type QueueSpec struct {
	Enabled bool `json:"enabled,omitempty"`

	// +kubebuilder:validation:Minimum=1
	Replicas int32 `json:"replicas,omitempty"`

	Backend string `json:"backend,omitempty"`

	// +kubebuilder:validation:Minimum=0
	Capacity int `json:"capacity,omitempty"`
}

// InstanceAutoscalingSpec is the per-instance (HorizontalPodAutoscaler-backed) hook.
// It is distinct from, and orthogonal to, the fleet-level LLMClusterAutoscaler.
type InstanceAutoscalingSpec struct {
	Enabled bool `json:"enabled,omitempty"`

	// +kubebuilder:validation:Minimum=1
	MinReplicas int32 `json:"minReplicas,omitempty"`

	// +kubebuilder:validation:Minimum=1
	MaxReplicas int32 `json:"maxReplicas,omitempty"`

	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=100
	TargetCPUUtilizationPercentage int32 `json:"targetCPUUtilizationPercentage,omitempty"`

	CustomMetric string `json:"customMetric,omitempty"`
}

// CoordinationSpec governs how the stateful pod set boots and is managed.
type CoordinationSpec struct {
	LeaderElection bool `json:"leaderElection,omitempty"`

	// +kubebuilder:validation:Enum=Parallel;Ordered
	PodManagementPolicy PodManagementPolicyType `json:"podManagementPolicy,omitempty"`
}

// SchedulingSpec carries placement hints for the stateful pod set.
type SchedulingSpec struct {
	NodeSelector map[string]string `json:"nodeSelector,omitempty"`

	// +kubebuilder:validation:Enum=Required;Preferred;None
	AntiAffinityPolicy string `json:"antiAffinityPolicy,omitempty"`

	TopologySpreadConstraints []corev1.TopologySpreadConstraint `json:"topologySpreadConstraints,omitempty"`
}

// DisruptionBudgetSpec configures the per-instance PodDisruptionBudget.
type DisruptionBudgetSpec struct {
	Enabled bool `json:"enabled,omitempty"`

	// +kubebuilder:validation:Minimum=0
	MinAvailable int32 `json:"minAvailable,omitempty"`
}

// HighAvailabilitySpec groups availability-related knobs.
type HighAvailabilitySpec struct {
	DisruptionBudget DisruptionBudgetSpec `json:"disruptionBudget,omitempty"`

	// +kubebuilder:validation:Minimum=0
	TerminationGracePeriodSeconds int64 `json:"terminationGracePeriodSeconds,omitempty"`
}

// NetworkSpec configures how the instance is exposed and isolated.
type NetworkSpec struct {
	// +kubebuilder:validation:Enum=ClusterIP;Headless;NodePort;LoadBalancer
	ServiceType corev1.ServiceType `json:"serviceType,omitempty"`

	// +kubebuilder:validation:Minimum=1
	Port int32 `json:"port,omitempty"`

	NetworkPolicyEnabled bool `json:"networkPolicyEnabled,omitempty"`
}

// SecuritySpec references credentials and identity used to run the instance.
type SecuritySpec struct {
	CredentialsSecretRef string `json:"credentialsSecretRef,omitempty"`

	ServiceAccountName string `json:"serviceAccountName,omitempty"`
}

// LLMClusterSpec is the desired state of one fixed-shape serving instance.
type LLMClusterSpec struct {
	// +kubebuilder:validation:MinLength=1
	Model string `json:"model"`

	ModelSize string `json:"modelSize,omitempty"`

	// +kubebuilder:validation:MinLength=1
	Image string `json:"image"`

	// +kubebuilder:validation:Enum=vllm;tgi;tensorrt-llm
	// +kubebuilder:default=vllm
	InferenceEngine InferenceEngine `json:"inferenceEngine,omitempty"`

	// +kubebuilder:validation:Minimum=1
	Replicas int32 `json:"replicas"`

	// +kubebuilder:validation:Minimum=1
	GPUsPerPod int32 `json:"gpusPerPod"`

	// TensorParallelSize, if set, must equal replicas * gpusPerPod. A mismatch is
	// a terminal validation failure for the generation: no children are created.
	// +kubebuilder:validation:Minimum=1
	TensorParallelSize int32 `json:"tensorParallelSize,omitempty"`

	InferenceArgs InferenceArgs `json:"inferenceArgs,omitempty"`

	Router RouterSpec `json:"router,omitempty"`

	Queue QueueSpec `json:"queue,omitempty"`

	// Autoscaling is the per-instance HPA hook, not the fleet autoscaler.
	Autoscaling InstanceAutoscalingSpec `json:"autoscaling,omitempty"`

	Coordination CoordinationSpec `json:"coordination,omitempty"`

	Scheduling SchedulingSpec `json:"scheduling,omitempty"`

	HighAvailability HighAvailabilitySpec `json:"highAvailability,omitempty"`

	Network NetworkSpec `json:"network,omitempty"`

	Security SecuritySpec `json:"security,omitempty"`
}

// ClusterPhase is the coarse-grained lifecycle phase of an LLMCluster.
type ClusterPhase string

const (
	ClusterPhasePending     ClusterPhase = "Pending"
	ClusterPhaseCreating    ClusterPhase = "Creating"
	ClusterPhaseProgressing ClusterPhase = "Progressing"
	ClusterPhaseRunning     ClusterPhase = "Running"
	ClusterPhaseDegraded    ClusterPhase = "Degraded"
	ClusterPhaseFailed      ClusterPhase = "Failed"
)

// Canonical condition types for LLMCluster.Status.Conditions.
const (
	ClusterConditionReady             = "Ready"
	ClusterConditionProgressing       = "Progressing"
	ClusterConditionValidationFailed  = "ValidationFailed"
)

// ClusterMetrics mirrors the subset of observed load the status surfaces.
type ClusterMetrics struct {
	TotalGPUs int32 `json:"totalGPUs,omitempty"`

	QueueLength string `json:"queueLength,omitempty"`

	AvgRequestDuration string `json:"avgRequestDuration,omitempty"`
}

// LLMClusterStatus is controller-owned observed state; never read from spec.
type LLMClusterStatus struct {
	// +kubebuilder:validation:Enum=Pending;Creating;Progressing;Running;Degraded;Failed
	Phase ClusterPhase `json:"phase,omitempty"`

	Replicas int32 `json:"replicas,omitempty"`

	ReadyReplicas int32 `json:"readyReplicas,omitempty"`

	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	Conditions []metav1.Condition `json:"conditions,omitempty"`

	Metrics ClusterMetrics `json:"metrics,omitempty"`

	RouterURL string `json:"routerURL,omitempty"`

	Endpoints []string `json:"endpoints,omitempty"`

	// Selector is the label selector used for the scale subresource, kept in
	// sync with the pods the stateful set owns.
	Selector string `json:"selector,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:subresource:scale:specpath=.spec.replicas,statuspath=.status.replicas,selectorpath=.status.selector
// +kubebuilder:resource:shortName=llm;llmc
// +kubebuilder:printcolumn:name="Model",type=string,JSONPath=".spec.model"
// +kubebuilder:printcolumn:name="Replicas",type=integer,JSONPath=".status.replicas"
// +kubebuilder:printcolumn:name="TP-Size",type=integer,JSONPath=".spec.tensorParallelSize"
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=".metadata.creationTimestamp"

// LLMCluster is a fixed-shape tensor-parallel serving instance.
type LLMCluster struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   LLMClusterSpec   `json:"spec,omitempty"`
	Status LLMClusterStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// LLMClusterList contains a list of LLMCluster.
type LLMClusterList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []LLMCluster `json:"items"`
}

func init() {
	SchemeBuilder.Register(&LLMCluster{}, &LLMClusterList{})
}
