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

package controller

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	policyv1 "k8s.io/api/policy/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	intstr "k8s.io/apimachinery/pkg/util/intstr"

	llmdv1alpha1 "github.com/llm-d-incubation/llm-fleet-controlplane/api/v1alpha1"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/utils"
)

func backendServiceName(clusterName string) string {
	return clusterName + "-backend"
}

func masterAddr(clusterName, namespace string) string {
	return fmt.Sprintf("%s-0.%s.%s.svc.cluster.local", clusterName, backendServiceName(clusterName), namespace)
}

func configRecordName(clusterName string) string {
	return clusterName + "-config"
}

// desiredConfigRecord builds the shared config record for the router and
// queue deployments per §4.1 step 4: the model-serving backend address and
// router/queue parameters they would otherwise each derive independently.
// Consumed via EnvFrom, alongside the deployments' own individual
// spec-derived env vars.
func desiredConfigRecord(cluster *llmdv1alpha1.LLMCluster) *corev1.ConfigMap {
	data := map[string]string{
		"model":          cluster.Spec.Model,
		"backendService": backendServiceName(cluster.Name),
		"backendPort":    "8000",
	}
	if cluster.Spec.Router.Enabled {
		data["routerType"] = cluster.Spec.Router.Type
	}
	if cluster.Spec.Queue.Enabled {
		data["queueBackend"] = cluster.Spec.Queue.Backend
		data["queueCapacity"] = fmt.Sprintf("%d", cluster.Spec.Queue.Capacity)
	}
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      configRecordName(cluster.Name),
			Namespace: cluster.Namespace,
			Labels:    map[string]string{"app": cluster.Name},
		},
		Data: data,
	}
}

// desiredStatefulSet builds the ordered pod set per §4.1 step 4: one
// container running the inference engine, master-address env wiring for
// tensor-parallel rank 0, required pod anti-affinity by hostname, and a
// memory-backed scratch volume for inter-pod shared memory.
func desiredStatefulSet(cluster *llmdv1alpha1.LLMCluster) *appsv1.StatefulSet {
	spec := cluster.Spec
	labels := map[string]string{"app": cluster.Name}

	podManagement := appsv1.OrderedReadyPodManagement
	if spec.Coordination.PodManagementPolicy == llmdv1alpha1.ParallelPodManagement {
		podManagement = appsv1.ParallelPodManagement
	}

	args := []string{
		"--model", spec.Model,
		"--tensor-parallel-size", fmt.Sprintf("%d", spec.Replicas*spec.GPUsPerPod),
		"--host", "0.0.0.0",
		"--port", "8000",
	}

	container := corev1.Container{
		Name:  "inference",
		Image: spec.Image,
		Args:  args,
		Ports: []corev1.ContainerPort{{ContainerPort: 8000, Name: "http"}},
		Env: []corev1.EnvVar{
			{
				Name: "POD_NAME",
				ValueFrom: &corev1.EnvVarSource{
					FieldRef: &corev1.ObjectFieldSelector{FieldPath: "metadata.name"},
				},
			},
			{Name: "MASTER_ADDR", Value: masterAddr(cluster.Name, cluster.Namespace)},
			{Name: "MASTER_PORT", Value: "5000"},
		},
		Resources: corev1.ResourceRequirements{
			Requests: corev1.ResourceList{
				"nvidia.com/gpu": resource.MustParse(fmt.Sprintf("%d", spec.GPUsPerPod)),
			},
			Limits: corev1.ResourceList{
				"nvidia.com/gpu": resource.MustParse(fmt.Sprintf("%d", spec.GPUsPerPod)),
			},
		},
		VolumeMounts: []corev1.VolumeMount{
			{Name: "shm", MountPath: "/dev/shm"},
		},
	}

	podSpec := corev1.PodSpec{
		Containers: []corev1.Container{container},
		Affinity: &corev1.Affinity{
			PodAntiAffinity: &corev1.PodAntiAffinity{
				RequiredDuringSchedulingIgnoredDuringExecution: []corev1.PodAffinityTerm{
					{
						LabelSelector: &metav1.LabelSelector{MatchLabels: labels},
						TopologyKey:   "kubernetes.io/hostname",
					},
				},
			},
		},
		Volumes: []corev1.Volume{
			{
				Name: "shm",
				VolumeSource: corev1.VolumeSource{
					EmptyDir: &corev1.EmptyDirVolumeSource{
						Medium:    corev1.StorageMediumMemory,
						SizeLimit: utils.Ptr(resource.MustParse("16Gi")),
					},
				},
			},
		},
	}

	if len(spec.Scheduling.NodeSelector) > 0 {
		podSpec.NodeSelector = spec.Scheduling.NodeSelector
	}
	if len(spec.Scheduling.TopologySpreadConstraints) > 0 {
		podSpec.TopologySpreadConstraints = spec.Scheduling.TopologySpreadConstraints
	}
	if spec.HighAvailability.TerminationGracePeriodSeconds > 0 {
		podSpec.TerminationGracePeriodSeconds = utils.Ptr(spec.HighAvailability.TerminationGracePeriodSeconds)
	}
	if spec.Security.ServiceAccountName != "" {
		podSpec.ServiceAccountName = spec.Security.ServiceAccountName
	}

	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      cluster.Name,
			Namespace: cluster.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.StatefulSetSpec{
			ServiceName:         backendServiceName(cluster.Name),
			Replicas:            utils.Ptr(spec.Replicas),
			PodManagementPolicy: podManagement,
			Selector:            &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec:       podSpec,
			},
		},
	}
}

// desiredHeadlessService builds the one-DNS-name-per-ordinal backend service.
func desiredHeadlessService(cluster *llmdv1alpha1.LLMCluster) *corev1.Service {
	labels := map[string]string{"app": cluster.Name}
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      backendServiceName(cluster.Name),
			Namespace: cluster.Namespace,
			Labels:    labels,
		},
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Selector:  labels,
			Ports: []corev1.ServicePort{
				{Name: "http", Port: 8000, TargetPort: intstr.FromInt32(8000)},
				{Name: "master", Port: 5000, TargetPort: intstr.FromInt32(5000)},
			},
		},
	}
}

func desiredRouterDeployment(cluster *llmdv1alpha1.LLMCluster) *appsv1.Deployment {
	name := cluster.Name + "-router"
	labels := map[string]string{"app": name, "role": "router"}
	replicas := cluster.Spec.Router.Replicas
	if replicas == 0 {
		replicas = 1
	}
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: cluster.Namespace, Labels: labels},
		Spec: appsv1.DeploymentSpec{
			Replicas: utils.Ptr(replicas),
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:  "router",
						Image: cluster.Spec.Router.Image,
						Ports: []corev1.ContainerPort{{ContainerPort: 8080, Name: "http"}},
						Env:   []corev1.EnvVar{{Name: "ROUTER_TYPE", Value: cluster.Spec.Router.Type}},
						EnvFrom: []corev1.EnvFromSource{{
							ConfigMapRef: &corev1.ConfigMapEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: configRecordName(cluster.Name)}},
						}},
					}},
				},
			},
		},
	}
}

func desiredRouterService(cluster *llmdv1alpha1.LLMCluster) *corev1.Service {
	name := cluster.Name + "-router"
	labels := map[string]string{"app": name, "role": "router"}
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: cluster.Namespace, Labels: labels},
		Spec: corev1.ServiceSpec{
			Selector: labels,
			Ports:    []corev1.ServicePort{{Name: "http", Port: 80, TargetPort: intstr.FromInt32(8080)}},
		},
	}
}

func desiredQueueDeployment(cluster *llmdv1alpha1.LLMCluster) *appsv1.Deployment {
	name := cluster.Name + "-queue"
	labels := map[string]string{"app": name, "role": "queue"}
	replicas := cluster.Spec.Queue.Replicas
	if replicas == 0 {
		replicas = 1
	}
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: cluster.Namespace, Labels: labels},
		Spec: appsv1.DeploymentSpec{
			Replicas: utils.Ptr(replicas),
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:  "queue",
						Image: cluster.Spec.Queue.Backend,
						Env: []corev1.EnvVar{
							{Name: "QUEUE_CAPACITY", Value: fmt.Sprintf("%d", cluster.Spec.Queue.Capacity)},
						},
						EnvFrom: []corev1.EnvFromSource{{
							ConfigMapRef: &corev1.ConfigMapEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: configRecordName(cluster.Name)}},
						}},
					}},
				},
			},
		},
	}
}

func desiredQueueService(cluster *llmdv1alpha1.LLMCluster) *corev1.Service {
	name := cluster.Name + "-queue"
	labels := map[string]string{"app": name, "role": "queue"}
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: cluster.Namespace, Labels: labels},
		Spec: corev1.ServiceSpec{
			Selector: labels,
			Ports:    []corev1.ServicePort{{Name: "queue", Port: 6379, TargetPort: intstr.FromInt32(6379)}},
		},
	}
}

// desiredInstanceHPA builds the per-instance HorizontalPodAutoscaler hook.
// It is separate from the fleet autoscaler. It targets the instance's
// stateful set; neither the admission webhook nor the reconciler refuses or
// warns about that.
func desiredInstanceHPA(cluster *llmdv1alpha1.LLMCluster) *autoscalingv2.HorizontalPodAutoscaler {
	name := cluster.Name + "-hpa"
	target := cluster.Spec.Autoscaling.TargetCPUUtilizationPercentage
	if target == 0 {
		target = 80
	}
	return &autoscalingv2.HorizontalPodAutoscaler{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: cluster.Namespace},
		Spec: autoscalingv2.HorizontalPodAutoscalerSpec{
			ScaleTargetRef: autoscalingv2.CrossVersionObjectReference{
				APIVersion: "apps/v1",
				Kind:       "StatefulSet",
				Name:       cluster.Name,
			},
			MinReplicas: utils.Ptr(cluster.Spec.Autoscaling.MinReplicas),
			MaxReplicas: cluster.Spec.Autoscaling.MaxReplicas,
			Metrics: []autoscalingv2.MetricSpec{{
				Type: autoscalingv2.ResourceMetricSourceType,
				Resource: &autoscalingv2.ResourceMetricSource{
					Name: corev1.ResourceCPU,
					Target: autoscalingv2.MetricTarget{
						Type:               autoscalingv2.UtilizationMetricType,
						AverageUtilization: utils.Ptr(target),
					},
				},
			}},
		},
	}
}

func desiredDisruptionBudget(cluster *llmdv1alpha1.LLMCluster) *policyv1.PodDisruptionBudget {
	labels := map[string]string{"app": cluster.Name}
	minAvailable := intstr.FromInt32(cluster.Spec.HighAvailability.DisruptionBudget.MinAvailable)
	return &policyv1.PodDisruptionBudget{
		ObjectMeta: metav1.ObjectMeta{Name: cluster.Name, Namespace: cluster.Namespace},
		Spec: policyv1.PodDisruptionBudgetSpec{
			MinAvailable: &minAvailable,
			Selector:     &metav1.LabelSelector{MatchLabels: labels},
		},
	}
}

func desiredNetworkPolicy(cluster *llmdv1alpha1.LLMCluster) *networkingv1.NetworkPolicy {
	labels := map[string]string{"app": cluster.Name}
	return &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{Name: cluster.Name, Namespace: cluster.Namespace},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{MatchLabels: labels},
			PolicyTypes: []networkingv1.PolicyType{networkingv1.PolicyTypeIngress},
			Ingress: []networkingv1.NetworkPolicyIngressRule{{
				From: []networkingv1.NetworkPolicyPeer{
					{PodSelector: &metav1.LabelSelector{MatchLabels: labels}},
				},
			}},
		},
	}
}
