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

// Package controller hosts the two reconcilers that make up the control
// plane: LLMClusterReconciler (one fixed-shape serving instance) and
// LLMClusterAutoscalerReconciler (a fleet of instances).
package controller

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	policyv1 "k8s.io/api/policy/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	llmdv1alpha1 "github.com/llm-d-incubation/llm-fleet-controlplane/api/v1alpha1"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/logger"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/metrics"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/utils"
)

const (
	requeueNotReady = 10 * time.Second
	requeueSteady   = 5 * time.Minute
	requeueFailed   = 5 * time.Second
)

// LLMClusterReconciler reconciles one LLMCluster: compute the complete
// desired set of child objects, diff against observed state, apply the
// minimum set of create/update/delete operations, and publish status.
type LLMClusterReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Metrics  *metrics.MetricsEmitter
}

// +kubebuilder:rbac:groups=serving.ai,resources=llmclusters,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=serving.ai,resources=llmclusters/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=serving.ai,resources=llmclusters/finalizers,verbs=update
// +kubebuilder:rbac:groups=apps,resources=statefulsets;deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=services,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=configmaps,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=policy,resources=poddisruptionbudgets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=networking.k8s.io,resources=networkpolicies,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=autoscaling,resources=horizontalpodautoscalers,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch

func (r *LLMClusterReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	var cluster llmdv1alpha1.LLMCluster
	if err := r.Get(ctx, req.NamespacedName, &cluster); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, fmt.Errorf("getting LLMCluster %s: %w", req.NamespacedName, err)
	}

	expectedTP := cluster.Spec.Replicas * cluster.Spec.GPUsPerPod
	if cluster.Spec.TensorParallelSize != 0 && cluster.Spec.TensorParallelSize != expectedTP {
		return r.failValidation(ctx, &cluster, expectedTP)
	}

	if cluster.Status.Phase != llmdv1alpha1.ClusterPhaseRunning && cluster.Status.Phase != llmdv1alpha1.ClusterPhaseCreating {
		cluster.Status.Phase = llmdv1alpha1.ClusterPhaseCreating
		if err := utils.UpdateStatusWithBackoff(ctx, r.Client, &cluster, utils.StandardBackoff, "LLMCluster"); err != nil {
			return ctrl.Result{}, fmt.Errorf("persisting Creating phase: %w", err)
		}
	}

	readyReplicas, err := r.reconcileChildren(ctx, &cluster)
	if err != nil {
		logger.Log.Warnw("reconciling children failed, requeueing", "cluster", cluster.Name, "namespace", cluster.Namespace, "error", err)
		r.Recorder.Event(&cluster, corev1.EventTypeWarning, "Degraded", err.Error())
		return ctrl.Result{RequeueAfter: requeueFailed}, nil
	}

	r.computeStatus(&cluster, readyReplicas)
	if err := utils.UpdateStatusWithBackoff(ctx, r.Client, &cluster, utils.StandardBackoff, "LLMCluster"); err != nil {
		return ctrl.Result{}, fmt.Errorf("persisting status: %w", err)
	}

	if r.Metrics != nil {
		_ = r.Metrics.EmitClusterStatus(ctx, cluster.Name, cluster.Namespace, cluster.Status.ReadyReplicas, cluster.Status.Metrics.TotalGPUs)
	}

	if cluster.Status.Phase == llmdv1alpha1.ClusterPhaseRunning {
		return ctrl.Result{RequeueAfter: requeueSteady}, nil
	}
	return ctrl.Result{RequeueAfter: requeueNotReady}, nil
}

// failValidation records the terminal TP-size mismatch per §4.1 step 2: no
// children are created or touched, and the generation does not retry until
// the spec changes.
func (r *LLMClusterReconciler) failValidation(ctx context.Context, cluster *llmdv1alpha1.LLMCluster, expectedTP int32) (ctrl.Result, error) {
	message := fmt.Sprintf("tensorParallelSize=%d does not match replicas*gpusPerPod=%d", cluster.Spec.TensorParallelSize, expectedTP)
	cluster.Status.Phase = llmdv1alpha1.ClusterPhaseFailed
	cluster.Status.ObservedGeneration = cluster.Generation
	llmdv1alpha1.SetClusterCondition(cluster, llmdv1alpha1.ClusterConditionValidationFailed, metav1.ConditionTrue, "TensorParallelSizeMismatch", message)
	llmdv1alpha1.SetClusterCondition(cluster, llmdv1alpha1.ClusterConditionReady, metav1.ConditionFalse, "TensorParallelSizeMismatch", message)

	r.Recorder.Event(cluster, corev1.EventTypeWarning, "ValidationFailed", message)
	if err := utils.UpdateStatusWithBackoff(ctx, r.Client, cluster, utils.StandardBackoff, "LLMCluster"); err != nil {
		return ctrl.Result{}, fmt.Errorf("persisting Failed status: %w", err)
	}
	return ctrl.Result{}, nil
}

// reconcileChildren builds and applies every owned child object in order,
// per §4.1 step 4, and returns the stateful set's observed ready-replica
// count for status computation. Ordering is not strict: a later failure
// does not roll back earlier successes; the first failure is returned so
// the caller can requeue.
func (r *LLMClusterReconciler) reconcileChildren(ctx context.Context, cluster *llmdv1alpha1.LLMCluster) (int32, error) {
	sts := desiredStatefulSet(cluster)
	if err := r.applyOwned(ctx, cluster, sts, &appsv1.StatefulSet{}); err != nil {
		return 0, fmt.Errorf("reconciling stateful set: %w", err)
	}

	svc := desiredHeadlessService(cluster)
	if err := r.applyOwned(ctx, cluster, svc, &corev1.Service{}); err != nil {
		return 0, fmt.Errorf("reconciling headless service: %w", err)
	}

	if err := r.reconcileConfigRecord(ctx, cluster); err != nil {
		return 0, err
	}
	if err := r.reconcileRouter(ctx, cluster); err != nil {
		return 0, err
	}
	if err := r.reconcileQueue(ctx, cluster); err != nil {
		return 0, err
	}
	if err := r.reconcilePerInstanceAutoscaler(ctx, cluster); err != nil {
		return 0, err
	}
	if err := r.reconcileDisruptionBudget(ctx, cluster); err != nil {
		return 0, err
	}
	if err := r.reconcileNetworkPolicy(ctx, cluster); err != nil {
		return 0, err
	}

	var observed appsv1.StatefulSet
	key := client.ObjectKey{Name: cluster.Name, Namespace: cluster.Namespace}
	if err := utils.GetResourceWithBackoff(ctx, r.Client, key, &observed, utils.StandardBackoff, "StatefulSet"); err != nil {
		if apierrors.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("getting stateful set for status: %w", err)
	}
	return observed.Status.ReadyReplicas, nil
}

// reconcileConfigRecord reconciles the shared config record (§4.1 step 4,
// §3.2) consumed by the router and queue deployments. It is only needed
// when at least one of them is enabled.
func (r *LLMClusterReconciler) reconcileConfigRecord(ctx context.Context, cluster *llmdv1alpha1.LLMCluster) error {
	if !cluster.Spec.Router.Enabled && !cluster.Spec.Queue.Enabled {
		return nil
	}
	if err := r.applyOwned(ctx, cluster, desiredConfigRecord(cluster), &corev1.ConfigMap{}); err != nil {
		return fmt.Errorf("reconciling config record: %w", err)
	}
	return nil
}

func (r *LLMClusterReconciler) reconcileRouter(ctx context.Context, cluster *llmdv1alpha1.LLMCluster) error {
	if !cluster.Spec.Router.Enabled {
		return nil
	}
	if err := r.applyOwned(ctx, cluster, desiredRouterDeployment(cluster), &appsv1.Deployment{}); err != nil {
		return fmt.Errorf("reconciling router deployment: %w", err)
	}
	if err := r.applyOwned(ctx, cluster, desiredRouterService(cluster), &corev1.Service{}); err != nil {
		return fmt.Errorf("reconciling router service: %w", err)
	}
	return nil
}

func (r *LLMClusterReconciler) reconcileQueue(ctx context.Context, cluster *llmdv1alpha1.LLMCluster) error {
	if !cluster.Spec.Queue.Enabled {
		return nil
	}
	if err := r.applyOwned(ctx, cluster, desiredQueueDeployment(cluster), &appsv1.Deployment{}); err != nil {
		return fmt.Errorf("reconciling queue deployment: %w", err)
	}
	if err := r.applyOwned(ctx, cluster, desiredQueueService(cluster), &corev1.Service{}); err != nil {
		return fmt.Errorf("reconciling queue service: %w", err)
	}
	return nil
}

// reconcilePerInstanceAutoscaler reconciles the CRD-permitted, fleet-orthogonal
// per-instance HPA hook. Production guidance is to disable it against the
// stateful set (§4.1 step 4, §9); the reconciler still honors the spec as
// written rather than silently refusing it.
func (r *LLMClusterReconciler) reconcilePerInstanceAutoscaler(ctx context.Context, cluster *llmdv1alpha1.LLMCluster) error {
	if !cluster.Spec.Autoscaling.Enabled {
		return nil
	}
	if err := r.applyOwned(ctx, cluster, desiredInstanceHPA(cluster), &autoscalingv2.HorizontalPodAutoscaler{}); err != nil {
		return fmt.Errorf("reconciling per-instance autoscaler: %w", err)
	}
	return nil
}

func (r *LLMClusterReconciler) reconcileDisruptionBudget(ctx context.Context, cluster *llmdv1alpha1.LLMCluster) error {
	if !cluster.Spec.HighAvailability.DisruptionBudget.Enabled {
		return nil
	}
	if err := r.applyOwned(ctx, cluster, desiredDisruptionBudget(cluster), &policyv1.PodDisruptionBudget{}); err != nil {
		return fmt.Errorf("reconciling disruption budget: %w", err)
	}
	return nil
}

func (r *LLMClusterReconciler) reconcileNetworkPolicy(ctx context.Context, cluster *llmdv1alpha1.LLMCluster) error {
	if !cluster.Spec.Network.NetworkPolicyEnabled {
		return nil
	}
	if err := r.applyOwned(ctx, cluster, desiredNetworkPolicy(cluster), &networkingv1.NetworkPolicy{}); err != nil {
		return fmt.Errorf("reconciling network policy: %w", err)
	}
	return nil
}

// applyOwned fetches the current object into existingObj, sets the owner
// reference on desired, and creates or updates via the shared backoff
// helper. existingObj and desired must be the same concrete type.
func (r *LLMClusterReconciler) applyOwned(ctx context.Context, cluster *llmdv1alpha1.LLMCluster, desired client.Object, existingObj client.Object) error {
	if err := controllerutil.SetControllerReference(cluster, desired, r.Scheme); err != nil {
		return fmt.Errorf("setting owner reference: %w", err)
	}

	key := client.ObjectKeyFromObject(desired)
	err := r.Get(ctx, key, existingObj)
	exists := err == nil
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("getting existing object %s: %w", key, err)
	}

	return utils.CreateOrUpdateWithBackoff(ctx, r.Client, existingObj, desired, exists, mutateInPlace, utils.ReconcileBackoff, fmt.Sprintf("%T", desired))
}

// mutateInPlace overwrites current's spec-bearing fields with desired's
// before Update, using a type switch since the generic backoff helper is
// parameterized only on client.Object.
func mutateInPlace(current, desired client.Object) {
	switch d := desired.(type) {
	case *appsv1.StatefulSet:
		c := current.(*appsv1.StatefulSet)
		c.Spec = d.Spec
		c.Labels = d.Labels
	case *appsv1.Deployment:
		c := current.(*appsv1.Deployment)
		c.Spec = d.Spec
		c.Labels = d.Labels
	case *corev1.Service:
		c := current.(*corev1.Service)
		clusterIP := c.Spec.ClusterIP
		c.Spec = d.Spec
		if d.Spec.ClusterIP == "" {
			c.Spec.ClusterIP = clusterIP
		}
		c.Labels = d.Labels
	case *policyv1.PodDisruptionBudget:
		c := current.(*policyv1.PodDisruptionBudget)
		c.Spec = d.Spec
	case *networkingv1.NetworkPolicy:
		c := current.(*networkingv1.NetworkPolicy)
		c.Spec = d.Spec
	case *autoscalingv2.HorizontalPodAutoscaler:
		c := current.(*autoscalingv2.HorizontalPodAutoscaler)
		c.Spec = d.Spec
	case *corev1.ConfigMap:
		c := current.(*corev1.ConfigMap)
		c.Data = d.Data
		c.Labels = d.Labels
	case *llmdv1alpha1.LLMCluster:
		c := current.(*llmdv1alpha1.LLMCluster)
		c.Spec = d.Spec
	}
}

// computeStatus applies §4.1 steps 5-6: replica/GPU totals and phase
// transition strictly from observed child state.
func (r *LLMClusterReconciler) computeStatus(cluster *llmdv1alpha1.LLMCluster, readyReplicas int32) {
	cluster.Status.Replicas = cluster.Spec.Replicas
	cluster.Status.ReadyReplicas = readyReplicas
	cluster.Status.ObservedGeneration = cluster.Generation
	cluster.Status.Metrics.TotalGPUs = cluster.Spec.Replicas * cluster.Spec.GPUsPerPod
	cluster.Status.Selector = fmt.Sprintf("app=%s", cluster.Name)

	if readyReplicas == cluster.Spec.Replicas {
		cluster.Status.Phase = llmdv1alpha1.ClusterPhaseRunning
		llmdv1alpha1.SetClusterCondition(cluster, llmdv1alpha1.ClusterConditionReady, metav1.ConditionTrue, "AllPodsReady", "all replicas are ready")
		llmdv1alpha1.SetClusterCondition(cluster, llmdv1alpha1.ClusterConditionProgressing, metav1.ConditionFalse, "AllPodsReady", "all replicas are ready")
	} else {
		cluster.Status.Phase = llmdv1alpha1.ClusterPhaseProgressing
		message := fmt.Sprintf("%d/%d replicas ready", readyReplicas, cluster.Spec.Replicas)
		llmdv1alpha1.SetClusterCondition(cluster, llmdv1alpha1.ClusterConditionReady, metav1.ConditionFalse, "PodsNotReady", message)
		llmdv1alpha1.SetClusterCondition(cluster, llmdv1alpha1.ClusterConditionProgressing, metav1.ConditionTrue, "PodsNotReady", message)
	}
}

// SetupWithManager wires the reconciler to watch LLMCluster and every child
// kind it owns.
func (r *LLMClusterReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&llmdv1alpha1.LLMCluster{}).
		Owns(&appsv1.StatefulSet{}, builder.WithPredicates(ChildObjectEventFilter())).
		Owns(&appsv1.Deployment{}, builder.WithPredicates(ChildObjectEventFilter())).
		Owns(&corev1.Service{}, builder.WithPredicates(ChildObjectEventFilter())).
		Owns(&corev1.ConfigMap{}, builder.WithPredicates(ChildObjectEventFilter())).
		Owns(&policyv1.PodDisruptionBudget{}, builder.WithPredicates(ChildObjectEventFilter())).
		Owns(&networkingv1.NetworkPolicy{}, builder.WithPredicates(ChildObjectEventFilter())).
		Owns(&autoscalingv2.HorizontalPodAutoscaler{}, builder.WithPredicates(ChildObjectEventFilter())).
		Named("llmcluster").
		Complete(r)
}
