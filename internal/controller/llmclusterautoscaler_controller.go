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
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/manager"

	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"

	llmdv1alpha1 "github.com/llm-d-incubation/llm-fleet-controlplane/api/v1alpha1"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/decision"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/fleet"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/logger"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/metrics"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/promquery"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/utils"
)

// AnnotationManagedBy marks an LLMCluster as managed by a particular
// LLMClusterAutoscaler, enforcing ownership uniqueness (§3.2): first-bound
// wins.
const AnnotationManagedBy = "autoscaling.serving.ai/managed-by"

// LLMClusterAutoscalerReconciler samples external metrics for one fleet
// policy, decides whether to grow, shrink, or hold, executes that action
// with cooldown and drain discipline, and keeps a router's backend list
// aligned with the live fleet (§4.2).
type LLMClusterAutoscalerReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Metrics  *metrics.MetricsEmitter

	// SyncInterval is the ticker period driving the fleet-wide sweep.
	SyncInterval time.Duration
	// DrainDelay is the fixed sleep between router detachment and instance
	// deletion during scale-down (§5).
	DrainDelay time.Duration

	// QueryOverrides holds operator-supplied PromQL overrides for the
	// built-in default queries, sourced from a ConfigMap named
	// QueryOverridesConfigMapName in each autoscaler's namespace.
	QueryOverrides *promquery.OverrideCache

	// PromQueryTimeout bounds each individual Prometheus query issued
	// during metric sampling.
	PromQueryTimeout time.Duration

	promClients   map[string]promv1.API
	promClientsMu sync.Mutex
}

// QueryOverridesConfigMapName is the well-known ConfigMap name consulted for
// per-metric-type default query overrides, read once per reconcile.
const QueryOverridesConfigMapName = "llm-fleet-query-overrides"

// +kubebuilder:rbac:groups=serving.ai,resources=llmclusterautoscalers,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=serving.ai,resources=llmclusterautoscalers/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=serving.ai,resources=llmclusters,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// Reconcile responds to create/update/delete of the policy object itself;
// the actual fleet sweep is driven by the ticker loop registered in
// SetupWithManager; a direct watch event still runs one immediate cycle so
// a freshly created or edited policy does not wait a full tick.
func (r *LLMClusterAutoscalerReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	var autoscaler llmdv1alpha1.LLMClusterAutoscaler
	if err := r.Get(ctx, req.NamespacedName, &autoscaler); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, fmt.Errorf("getting LLMClusterAutoscaler %s: %w", req.NamespacedName, err)
	}

	if err := r.ReconcileAutoscaler(ctx, &autoscaler); err != nil {
		logger.Log.Warnw("fleet reconcile failed", "autoscaler", autoscaler.Name, "namespace", autoscaler.Namespace, "error", err)
	}
	return ctrl.Result{}, nil
}

// sweepAll lists every LLMClusterAutoscaler and reconciles each serially,
// per §4.2's "a single ticker fires every syncInterval... every autoscaler
// object is reconciled independently. Concurrency is single-threaded per
// autoscaler."
func (r *LLMClusterAutoscalerReconciler) sweepAll(ctx context.Context) {
	var list llmdv1alpha1.LLMClusterAutoscalerList
	if err := r.List(ctx, &list); err != nil {
		logger.Log.Errorw("listing LLMClusterAutoscalers for sweep failed", "error", err)
		return
	}
	for i := range list.Items {
		a := &list.Items[i]
		if err := r.ReconcileAutoscaler(ctx, a); err != nil {
			logger.Log.Warnw("fleet sweep reconcile failed", "autoscaler", a.Name, "namespace", a.Namespace, "error", err)
		}
	}
}

// ReconcileAutoscaler executes one full §4.2 per-reconcile cycle for a.
func (r *LLMClusterAutoscalerReconciler) ReconcileAutoscaler(ctx context.Context, a *llmdv1alpha1.LLMClusterAutoscaler) error {
	policy, err := validatePolicy(a)
	if err != nil {
		llmdv1alpha1.SetAutoscalerCondition(a, llmdv1alpha1.AutoscalerConditionReady, metav1.ConditionFalse, "PolicyInvalid", err.Error())
		return utils.UpdateStatusWithBackoff(ctx, r.Client, a, utils.StandardBackoff, "LLMClusterAutoscaler")
	}

	if r.QueryOverrides != nil {
		if err := r.QueryOverrides.Refresh(ctx, r.Client, QueryOverridesConfigMapName, a.Namespace); err != nil {
			logger.Log.Warnw("query override refresh failed, continuing with built-in defaults", "namespace", a.Namespace, "error", err)
		}
	}

	instances, err := r.listManagedInstances(ctx, a)
	if err != nil {
		return fmt.Errorf("listing managed instances: %w", err)
	}
	sorted := fleet.SortByCreationAscending(instances)

	promAPI, err := r.promAPIFor(a.Spec.Prometheus.Address)
	if err != nil {
		return fmt.Errorf("building prometheus client: %w", err)
	}

	samples, observed := r.sampleMetrics(ctx, promAPI, a, policy)
	d := decision.Evaluate(policy, samples)

	action, reason := r.executeAction(ctx, a, d, sorted)

	// Re-list the fleet (it may have grown or shrunk) and reconcile router
	// backends unconditionally, per §4.2 step 6.
	instances, err = r.listManagedInstances(ctx, a)
	if err != nil {
		return fmt.Errorf("re-listing managed instances: %w", err)
	}
	sorted = fleet.SortByCreationAscending(instances)
	if err := r.reconcileRouterBackends(ctx, a, sorted); err != nil {
		action = llmdv1alpha1.ScaleActionBlocked
		reason = fmt.Sprintf("router backend reconcile failed: %v", err)
	}

	// scaleUp/scaleDown stamp a cooldown epoch annotation on a via setEpoch,
	// but LLMClusterAutoscaler has a status subresource, so the status
	// update below (Status().Update()) never writes .metadata. Persist the
	// annotation with a plain Update() first, then re-fetch so the
	// subsequent status write carries the resulting resourceVersion instead
	// of racing it.
	if action == llmdv1alpha1.ScaleActionScaleUp || action == llmdv1alpha1.ScaleActionScaleDown {
		if err := utils.UpdateObjectWithBackoff(ctx, r.Client, a, utils.StandardBackoff, "LLMClusterAutoscaler"); err != nil {
			return fmt.Errorf("persisting cooldown annotation: %w", err)
		}
		var refreshed llmdv1alpha1.LLMClusterAutoscaler
		if err := utils.GetResourceWithBackoff(ctx, r.Client, client.ObjectKeyFromObject(a), &refreshed, utils.StandardBackoff, "LLMClusterAutoscaler"); err != nil {
			return fmt.Errorf("re-fetching after annotation update: %w", err)
		}
		*a = refreshed
	}

	r.updateStatus(a, d, action, reason, len(sorted), observed)
	if r.Metrics != nil {
		_ = r.Metrics.EmitScaleAction(ctx, a.Name, a.Namespace, string(action))
		_ = r.Metrics.EmitFleetSize(ctx, a.Name, a.Namespace, len(sorted), int(a.Status.DesiredInstances))
	}
	return utils.UpdateStatusWithBackoff(ctx, r.Client, a, utils.StandardBackoff, "LLMClusterAutoscaler")
}

// policyError is a validation failure distinguished from transient errors
// per §7's error taxonomy.
type policyError struct{ msg string }

func (e *policyError) Error() string { return e.msg }

// validatePolicy implements §4.2 step 1: required fields, hysteresis, and a
// check that every metric has a query or an appLabel to derive one from.
// The default query itself is substituted later, in sampleMetrics.
func validatePolicy(a *llmdv1alpha1.LLMClusterAutoscaler) (decision.PolicySnapshot, error) {
	if a.Spec.MinInstances <= 0 || a.Spec.MaxInstances <= 0 || a.Spec.MinInstances > a.Spec.MaxInstances {
		return decision.PolicySnapshot{}, &policyError{"minInstances/maxInstances invalid"}
	}
	if len(a.Spec.Metrics) == 0 {
		return decision.PolicySnapshot{}, &policyError{"at least one metric is required"}
	}

	thresholds := make([]decision.MetricThreshold, 0, len(a.Spec.Metrics))
	for _, m := range a.Spec.Metrics {
		up, upErr := strconv.ParseFloat(m.Threshold.ScaleUp, 64)
		down, downErr := strconv.ParseFloat(m.Threshold.ScaleDown, 64)
		if upErr != nil || downErr != nil {
			return decision.PolicySnapshot{}, &policyError{fmt.Sprintf("metric %s threshold is not numeric", m.Type)}
		}
		if up <= down {
			return decision.PolicySnapshot{}, &policyError{fmt.Sprintf("metric %s violates hysteresis invariant: scaleUp must be > scaleDown", m.Type)}
		}
		if m.Query == "" && a.Spec.ScaleTargetRef.AppLabel == "" {
			return decision.PolicySnapshot{}, &policyError{fmt.Sprintf("metric %s has no query and no appLabel to derive a default", m.Type)}
		}
		thresholds = append(thresholds, decision.MetricThreshold{Name: string(m.Type), ScaleUp: up, ScaleDown: down})
	}

	return decision.PolicySnapshot{Metrics: thresholds}, nil
}

func namePrefix(a *llmdv1alpha1.LLMClusterAutoscaler) string {
	if a.Spec.InstanceTemplate.NamePrefix != "" {
		return a.Spec.InstanceTemplate.NamePrefix
	}
	return a.Spec.ScaleTargetRef.AppLabel + "-instance-"
}

// listManagedInstances implements §4.2 step 2.
func (r *LLMClusterAutoscalerReconciler) listManagedInstances(ctx context.Context, a *llmdv1alpha1.LLMClusterAutoscaler) ([]fleet.Instance, error) {
	selector, err := scaleTargetSelector(a)
	if err != nil {
		return nil, err
	}

	var list llmdv1alpha1.LLMClusterList
	if err := r.List(ctx, &list, client.InNamespace(a.Namespace), client.MatchingLabelsSelector{Selector: selector}); err != nil {
		return nil, err
	}

	instances := make([]fleet.Instance, 0, len(list.Items))
	for _, item := range list.Items {
		if !item.DeletionTimestamp.IsZero() {
			continue
		}
		if item.Name == a.Spec.RouterRef.Name {
			continue
		}
		if owner, ok := item.Annotations[AnnotationManagedBy]; ok && owner != a.Name {
			continue
		}
		instances = append(instances, fleet.Instance{Name: item.Name, CreationTimestamp: item.CreationTimestamp})
	}
	return instances, nil
}

func scaleTargetSelector(a *llmdv1alpha1.LLMClusterAutoscaler) (labels.Selector, error) {
	if a.Spec.ScaleTargetRef.LabelSelector != "" {
		return labels.Parse(a.Spec.ScaleTargetRef.LabelSelector)
	}
	return labels.Parse(fmt.Sprintf("app=%s,role=instance", a.Spec.ScaleTargetRef.AppLabel))
}

// sampleMetrics issues one query per metric (§4.2 step 3), substituting the
// canonical default query when spec.query is empty.
func (r *LLMClusterAutoscalerReconciler) sampleMetrics(ctx context.Context, promAPI promv1.API, a *llmdv1alpha1.LLMClusterAutoscaler, policy decision.PolicySnapshot) (map[string]decision.Sample, map[string]string) {
	samples := make(map[string]decision.Sample, len(policy.Metrics))
	observed := make(map[string]string, len(policy.Metrics))

	for _, m := range a.Spec.Metrics {
		query := m.Query
		if query == "" {
			if r.QueryOverrides != nil {
				if override, ok := r.QueryOverrides.Lookup(string(m.Type), a.Namespace); ok {
					query = override
				}
			}
		}
		if query == "" {
			q, err := promquery.DefaultQuery(string(m.Type), a.Spec.ScaleTargetRef.AppLabel, a.Namespace)
			if err != nil {
				samples[string(m.Type)] = decision.Sample{Err: err}
				continue
			}
			query = q
		}

		queryCtx := ctx
		if r.PromQueryTimeout > 0 {
			var cancel context.CancelFunc
			queryCtx, cancel = context.WithTimeout(ctx, r.PromQueryTimeout)
			defer cancel()
		}
		value, found, err := promquery.QueryScalarWithBackoff(queryCtx, promAPI, query)
		samples[string(m.Type)] = decision.Sample{Value: value, Found: found, Err: err}
		if err == nil && found {
			observed[string(m.Type)] = strconv.FormatFloat(value, 'f', 2, 64)
		}
	}
	return samples, observed
}

// executeAction implements §4.2 steps 4-5: cooldown gating then the scale
// action itself.
func (r *LLMClusterAutoscalerReconciler) executeAction(ctx context.Context, a *llmdv1alpha1.LLMClusterAutoscaler, d decision.Decision, sorted []fleet.Instance) (llmdv1alpha1.ScaleAction, string) {
	if !d.MetricsAvailable {
		return llmdv1alpha1.ScaleActionNoOp, d.Reason
	}

	now := nowEpoch()
	upStabilization := a.Spec.Behavior.ScaleUpStabilizationSeconds
	if upStabilization == 0 {
		upStabilization = 300
	}
	downStabilization := a.Spec.Behavior.ScaleDownStabilizationSeconds
	if downStabilization == 0 {
		downStabilization = 300
	}

	current := len(sorted)

	if d.WantScaleUp {
		if current >= int(a.Spec.MaxInstances) {
			return llmdv1alpha1.ScaleActionNoOp, "at max"
		}
		if !decision.CooldownExpired(now, lastEpoch(a, llmdv1alpha1.AnnotationLastScaleUpEpoch), int32(upStabilization)) {
			return llmdv1alpha1.ScaleActionNoOp, "cooldown active"
		}
		reason := fmt.Sprintf("metric %s %.2f > %.2f", d.Trigger, d.Observed[d.Trigger], d.TriggerThreshold)
		if err := r.scaleUp(ctx, a, sorted, reason); err != nil {
			return llmdv1alpha1.ScaleActionBlocked, err.Error()
		}
		setEpoch(a, llmdv1alpha1.AnnotationLastScaleUpEpoch, now)
		return llmdv1alpha1.ScaleActionScaleUp, reason
	}

	if d.WantScaleDown {
		if current <= int(a.Spec.MinInstances) {
			return llmdv1alpha1.ScaleActionNoOp, "at min"
		}
		if !decision.CooldownExpired(now, lastEpoch(a, llmdv1alpha1.AnnotationLastScaleDownEpoch), int32(downStabilization)) {
			return llmdv1alpha1.ScaleActionNoOp, "cooldown active"
		}
		victim, ok := fleet.ScaleDownVictim(sorted)
		if !ok {
			return llmdv1alpha1.ScaleActionNoOp, "no instance to remove"
		}
		if err := r.scaleDown(ctx, a, sorted, victim); err != nil {
			return llmdv1alpha1.ScaleActionBlocked, err.Error()
		}
		setEpoch(a, llmdv1alpha1.AnnotationLastScaleDownEpoch, now)
		return llmdv1alpha1.ScaleActionScaleDown, fmt.Sprintf("removed %s", victim.Name)
	}

	return llmdv1alpha1.ScaleActionNoOp, "within thresholds"
}

// scaleUp builds and creates the next LLMCluster instance per §4.2 step 5.
func (r *LLMClusterAutoscalerReconciler) scaleUp(ctx context.Context, a *llmdv1alpha1.LLMClusterAutoscaler, sorted []fleet.Instance, reason string) error {
	prefix := namePrefix(a)
	names := make([]string, len(sorted))
	for i, inst := range sorted {
		names[i] = inst.Name
	}
	name := fleet.NextInstanceName(names, prefix)

	spec := instanceSpecFromTemplate(a)
	labels := map[string]string{AnnotationManagedBy: a.Name}
	for k, v := range a.Spec.InstanceTemplate.Labels {
		labels[k] = v
	}
	if _, ok := labels["app"]; !ok && a.Spec.ScaleTargetRef.AppLabel != "" {
		labels["app"] = a.Spec.ScaleTargetRef.AppLabel
	}
	if _, ok := labels["role"]; !ok && a.Spec.ScaleTargetRef.LabelSelector == "" {
		labels["role"] = "instance"
	}

	annotations := map[string]string{AnnotationManagedBy: a.Name}
	for k, v := range a.Spec.InstanceTemplate.Annotations {
		annotations[k] = v
	}

	newCluster := &llmdv1alpha1.LLMCluster{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Namespace:   a.Namespace,
			Labels:      labels,
			Annotations: annotations,
		},
		Spec: spec,
	}

	if err := r.Create(ctx, newCluster); err != nil {
		return fmt.Errorf("creating instance %s: %w", name, err)
	}
	r.Recorder.Event(a, corev1.EventTypeNormal, "ScaleUp", fmt.Sprintf("created instance %s: %s", name, reason))
	return nil
}

// instanceSpecFromTemplate deep-copies the embedded Spec if set, otherwise
// synthesizes the flat shorthand with safe defaults per §4.2 step 5: router
// disabled, queue disabled, inference engine vllm.
func instanceSpecFromTemplate(a *llmdv1alpha1.LLMClusterAutoscaler) llmdv1alpha1.LLMClusterSpec {
	t := a.Spec.InstanceTemplate
	if t.Spec != nil {
		return *t.Spec.DeepCopy()
	}
	return llmdv1alpha1.LLMClusterSpec{
		Model:              t.Model,
		ModelSize:          t.ModelSize,
		Image:              t.Image,
		InferenceEngine:    llmdv1alpha1.InferenceEngineVLLM,
		Replicas:           t.Replicas,
		GPUsPerPod:         t.GPUsPerPod,
		TensorParallelSize: t.TensorParallelSize,
		Router:             llmdv1alpha1.RouterSpec{Enabled: false},
		Queue:              llmdv1alpha1.QueueSpec{Enabled: false},
	}
}

// scaleDown reconciles the router to exclude victim, sleeps drainDelay, then
// deletes victim, per §4.2 step 5 and §5's ordering guarantee (router detach
// -> drain delay -> delete, so no new traffic arrives during drain).
func (r *LLMClusterAutoscalerReconciler) scaleDown(ctx context.Context, a *llmdv1alpha1.LLMClusterAutoscaler, sorted []fleet.Instance, victim fleet.Instance) error {
	remaining := make([]fleet.Instance, 0, len(sorted)-1)
	for _, inst := range sorted {
		if inst.Name != victim.Name {
			remaining = append(remaining, inst)
		}
	}
	if err := r.reconcileRouterBackends(ctx, a, remaining); err != nil {
		return fmt.Errorf("detaching %s from router before drain: %w", victim.Name, err)
	}

	drainDelay := r.DrainDelay
	if drainDelay == 0 {
		drainDelay = 30 * time.Second
	}
	time.Sleep(drainDelay)

	victimObj := &llmdv1alpha1.LLMCluster{
		ObjectMeta: metav1.ObjectMeta{Name: victim.Name, Namespace: a.Namespace},
	}
	if err := utils.DeleteResourceWithBackoff(ctx, r.Client, victimObj, utils.ReconcileBackoff, "LLMCluster"); err != nil {
		return fmt.Errorf("deleting instance %s: %w", victim.Name, err)
	}
	r.Recorder.Event(a, corev1.EventTypeNormal, "ScaleDown", fmt.Sprintf("removed instance %s", victim.Name))
	return nil
}

// reconcileRouterBackends implements §4.2 step 6: the router object is an
// LLMCluster whose spec.router.backends is rewritten to match sorted, in
// creation order. This must never touch the router's own replicas/gpusPerPod.
func (r *LLMClusterAutoscalerReconciler) reconcileRouterBackends(ctx context.Context, a *llmdv1alpha1.LLMClusterAutoscaler, sorted []fleet.Instance) error {
	if a.Spec.RouterRef.Name == "" {
		return nil
	}

	var router llmdv1alpha1.LLMCluster
	key := client.ObjectKey{Name: a.Spec.RouterRef.Name, Namespace: a.Namespace}
	if err := utils.GetResourceWithBackoff(ctx, r.Client, key, &router, utils.StandardBackoff, "LLMCluster"); err != nil {
		return fmt.Errorf("getting router %s: %w", a.Spec.RouterRef.Name, err)
	}

	backends := fleet.BuildBackendList(sorted, a.Spec.RouterRef.BackendNamePrefix, a.Spec.RouterRef.BackendPort)
	router.Spec.Router.Backends = make([]llmdv1alpha1.RouterBackend, len(backends))
	for i, b := range backends {
		router.Spec.Router.Backends[i] = llmdv1alpha1.RouterBackend{Name: b.Name, Service: b.Service, Port: b.Port}
	}

	return utils.CreateOrUpdateWithBackoff(ctx, r.Client, &router, &router, true, func(current, desired *llmdv1alpha1.LLMCluster) {}, utils.ReconcileBackoff, "LLMCluster")
}

func (r *LLMClusterAutoscalerReconciler) updateStatus(a *llmdv1alpha1.LLMClusterAutoscaler, d decision.Decision, action llmdv1alpha1.ScaleAction, reason string, currentInstances int, observed map[string]string) {
	a.Status.CurrentInstances = int32(currentInstances)
	a.Status.DesiredInstances = int32(currentInstances)
	a.Status.LastScaleTime = metav1.Now()
	a.Status.LastScaleAction = action
	a.Status.ObservedMetrics = observed

	if d.MetricsAvailable {
		llmdv1alpha1.SetAutoscalerCondition(a, llmdv1alpha1.AutoscalerConditionMetricsAvailable, metav1.ConditionTrue, "MetricsCollected", "all metrics sampled successfully")
	} else {
		llmdv1alpha1.SetAutoscalerCondition(a, llmdv1alpha1.AutoscalerConditionMetricsAvailable, metav1.ConditionFalse, "MetricsUnavailable", d.Reason)
	}

	if action == llmdv1alpha1.ScaleActionBlocked {
		llmdv1alpha1.SetAutoscalerCondition(a, llmdv1alpha1.AutoscalerConditionReady, metav1.ConditionFalse, "ActionBlocked", reason)
	} else {
		llmdv1alpha1.SetAutoscalerCondition(a, llmdv1alpha1.AutoscalerConditionReady, metav1.ConditionTrue, "ReconcileComplete", reason)
	}
}

func (r *LLMClusterAutoscalerReconciler) promAPIFor(address string) (promv1.API, error) {
	r.promClientsMu.Lock()
	defer r.promClientsMu.Unlock()
	if r.promClients == nil {
		r.promClients = make(map[string]promv1.API)
	}
	if c, ok := r.promClients[address]; ok {
		return c, nil
	}
	api, err := promquery.NewAPI(promquery.Config{Address: address, TLS: &promquery.TLSConfig{Enabled: true}})
	if err != nil {
		return nil, err
	}
	r.promClients[address] = api
	return api, nil
}

func nowEpoch() int64 { return time.Now().Unix() }

func lastEpoch(a *llmdv1alpha1.LLMClusterAutoscaler, key string) int64 {
	v, ok := a.Annotations[key]
	if !ok {
		return 0
	}
	epoch, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return epoch
}

func setEpoch(a *llmdv1alpha1.LLMClusterAutoscaler, key string, epoch int64) {
	if a.Annotations == nil {
		a.Annotations = map[string]string{}
	}
	a.Annotations[key] = strconv.FormatInt(epoch, 10)
}

// SetupWithManager registers the CRD watch (for create/update/delete of the
// policy object) and a ticker-driven RunnableFunc that sweeps every
// LLMClusterAutoscaler on SyncInterval, mirroring the fleet-wide periodic
// sweep described in §4.2.
func (r *LLMClusterAutoscalerReconciler) SetupWithManager(mgr ctrl.Manager) error {
	if r.SyncInterval == 0 {
		r.SyncInterval = 30 * time.Second
	}

	if err := mgr.Add(manager.RunnableFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(r.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				r.sweepAll(ctx)
			}
		}
	})); err != nil {
		return fmt.Errorf("registering fleet sweep runnable: %w", err)
	}

	return ctrl.NewControllerManagedBy(mgr).
		For(&llmdv1alpha1.LLMClusterAutoscaler{}).
		WithEventFilter(AutoscalerCRDEventFilter()).
		Named("llmclusterautoscaler").
		Complete(r)
}
