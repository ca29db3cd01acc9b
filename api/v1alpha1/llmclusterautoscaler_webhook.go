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
	"context"
	"fmt"
	"strconv"

	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"
)

var llmclusterautoscalerlog = logf.Log.WithName("llmclusterautoscaler-resource")

// SetupWebhookWithManager registers the validating webhook with the manager.
func (a *LLMClusterAutoscaler) SetupWebhookWithManager(mgr ctrl.Manager) error {
	return ctrl.NewWebhookManagedBy(mgr).
		For(a).
		WithValidator(&LLMClusterAutoscalerCustomValidator{}).
		Complete()
}

// +kubebuilder:webhook:path=/validate-serving-ai-v1alpha1-llmclusterautoscaler,mutating=false,failurePolicy=fail,sideEffects=None,groups=serving.ai,resources=llmclusterautoscalers,verbs=create;update,versions=v1alpha1,name=vllmclusterautoscaler.kb.io,admissionReviewVersions=v1

// LLMClusterAutoscalerCustomValidator enforces the hysteresis invariant and
// min/max sanity at admission time, ahead of the reconciler's own policy
// validation in §4.2 step 1 (belt-and-suspenders: the reconciler must still
// validate, since existing objects can predate this webhook or be edited
// while the webhook is unavailable).
type LLMClusterAutoscalerCustomValidator struct{}

var _ webhook.CustomValidator = &LLMClusterAutoscalerCustomValidator{}

func (v *LLMClusterAutoscalerCustomValidator) ValidateCreate(ctx context.Context, obj runtime.Object) (admission.Warnings, error) {
	a, ok := obj.(*LLMClusterAutoscaler)
	if !ok {
		return nil, fmt.Errorf("expected an LLMClusterAutoscaler but got %T", obj)
	}
	llmclusterautoscalerlog.Info("validate create", "name", a.Name)
	return nil, validateLLMClusterAutoscaler(a)
}

func (v *LLMClusterAutoscalerCustomValidator) ValidateUpdate(ctx context.Context, oldObj, newObj runtime.Object) (admission.Warnings, error) {
	a, ok := newObj.(*LLMClusterAutoscaler)
	if !ok {
		return nil, fmt.Errorf("expected an LLMClusterAutoscaler but got %T", newObj)
	}
	llmclusterautoscalerlog.Info("validate update", "name", a.Name)
	return nil, validateLLMClusterAutoscaler(a)
}

func (v *LLMClusterAutoscalerCustomValidator) ValidateDelete(ctx context.Context, obj runtime.Object) (admission.Warnings, error) {
	return nil, nil
}

func validateLLMClusterAutoscaler(a *LLMClusterAutoscaler) error {
	var errs []string

	if a.Spec.MinInstances <= 0 {
		errs = append(errs, "spec.minInstances must be > 0")
	}
	if a.Spec.MaxInstances <= 0 {
		errs = append(errs, "spec.maxInstances must be > 0")
	}
	if a.Spec.MinInstances > a.Spec.MaxInstances {
		errs = append(errs, "spec.minInstances must be <= spec.maxInstances")
	}
	if len(a.Spec.Metrics) == 0 {
		errs = append(errs, "spec.metrics must contain at least one entry")
	}
	for i, m := range a.Spec.Metrics {
		up, upErr := strconv.ParseFloat(m.Threshold.ScaleUp, 64)
		down, downErr := strconv.ParseFloat(m.Threshold.ScaleDown, 64)
		if upErr != nil {
			errs = append(errs, fmt.Sprintf("spec.metrics[%d].threshold.scaleUp is not numeric", i))
			continue
		}
		if downErr != nil {
			errs = append(errs, fmt.Sprintf("spec.metrics[%d].threshold.scaleDown is not numeric", i))
			continue
		}
		if up <= down {
			errs = append(errs, fmt.Sprintf("spec.metrics[%d]: scaleUp (%v) must be greater than scaleDown (%v)", i, up, down))
		}
		if m.Query == "" && a.Spec.ScaleTargetRef.AppLabel == "" {
			errs = append(errs, fmt.Sprintf("spec.metrics[%d]: query is required when scaleTargetRef.appLabel is not set", i))
		}
	}

	if len(errs) > 0 {
		errMsg := "validation failed:"
		for _, e := range errs {
			errMsg += "\n  - " + e
		}
		return fmt.Errorf("%s", errMsg)
	}
	return nil
}
