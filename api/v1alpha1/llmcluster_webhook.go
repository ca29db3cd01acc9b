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

	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"
)

var llmclusterlog = logf.Log.WithName("llmcluster-resource")

// SetupWebhookWithManager registers the validating webhook with the manager.
func (c *LLMCluster) SetupWebhookWithManager(mgr ctrl.Manager) error {
	return ctrl.NewWebhookManagedBy(mgr).
		For(c).
		WithValidator(&LLMClusterCustomValidator{}).
		Complete()
}

// +kubebuilder:webhook:path=/validate-serving-ai-v1alpha1-llmcluster,mutating=false,failurePolicy=fail,sideEffects=None,groups=serving.ai,resources=llmclusters,verbs=create;update,versions=v1alpha1,name=vllmcluster.kb.io,admissionReviewVersions=v1

// LLMClusterCustomValidator validates LLMCluster resources on admission.
//
// It rejects objects with missing required fields and shape mismatches that
// the CRD's OpenAPI schema cannot express; it does not check the
// tensor-parallel size. The
// authoritative tensor-parallel check (§4.1 step 2) happens in the
// reconciler, because a webhook rejection would leave the user without the
// descriptive Failed status/condition the reconcile contract requires.
type LLMClusterCustomValidator struct{}

var _ webhook.CustomValidator = &LLMClusterCustomValidator{}

func (v *LLMClusterCustomValidator) ValidateCreate(ctx context.Context, obj runtime.Object) (admission.Warnings, error) {
	c, ok := obj.(*LLMCluster)
	if !ok {
		return nil, fmt.Errorf("expected an LLMCluster but got %T", obj)
	}
	llmclusterlog.Info("validate create", "name", c.Name)
	return nil, validateLLMCluster(c)
}

func (v *LLMClusterCustomValidator) ValidateUpdate(ctx context.Context, oldObj, newObj runtime.Object) (admission.Warnings, error) {
	c, ok := newObj.(*LLMCluster)
	if !ok {
		return nil, fmt.Errorf("expected an LLMCluster but got %T", newObj)
	}
	llmclusterlog.Info("validate update", "name", c.Name)
	return nil, validateLLMCluster(c)
}

func (v *LLMClusterCustomValidator) ValidateDelete(ctx context.Context, obj runtime.Object) (admission.Warnings, error) {
	return nil, nil
}

func validateLLMCluster(c *LLMCluster) error {
	var warnings []string

	if c.Spec.Model == "" {
		warnings = append(warnings, "spec.model is required")
	}
	if c.Spec.Replicas < 1 {
		warnings = append(warnings, "spec.replicas must be at least 1")
	}
	if c.Spec.GPUsPerPod < 1 {
		warnings = append(warnings, "spec.gpusPerPod must be at least 1")
	}
	if c.Spec.Autoscaling.Enabled && c.Spec.Autoscaling.MinReplicas > c.Spec.Autoscaling.MaxReplicas {
		warnings = append(warnings, "spec.autoscaling.minReplicas must be <= spec.autoscaling.maxReplicas")
	}

	if len(warnings) > 0 {
		errMsg := "validation failed:"
		for _, w := range warnings {
			errMsg += "\n  - " + w
		}
		return fmt.Errorf("%s", errMsg)
	}
	return nil
}
