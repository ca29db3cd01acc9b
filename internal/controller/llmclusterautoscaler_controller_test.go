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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"

	llmdv1alpha1 "github.com/llm-d-incubation/llm-fleet-controlplane/api/v1alpha1"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/promquery"
	testutils "github.com/llm-d-incubation/llm-fleet-controlplane/test/utils"
)

// createTestAutoscalerReconciler wires a fleet autoscaler reconciler whose
// Prometheus client for promAddress is the given mock, bypassing real
// connection setup in promAPIFor.
func createTestAutoscalerReconciler(k8sClient client.Client, promAddress string, mock *testutils.MockPromAPI) *LLMClusterAutoscalerReconciler {
	r := &LLMClusterAutoscalerReconciler{
		Client:     k8sClient,
		Scheme:     k8sClient.Scheme(),
		Recorder:   record.NewFakeRecorder(32),
		DrainDelay: 0,
	}
	r.promClients = map[string]promv1.API{promAddress: mock}
	return r
}

// instanceFixture creates an LLMCluster labeled as one of appLabel's fleet
// instances. The creation timestamp set here is replaced by the API server
// on Create.
func instanceFixture(name, namespace, appLabel string, age time.Duration) *llmdv1alpha1.LLMCluster {
	cluster := testutils.NewTestLLMCluster(name, namespace)
	cluster.Labels = map[string]string{"app": appLabel, "role": "instance"}
	cluster.CreationTimestamp = metav1.NewTime(time.Now().Add(-age))
	return cluster
}

var _ = Describe("LLMClusterAutoscaler Controller", func() {
	const appLabel = "fleet-test-app"
	ctx := context.Background()

	var instanceNames []string

	AfterEach(func() {
		for _, name := range instanceNames {
			cluster := &llmdv1alpha1.LLMCluster{}
			if err := k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: "default"}, cluster); err == nil {
				Expect(k8sClient.Delete(ctx, cluster)).To(Succeed())
			}
		}
		instanceNames = nil
	})

	Context("when the policy is invalid", func() {
		const resourceName = "bad-policy"
		namespacedName := types.NamespacedName{Name: resourceName, Namespace: "default"}

		AfterEach(func() {
			a := &llmdv1alpha1.LLMClusterAutoscaler{}
			if err := k8sClient.Get(ctx, namespacedName, a); err == nil {
				Expect(k8sClient.Delete(ctx, a)).To(Succeed())
			}
		})

		It("sets AutoscalerConditionReady=False without touching any instance", func() {
			autoscaler := testutils.NewTestLLMClusterAutoscaler(resourceName, "default", appLabel)
			autoscaler.Spec.Metrics[0].Threshold.ScaleUp = "1"
			autoscaler.Spec.Metrics[0].Threshold.ScaleDown = "5" // violates scaleUp > scaleDown
			Expect(k8sClient.Create(ctx, autoscaler)).To(Succeed())

			reconciler := createTestAutoscalerReconciler(k8sClient, autoscaler.Spec.Prometheus.Address, &testutils.MockPromAPI{
				QueryResults: map[string]model.Value{},
				QueryErrors:  map[string]error{},
			})
			Expect(reconciler.ReconcileAutoscaler(ctx, autoscaler)).NotTo(HaveOccurred())

			var got llmdv1alpha1.LLMClusterAutoscaler
			Expect(k8sClient.Get(ctx, namespacedName, &got)).To(Succeed())
			Expect(llmdv1alpha1.IsAutoscalerConditionTrue(&got, llmdv1alpha1.AutoscalerConditionReady)).To(BeFalse())
		})
	})

	Context("when the observed metric exceeds the scale-up threshold", func() {
		const resourceName = "scale-up-policy"
		namespacedName := types.NamespacedName{Name: resourceName, Namespace: "default"}

		AfterEach(func() {
			a := &llmdv1alpha1.LLMClusterAutoscaler{}
			if err := k8sClient.Get(ctx, namespacedName, a); err == nil {
				Expect(k8sClient.Delete(ctx, a)).To(Succeed())
			}
		})

		It("creates a new instance and leaves the fleet size increased", func() {
			autoscaler := testutils.NewTestLLMClusterAutoscaler(resourceName, "default", appLabel)
			Expect(k8sClient.Create(ctx, autoscaler)).To(Succeed())

			existing := instanceFixture(fmt.Sprintf("%s-instance-0", appLabel), "default", appLabel, time.Minute)
			Expect(k8sClient.Create(ctx, existing)).To(Succeed())
			instanceNames = append(instanceNames, existing.Name)

			query, err := promquery.DefaultQuery("QueueLength", appLabel, "default")
			Expect(err).NotTo(HaveOccurred())

			mock := &testutils.MockPromAPI{
				QueryResults: map[string]model.Value{
					query: model.Vector{&model.Sample{Value: 50}},
				},
				QueryErrors: map[string]error{},
			}
			reconciler := createTestAutoscalerReconciler(k8sClient, autoscaler.Spec.Prometheus.Address, mock)
			Expect(reconciler.ReconcileAutoscaler(ctx, autoscaler)).NotTo(HaveOccurred())

			var list llmdv1alpha1.LLMClusterList
			Expect(k8sClient.List(ctx, &list, client.InNamespace("default"))).To(Succeed())
			count := 0
			for _, item := range list.Items {
				if item.Labels["app"] == appLabel {
					count++
					if item.Name != existing.Name {
						instanceNames = append(instanceNames, item.Name)
					}
				}
			}
			Expect(count).To(Equal(2))

			var got llmdv1alpha1.LLMClusterAutoscaler
			Expect(k8sClient.Get(ctx, namespacedName, &got)).To(Succeed())
			Expect(got.Status.LastScaleAction).To(Equal(llmdv1alpha1.ScaleActionScaleUp))
		})

		It("does not scale past maxInstances", func() {
			autoscaler := testutils.NewTestLLMClusterAutoscaler(resourceName, "default", appLabel)
			autoscaler.Spec.MaxInstances = 1
			Expect(k8sClient.Create(ctx, autoscaler)).To(Succeed())

			existing := instanceFixture(fmt.Sprintf("%s-instance-0", appLabel), "default", appLabel, time.Minute)
			Expect(k8sClient.Create(ctx, existing)).To(Succeed())
			instanceNames = append(instanceNames, existing.Name)

			query, err := promquery.DefaultQuery("QueueLength", appLabel, "default")
			Expect(err).NotTo(HaveOccurred())

			mock := &testutils.MockPromAPI{
				QueryResults: map[string]model.Value{
					query: model.Vector{&model.Sample{Value: 50}},
				},
				QueryErrors: map[string]error{},
			}
			reconciler := createTestAutoscalerReconciler(k8sClient, autoscaler.Spec.Prometheus.Address, mock)
			Expect(reconciler.ReconcileAutoscaler(ctx, autoscaler)).NotTo(HaveOccurred())

			var list llmdv1alpha1.LLMClusterList
			Expect(k8sClient.List(ctx, &list, client.InNamespace("default"))).To(Succeed())
			count := 0
			for _, item := range list.Items {
				if item.Labels["app"] == appLabel {
					count++
				}
			}
			Expect(count).To(Equal(1))

			var got llmdv1alpha1.LLMClusterAutoscaler
			Expect(k8sClient.Get(ctx, namespacedName, &got)).To(Succeed())
			Expect(got.Status.LastScaleAction).To(Equal(llmdv1alpha1.ScaleActionNoOp))
		})
	})
})
