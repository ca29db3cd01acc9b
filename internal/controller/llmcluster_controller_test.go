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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	llmdv1alpha1 "github.com/llm-d-incubation/llm-fleet-controlplane/api/v1alpha1"
	testutils "github.com/llm-d-incubation/llm-fleet-controlplane/test/utils"
)

func createTestClusterReconciler(k8sClient client.Client) *LLMClusterReconciler {
	return &LLMClusterReconciler{
		Client:   k8sClient,
		Scheme:   k8sClient.Scheme(),
		Recorder: record.NewFakeRecorder(32),
	}
}

var _ = Describe("LLMCluster Controller", func() {
	Context("when reconciling a well-formed cluster", func() {
		const resourceName = "test-llmcluster"
		ctx := context.Background()
		namespacedName := types.NamespacedName{Name: resourceName, Namespace: "default"}

		AfterEach(func() {
			cluster := &llmdv1alpha1.LLMCluster{}
			if err := k8sClient.Get(ctx, namespacedName, cluster); err == nil {
				Expect(k8sClient.Delete(ctx, cluster)).To(Succeed())
			}
		})

		It("creates the statefulset and moves the cluster out of Pending phase", func() {
			cluster := testutils.NewTestLLMCluster(resourceName, "default")
			Expect(k8sClient.Create(ctx, cluster)).To(Succeed())

			reconciler := createTestClusterReconciler(k8sClient)
			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: namespacedName})
			Expect(err).NotTo(HaveOccurred())

			var sts appsv1.StatefulSet
			Expect(k8sClient.Get(ctx, namespacedName, &sts)).To(Succeed())
			Expect(*sts.Spec.Replicas).To(Equal(cluster.Spec.Replicas))

			var got llmdv1alpha1.LLMCluster
			Expect(k8sClient.Get(ctx, namespacedName, &got)).To(Succeed())
			Expect(got.Status.Phase).NotTo(Equal(llmdv1alpha1.ClusterPhasePending))
		})

		It("is idempotent across repeated reconciles", func() {
			cluster := testutils.NewTestLLMCluster(resourceName, "default")
			Expect(k8sClient.Create(ctx, cluster)).To(Succeed())

			reconciler := createTestClusterReconciler(k8sClient)
			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: namespacedName})
			Expect(err).NotTo(HaveOccurred())
			_, err = reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: namespacedName})
			Expect(err).NotTo(HaveOccurred())

			var sts appsv1.StatefulSet
			Expect(k8sClient.Get(ctx, namespacedName, &sts)).To(Succeed())
		})
	})

	Context("when tensorParallelSize does not match replicas*gpusPerPod", func() {
		const resourceName = "test-llmcluster-bad-tp"
		ctx := context.Background()
		namespacedName := types.NamespacedName{Name: resourceName, Namespace: "default"}

		AfterEach(func() {
			cluster := &llmdv1alpha1.LLMCluster{}
			if err := k8sClient.Get(ctx, namespacedName, cluster); err == nil {
				Expect(k8sClient.Delete(ctx, cluster)).To(Succeed())
			}
		})

		It("marks the cluster Failed and creates no children", func() {
			cluster := testutils.NewTestLLMCluster(resourceName, "default")
			cluster.Spec.TensorParallelSize = 99
			Expect(k8sClient.Create(ctx, cluster)).To(Succeed())

			reconciler := createTestClusterReconciler(k8sClient)
			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: namespacedName})
			Expect(err).NotTo(HaveOccurred())

			var got llmdv1alpha1.LLMCluster
			Expect(k8sClient.Get(ctx, namespacedName, &got)).To(Succeed())
			Expect(got.Status.Phase).To(Equal(llmdv1alpha1.ClusterPhaseFailed))
			Expect(llmdv1alpha1.IsClusterConditionTrue(&got, llmdv1alpha1.ClusterConditionValidationFailed)).To(BeTrue())

			var sts appsv1.StatefulSet
			err = k8sClient.Get(ctx, namespacedName, &sts)
			Expect(err).To(HaveOccurred())
		})
	})
})
