package promquery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func TestOverrideCacheRefreshAndLookup(t *testing.T) {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: QueryOverridesConfigMapNameForTest, Namespace: "ns1"},
		Data: map[string]string{
			"QueueLength": "query: sum(custom_queue_depth{app=\"x\"})\n",
			"Broken":      "not: [valid",
		},
	}
	fakeClient := fake.NewClientBuilder().WithObjects(cm).Build()

	cache := NewOverrideCache()
	err := cache.Refresh(context.Background(), fakeClient, QueryOverridesConfigMapNameForTest, "ns1")
	require.NoError(t, err)

	q, ok := cache.Lookup("QueueLength", "ns1")
	assert.True(t, ok)
	assert.Equal(t, `sum(custom_queue_depth{app="x"})`, q)

	_, ok = cache.Lookup("Broken", "ns1")
	assert.False(t, ok)

	_, ok = cache.Lookup("TTFT", "ns1")
	assert.False(t, ok)
}

func TestOverrideCacheRefreshMissingConfigMapIsNotAnError(t *testing.T) {
	fakeClient := fake.NewClientBuilder().Build()
	cache := NewOverrideCache()
	err := cache.Refresh(context.Background(), fakeClient, "does-not-exist", "ns1")
	require.NoError(t, err)

	_, ok := cache.Lookup("QueueLength", "ns1")
	assert.False(t, ok)
}

const QueryOverridesConfigMapNameForTest = "llm-fleet-query-overrides"
