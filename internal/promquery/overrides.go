package promquery

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/logger"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/utils"
)

// queryOverride is the YAML shape of one ConfigMap entry: a PromQL string
// that replaces the built-in default for one metric type.
type queryOverride struct {
	Query string `yaml:"query"`
}

// OverrideCache holds operator-supplied PromQL overrides for the canonical
// per-metric-type default queries, read from a ConfigMap and refreshed on
// demand. It is a read cache of external state, not authoritative state
// (§6.5) — losing it just falls back to the built-in defaults.
type OverrideCache struct {
	mu    sync.RWMutex
	byKey map[string]string // "<namespace>/<metricType>" -> PromQL
}

// NewOverrideCache returns an empty cache; callers should call Refresh once
// after the manager cache has started.
func NewOverrideCache() *OverrideCache {
	return &OverrideCache{byKey: map[string]string{}}
}

// Refresh reloads every metric-type override from the named ConfigMap. A
// missing ConfigMap is not an error: it means no overrides are configured.
func (o *OverrideCache) Refresh(ctx context.Context, c client.Client, name, namespace string) error {
	var cm corev1.ConfigMap
	key := client.ObjectKey{Name: name, Namespace: namespace}
	err := utils.GetResourceWithBackoff(ctx, c, key, &cm, utils.StandardBackoff, "ConfigMap")
	if err != nil {
		if !apierrors.IsNotFound(err) {
			return fmt.Errorf("reading query override ConfigMap %s/%s: %w", namespace, name, err)
		}
		logger.Log.Warnw("query override ConfigMap not found, using built-in defaults", "configmap", name, "namespace", namespace)
		cm.Data = nil
	}

	next := make(map[string]string, len(cm.Data))
	for metricType, doc := range cm.Data {
		var override queryOverride
		if err := yaml.Unmarshal([]byte(doc), &override); err != nil {
			logger.Log.Warnw("skipping malformed query override", "metricType", metricType, "error", err)
			continue
		}
		if override.Query == "" {
			continue
		}
		next[namespace+"/"+metricType] = override.Query
	}

	o.mu.Lock()
	for k := range o.byKey {
		if strings.HasPrefix(k, namespace+"/") {
			delete(o.byKey, k)
		}
	}
	for k, v := range next {
		o.byKey[k] = v
	}
	o.mu.Unlock()
	return nil
}

// Lookup returns the operator-supplied override for metricType in namespace,
// if one was loaded.
func (o *OverrideCache) Lookup(metricType, namespace string) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	q, ok := o.byKey[namespace+"/"+metricType]
	return q, ok
}
