package utils

import (
	"context"
	"time"

	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/logger"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Backoff configurations shared by every reconciler that touches the object
// store or the metrics endpoint.
var (
	// StandardBackoff is used for ordinary Get/Update calls.
	StandardBackoff = wait.Backoff{
		Duration: 100 * time.Millisecond,
		Factor:   2.0,
		Jitter:   0.1,
		Steps:    5,
	}

	// ReconcileBackoff is used where a slower cadence is appropriate, e.g.
	// child-object create/update during a reconcile.
	ReconcileBackoff = wait.Backoff{
		Duration: 500 * time.Millisecond,
		Factor:   2.0,
		Steps:    5,
	}
)

// GetResourceWithBackoff performs a Get with exponential backoff retry on
// transient errors. A NotFound error is returned immediately without retry.
func GetResourceWithBackoff[T client.Object](ctx context.Context, c client.Client, key client.ObjectKey, obj T, backoff wait.Backoff, resourceType string) error {
	return wait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		err := c.Get(ctx, key, obj)
		if err != nil {
			if apierrors.IsNotFound(err) {
				return false, err
			}
			logger.Log.Warnw("transient error getting resource, retrying", "resourceType", resourceType, "name", key.Name, "namespace", key.Namespace, "error", err)
			return false, nil
		}
		return true, nil
	})
}

// CreateOrUpdateWithBackoff creates desired if it does not exist (as reported
// by a prior Get into current), otherwise updates current's mutable fields by
// calling mutate and issuing an Update. Both paths retry on transient errors.
func CreateOrUpdateWithBackoff[T client.Object](ctx context.Context, c client.Client, current T, desired T, exists bool, mutate func(current, desired T), backoff wait.Backoff, resourceType string) error {
	return wait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		var err error
		if !exists {
			err = c.Create(ctx, desired)
		} else {
			mutate(current, desired)
			err = c.Update(ctx, current)
		}
		if err != nil {
			if apierrors.IsInvalid(err) || apierrors.IsForbidden(err) || apierrors.IsAlreadyExists(err) {
				return false, err
			}
			if apierrors.IsConflict(err) {
				logger.Log.Warnw("conflict writing resource, retrying", "resourceType", resourceType)
				return false, nil
			}
			logger.Log.Warnw("transient error writing resource, retrying", "resourceType", resourceType, "error", err)
			return false, nil
		}
		return true, nil
	})
}

// DeleteResourceWithBackoff deletes obj, treating NotFound as success.
func DeleteResourceWithBackoff(ctx context.Context, c client.Client, obj client.Object, backoff wait.Backoff, resourceType string) error {
	return wait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		err := c.Delete(ctx, obj)
		if err != nil {
			if apierrors.IsNotFound(err) {
				return true, nil
			}
			if apierrors.IsConflict(err) {
				logger.Log.Warnw("conflict deleting resource, retrying", "resourceType", resourceType)
				return false, nil
			}
			logger.Log.Warnw("transient error deleting resource, retrying", "resourceType", resourceType, "error", err)
			return false, nil
		}
		return true, nil
	})
}

// UpdateObjectWithBackoff performs a regular (non-status-subresource) Update
// with exponential backoff retry. Use this to persist metadata (labels,
// annotations, finalizers) on a type with a status subresource, since
// UpdateStatusWithBackoff's Status().Update() never writes .metadata.
func UpdateObjectWithBackoff[T client.Object](ctx context.Context, c client.Client, obj T, backoff wait.Backoff, resourceType string) error {
	return wait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		err := c.Update(ctx, obj)
		if err != nil {
			if apierrors.IsInvalid(err) || apierrors.IsForbidden(err) {
				logger.Log.Errorw("permanent error updating resource", "resourceType", resourceType, "name", obj.GetName(), "error", err)
				return false, err
			}
			if apierrors.IsConflict(err) {
				logger.Log.Warnw("conflict updating resource, retrying", "resourceType", resourceType, "name", obj.GetName())
				return false, nil
			}
			logger.Log.Warnw("transient error updating resource, retrying", "resourceType", resourceType, "name", obj.GetName(), "error", err)
			return false, nil
		}
		return true, nil
	})
}

// UpdateStatusWithBackoff performs a status-subresource Update with
// exponential backoff retry, re-fetching is left to the caller: callers pass
// a freshly fetched object so a conflict always means real concurrent writes.
func UpdateStatusWithBackoff[T client.Object](ctx context.Context, c client.Client, obj T, backoff wait.Backoff, resourceType string) error {
	return wait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		err := c.Status().Update(ctx, obj)
		if err != nil {
			if apierrors.IsInvalid(err) || apierrors.IsForbidden(err) {
				logger.Log.Errorw("permanent error updating status", "resourceType", resourceType, "name", obj.GetName(), "error", err)
				return false, err
			}
			if apierrors.IsConflict(err) {
				logger.Log.Warnw("conflict updating status, retrying", "resourceType", resourceType, "name", obj.GetName())
				return false, nil
			}
			logger.Log.Warnw("transient error updating status, retrying", "resourceType", resourceType, "name", obj.GetName(), "error", err)
			return false, nil
		}
		return true, nil
	})
}

// Ptr returns a pointer to v, for building *int32/*string struct fields inline.
func Ptr[T any](v T) *T {
	return &v
}

// GetConfigValue retrieves key from data, falling back to def.
func GetConfigValue(data map[string]string, key, def string) string {
	if v, ok := data[key]; ok {
		return v
	}
	return def
}
