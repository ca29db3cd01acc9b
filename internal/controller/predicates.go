package controller

import (
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
)

// ChildObjectEventFilter returns a predicate.Funcs for objects owned by an
// LLMCluster (StatefulSet, Services, Deployments, PDB, NetworkPolicy, HPA).
// Create/Delete always trigger a reconcile of the owner; Update only does
// when the generation or the resourceVersion changed. Periodic resync events
// (identical resourceVersion) are dropped, while status-only changes such as
// a StatefulSet's readyReplicas still reach the owner.
func ChildObjectEventFilter() predicate.Funcs {
	return predicate.Funcs{
		CreateFunc: func(e event.CreateEvent) bool {
			return true
		},
		UpdateFunc: func(e event.UpdateEvent) bool {
			return e.ObjectOld.GetGeneration() != e.ObjectNew.GetGeneration() ||
				e.ObjectOld.GetResourceVersion() != e.ObjectNew.GetResourceVersion()
		},
		DeleteFunc: func(e event.DeleteEvent) bool {
			return true
		},
		GenericFunc: func(e event.GenericEvent) bool {
			return false
		},
	}
}

// AutoscalerCRDEventFilter is used on the LLMClusterAutoscaler watch that
// feeds the fleet controller's SetupWithManager: create/update/delete of the
// policy object itself always matter (a config change should not wait for
// the next tick), but the ticker loop is what actually drives scaling.
func AutoscalerCRDEventFilter() predicate.Funcs {
	return predicate.Funcs{
		CreateFunc: func(e event.CreateEvent) bool {
			return true
		},
		UpdateFunc: func(e event.UpdateEvent) bool {
			return e.ObjectOld.GetGeneration() != e.ObjectNew.GetGeneration()
		},
		DeleteFunc: func(e event.DeleteEvent) bool {
			return true
		},
		GenericFunc: func(e event.GenericEvent) bool {
			return false
		},
	}
}
