package v1alpha1

import (
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SetClusterCondition sets the specified condition on an LLMCluster's status.
func SetClusterCondition(c *LLMCluster, conditionType string, status metav1.ConditionStatus, reason, message string) {
	meta.SetStatusCondition(&c.Status.Conditions, metav1.Condition{
		Type:               conditionType,
		Status:             status,
		ObservedGeneration: c.Generation,
		LastTransitionTime: metav1.Now(),
		Reason:             reason,
		Message:            message,
	})
}

// GetClusterCondition returns the condition with the specified type, or nil.
func GetClusterCondition(c *LLMCluster, conditionType string) *metav1.Condition {
	return meta.FindStatusCondition(c.Status.Conditions, conditionType)
}

// IsClusterConditionTrue reports whether conditionType is present with status True.
func IsClusterConditionTrue(c *LLMCluster, conditionType string) bool {
	return meta.IsStatusConditionTrue(c.Status.Conditions, conditionType)
}

// SetAutoscalerCondition sets the specified condition on an LLMClusterAutoscaler's status.
func SetAutoscalerCondition(a *LLMClusterAutoscaler, conditionType string, status metav1.ConditionStatus, reason, message string) {
	meta.SetStatusCondition(&a.Status.Conditions, metav1.Condition{
		Type:               conditionType,
		Status:             status,
		ObservedGeneration: a.Generation,
		LastTransitionTime: metav1.Now(),
		Reason:             reason,
		Message:            message,
	})
}

// GetAutoscalerCondition returns the condition with the specified type, or nil.
func GetAutoscalerCondition(a *LLMClusterAutoscaler, conditionType string) *metav1.Condition {
	return meta.FindStatusCondition(a.Status.Conditions, conditionType)
}

// IsAutoscalerConditionTrue reports whether conditionType is present with status True.
func IsAutoscalerConditionTrue(a *LLMClusterAutoscaler, conditionType string) bool {
	return meta.IsStatusConditionTrue(a.Status.Conditions, conditionType)
}
