// Package fleet implements the pure bookkeeping logic the fleet autoscaler
// reconcile loop needs beyond the decision engine: instance naming, victim
// selection, and router backend-list construction. All functions here are
// deterministic and I/O-free so they can be table-tested directly.
package fleet

import (
	"fmt"
	"sort"
	"strconv"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NextInstanceName scans existingNames for entries of the form
// "<prefix><NN>", parses the trailing integer, and returns
// "<prefix><max+1>" zero-padded to width 2, per §4.2 step 5.
func NextInstanceName(existingNames []string, prefix string) string {
	max := 0
	for _, name := range existingNames {
		if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
			continue
		}
		suffix := name[len(prefix):]
		if n, err := strconv.Atoi(suffix); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%02d", prefix, max+1)
}

// Instance is the minimal view of a managed LLMCluster the fleet package
// needs, decoupled from the controller-runtime client so these functions
// stay pure and independently testable.
type Instance struct {
	Name              string
	CreationTimestamp metav1.Time
}

// SortByCreationAscending orders instances oldest-first, per §4.2 step 2.
func SortByCreationAscending(instances []Instance) []Instance {
	sorted := make([]Instance, len(instances))
	copy(sorted, instances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreationTimestamp.Before(&sorted[j].CreationTimestamp)
	})
	return sorted
}

// ScaleDownVictim returns the newest instance (last in creation order), the
// fixed "newest first" policy from §4.2's victim-selection note. Returns
// false if sorted is empty.
func ScaleDownVictim(sortedAscending []Instance) (Instance, bool) {
	if len(sortedAscending) == 0 {
		return Instance{}, false
	}
	return sortedAscending[len(sortedAscending)-1], true
}
