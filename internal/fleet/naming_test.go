package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestNextInstanceName(t *testing.T) {
	assert.Equal(t, "inst-01", NextInstanceName(nil, "inst-"))
	assert.Equal(t, "inst-03", NextInstanceName([]string{"inst-01", "inst-02"}, "inst-"))
	assert.Equal(t, "inst-10", NextInstanceName([]string{"inst-09"}, "inst-"))
	assert.Equal(t, "inst-01", NextInstanceName([]string{"other-07"}, "inst-"))
}

func at(t *testing.T, offset time.Duration) metav1.Time {
	t.Helper()
	return metav1.NewTime(time.Unix(1000, 0).Add(offset))
}

func TestSortByCreationAscendingAndScaleDownVictim(t *testing.T) {
	instances := []Instance{
		{Name: "inst-03", CreationTimestamp: at(t, 2*time.Minute)},
		{Name: "inst-01", CreationTimestamp: at(t, 0)},
		{Name: "inst-02", CreationTimestamp: at(t, time.Minute)},
	}

	sorted := SortByCreationAscending(instances)
	assert.Equal(t, []string{"inst-01", "inst-02", "inst-03"}, names(sorted))

	victim, ok := ScaleDownVictim(sorted)
	assert.True(t, ok)
	assert.Equal(t, "inst-03", victim.Name)
}

func TestScaleDownVictimEmpty(t *testing.T) {
	_, ok := ScaleDownVictim(nil)
	assert.False(t, ok)
}

func names(instances []Instance) []string {
	out := make([]string, len(instances))
	for i, inst := range instances {
		out[i] = inst.Name
	}
	return out
}
