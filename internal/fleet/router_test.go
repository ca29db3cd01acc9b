package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBackendList(t *testing.T) {
	instances := []Instance{
		{Name: "fleet-inst-01"},
		{Name: "fleet-inst-02"},
	}

	backends := BuildBackendList(instances, "fleet-", 8000)

	assert.Equal(t, []RouterBackend{
		{Name: "inst-01", Service: "fleet-inst-01", Port: 8000},
		{Name: "inst-02", Service: "fleet-inst-02", Port: 8000},
	}, backends)
}

func TestBuildBackendListEmpty(t *testing.T) {
	assert.Empty(t, BuildBackendList(nil, "fleet-", 8000))
}
