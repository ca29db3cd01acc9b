package fleet

import "strings"

// RouterBackend mirrors api/v1alpha1.RouterBackend without importing the
// CRD package, keeping this package dependency-free and independently
// testable.
type RouterBackend struct {
	Name    string
	Service string
	Port    int32
}

// BuildBackendList builds the router's backend list per §4.2 step 6: one
// entry per managed instance in creation order, name trimmed of
// backendNamePrefix, service equal to the instance name.
func BuildBackendList(instancesAscending []Instance, backendNamePrefix string, backendPort int32) []RouterBackend {
	backends := make([]RouterBackend, 0, len(instancesAscending))
	for _, inst := range instancesAscending {
		name := strings.TrimPrefix(inst.Name, backendNamePrefix)
		backends = append(backends, RouterBackend{
			Name:    name,
			Service: inst.Name,
			Port:    backendPort,
		})
	}
	return backends
}
