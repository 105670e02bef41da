package policies

import (
	"strings"

	"package-visibility/internal/types"
)

// ExemptionPolicy is the compiled form of the device-level exemption
// configuration.  It is built once at engine construction and consulted
// on every decision, so lookups are plain map hits.
type ExemptionPolicy struct {
	forceQueryable  map[string]struct{}
	systemQueryable bool
}

func NewExemptionPolicy(policy types.DevicePolicy) ExemptionPolicy {
	compiled := ExemptionPolicy{
		forceQueryable:  map[string]struct{}{},
		systemQueryable: policy.SystemForceQueryable,
	}
	for _, name := range policy.ForceQueryablePackages {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		compiled.forceQueryable[trimmed] = struct{}{}
	}
	return compiled
}

// DeviceForceQueryable reports whether the package name is on the
// device allow-list of force-queryable system packages.
func (p ExemptionPolicy) DeviceForceQueryable(name string) bool {
	_, ok := p.forceQueryable[name]
	return ok
}

// SystemPackagesQueryable reports whether the device-wide "all system
// packages are force-queryable" policy is enabled.
func (p ExemptionPolicy) SystemPackagesQueryable() bool {
	return p.systemQueryable
}

// AllowListSize returns the number of compiled allow-list entries.
func (p ExemptionPolicy) AllowListSize() int {
	return len(p.forceQueryable)
}
