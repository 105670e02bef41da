package ports

import "package-visibility/internal/types"

type StateSourcePort interface {
	LoadState(path string) (types.InstalledState, error)
}

type PolicySourcePort interface {
	LoadPolicy(path string) (types.DevicePolicy, error)
}
