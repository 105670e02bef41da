package ports

import "context"

// FeatureConfigPort exposes the filtering feature switch.  The engine
// is handed an implementation at construction instead of reading
// ambient global state.
type FeatureConfigPort interface {
	GloballyEnabled() bool
	PackageEnabled(name string) bool
	OnReady(ctx context.Context)
}
