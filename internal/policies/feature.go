package policies

import (
	"context"

	"github.com/rs/zerolog/log"

	"package-visibility/internal/types"
)

// FeatureFlags is the default feature configuration: a process-wide
// enable plus per-package opt-outs, fixed at construction.  It replaces
// ambient singleton state; the engine receives it explicitly.
type FeatureFlags struct {
	enabled  bool
	disabled map[string]struct{}
}

func NewFeatureFlags(policy types.FeaturePolicy) *FeatureFlags {
	flags := &FeatureFlags{
		enabled:  policy.Enabled,
		disabled: map[string]struct{}{},
	}
	for _, name := range policy.DisabledPackages {
		if name == "" {
			continue
		}
		flags.disabled[name] = struct{}{}
	}
	return flags
}

func (f *FeatureFlags) GloballyEnabled() bool {
	return f.enabled
}

// PackageEnabled reports whether filtering applies to the named target
// package.  A package on the disabled list is always visible.
func (f *FeatureFlags) PackageEnabled(name string) bool {
	if !f.enabled {
		return false
	}
	_, disabled := f.disabled[name]
	return !disabled
}

// OnReady is invoked when the engine learns that all system-default
// exemption lists have been loaded.
func (f *FeatureFlags) OnReady(ctx context.Context) {
	log.Ctx(ctx).Debug().
		Bool("enabled", f.enabled).
		Int("disabled_packages", len(f.disabled)).
		Msg("feature config ready")
}
