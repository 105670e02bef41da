package types

// InstalledState is the engine's state document: the full set of
// installed-package records as supplied by its collaborators.  The
// engine never parses manifests; it consumes records already parsed.
type InstalledState struct {
	APIVersion string          `yaml:"api_version"`
	Packages   []PackageRecord `yaml:"packages"`
}

// DevicePolicy carries the build-time/device exemption configuration
// threaded into the engine at construction.
type DevicePolicy struct {
	// ForceQueryablePackages is the device allow-list of package names
	// exempt from filtering for system callers.
	ForceQueryablePackages []string `yaml:"force_queryable,omitempty"`

	// SystemForceQueryable makes every system package queryable by any
	// caller when set.
	SystemForceQueryable bool `yaml:"system_force_queryable,omitempty"`

	Feature FeaturePolicy `yaml:"feature"`
}

// FeaturePolicy is the filtering feature switch: a process-wide enable
// plus per-package opt-outs.  Filtering fails open when disabled.
type FeaturePolicy struct {
	Enabled          bool     `yaml:"enabled"`
	DisabledPackages []string `yaml:"disabled_packages,omitempty"`
}
