package types

import "gopkg.in/yaml.v3"

// PackageRecord is the fully-parsed view of one installed package that
// the visibility engine operates on.  Records are immutable once
// registered; updates replace the whole record under a new generation.
type PackageRecord struct {
	Name            string          `yaml:"name"`
	UID             int             `yaml:"uid"`
	VersionCode     int64           `yaml:"version_code,omitempty"`
	TargetAPILevel  int             `yaml:"target_api_level"`
	System          bool            `yaml:"system,omitempty"`
	ForceQueryable  bool            `yaml:"force_queryable,omitempty"`
	ExposedFilters  []ExposedFilter `yaml:"exposed_filters,omitempty"`
	QueriesPackages []string        `yaml:"queries_packages,omitempty"`
	QueriesPatterns []QueryPattern  `yaml:"queries_patterns,omitempty"`
}

// ExposedFilter is one advertised component filter: the tuples other
// packages can match against to discover this package.
type ExposedFilter struct {
	Actions     []string    `yaml:"actions,omitempty"`
	Categories  []string    `yaml:"categories,omitempty"`
	Schemes     []string    `yaml:"schemes,omitempty"`
	Authorities []Authority `yaml:"authorities,omitempty"`
}

// Authority is a data authority as host plus optional port.  Port -1
// (or omitted in yaml) matches any port on the host.
type Authority struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port,omitempty"`
}

// UnmarshalYAML defaults an absent port to the wildcard, so only an
// explicit port constrains the authority.
func (a *Authority) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Host string `yaml:"host"`
		Port *int   `yaml:"port"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	a.Host = raw.Host
	if raw.Port == nil {
		a.Port = -1
	} else {
		a.Port = *raw.Port
	}
	return nil
}

// QueryPattern is one intent pattern a package declares it wishes to
// resolve against: a single action with optional data constraints.
type QueryPattern struct {
	Action    string     `yaml:"action"`
	Scheme    string     `yaml:"scheme,omitempty"`
	Authority *Authority `yaml:"authority,omitempty"`
}

// QueriesNothing reports whether the record declares no queries at all,
// neither by package name nor by pattern.
func (r PackageRecord) QueriesNothing() bool {
	return len(r.QueriesPackages) == 0 && len(r.QueriesPatterns) == 0
}

// QueriesPackage reports whether the record explicitly names the given
// package in its declared queries.
func (r PackageRecord) QueriesPackage(name string) bool {
	for _, q := range r.QueriesPackages {
		if q == name {
			return true
		}
	}
	return false
}
