// Package index maintains the reverse declaration index: compiled maps
// from normalized filter keys to the set of packages exposing a
// matching filter.  An index instance is mutated only while a new
// store generation is being built and is immutable once published.
package index

import (
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"package-visibility/internal/shared"
	"package-visibility/internal/types"
)

type DeclarationIndex struct {
	actions     map[string]map[string]struct{}
	schemes     map[string]map[string]struct{}
	authorities map[string]map[string]struct{}
	owners      map[string]struct{}
}

func New() *DeclarationIndex {
	return &DeclarationIndex{
		actions:     map[string]map[string]struct{}{},
		schemes:     map[string]map[string]struct{}{},
		authorities: map[string]map[string]struct{}{},
		owners:      map[string]struct{}{},
	}
}

// Register inserts the record's exposed filters into the reverse maps.
// Re-registering a known package is an error; callers must unregister
// the previous record first.
func (ix *DeclarationIndex) Register(record types.PackageRecord) error {
	if record.Name == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cannot index a record without a package name")
	}
	if _, ok := ix.owners[record.Name]; ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("package already indexed: %s", record.Name))
	}
	ix.owners[record.Name] = struct{}{}
	for _, filter := range record.ExposedFilters {
		for _, action := range filter.Actions {
			// Actions compare case-sensitively and exactly.
			store(ix.actions, action, record.Name)
		}
		for _, scheme := range filter.Schemes {
			store(ix.schemes, shared.NormalizeScheme(scheme), record.Name)
		}
		for _, authority := range filter.Authorities {
			store(ix.authorities, shared.AuthorityKey(authority.Host, authority.Port), record.Name)
		}
	}
	return nil
}

// Unregister removes every entry owned by the named package.  Unknown
// names are reported for diagnostics but leave the index untouched.
func (ix *DeclarationIndex) Unregister(name string) error {
	if _, ok := ix.owners[name]; !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package not indexed: %s", name))
	}
	delete(ix.owners, name)
	remove(ix.actions, name)
	remove(ix.schemes, name)
	remove(ix.authorities, name)
	return nil
}

// ContainsAction reports whether pkg exposes a filter with the exact
// action.  Constant time on the hot path.
func (ix *DeclarationIndex) ContainsAction(action string, pkg string) bool {
	_, ok := ix.actions[action][pkg]
	return ok
}

// ContainsScheme reports whether pkg exposes a filter with the scheme,
// compared case-insensitively.
func (ix *DeclarationIndex) ContainsScheme(scheme string, pkg string) bool {
	_, ok := ix.schemes[shared.NormalizeScheme(scheme)][pkg]
	return ok
}

// ContainsAuthority reports whether pkg exposes a filter matching the
// host+port tuple.  A filter registered without a port matches any
// port on its host.
func (ix *DeclarationIndex) ContainsAuthority(host string, port int, pkg string) bool {
	if _, ok := ix.authorities[shared.AuthorityKey(host, port)][pkg]; ok {
		return true
	}
	if port >= 0 {
		if _, ok := ix.authorities[shared.AuthorityKey(host, -1)][pkg]; ok {
			return true
		}
	}
	return false
}

// LookupAction returns the packages exposing a filter with the exact
// action, sorted for deterministic output.  Unmatched keys return an
// empty set, never an error.
func (ix *DeclarationIndex) LookupAction(action string) []string {
	return sortedMembers(ix.actions[action])
}

// LookupScheme returns the packages exposing a filter with the scheme.
func (ix *DeclarationIndex) LookupScheme(scheme string) []string {
	return sortedMembers(ix.schemes[shared.NormalizeScheme(scheme)])
}

// LookupAuthority returns the packages exposing a filter matching the
// host+port tuple, including wildcard-port registrations.
func (ix *DeclarationIndex) LookupAuthority(host string, port int) []string {
	merged := map[string]struct{}{}
	for pkg := range ix.authorities[shared.AuthorityKey(host, port)] {
		merged[pkg] = struct{}{}
	}
	if port >= 0 {
		for pkg := range ix.authorities[shared.AuthorityKey(host, -1)] {
			merged[pkg] = struct{}{}
		}
	}
	return sortedMembers(merged)
}

// Actions returns every indexed action key, sorted.
func (ix *DeclarationIndex) Actions() []string {
	return sortedKeys(ix.actions)
}

// Authorities returns every indexed authority key, sorted.
func (ix *DeclarationIndex) Authorities() []string {
	return sortedKeys(ix.authorities)
}

// Schemes returns every indexed scheme key, sorted.
func (ix *DeclarationIndex) Schemes() []string {
	return sortedKeys(ix.schemes)
}

// PackageCount returns the number of packages contributing entries.
func (ix *DeclarationIndex) PackageCount() int {
	return len(ix.owners)
}

func store(m map[string]map[string]struct{}, key string, pkg string) {
	if key == "" {
		return
	}
	if m[key] == nil {
		m[key] = map[string]struct{}{}
	}
	m[key][pkg] = struct{}{}
}

func remove(m map[string]map[string]struct{}, pkg string) {
	for key, members := range m {
		delete(members, pkg)
		if len(members) == 0 {
			delete(m, key)
		}
	}
}

func sortedMembers(members map[string]struct{}) []string {
	out := make([]string, 0, len(members))
	for pkg := range members {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for key := range m {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
