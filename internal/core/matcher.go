package core

import (
	"strings"

	"package-visibility/internal/shared"
	"package-visibility/internal/store"
	"package-visibility/internal/types"
)

// patternMatchesTarget reports whether one declared query pattern
// resolves into the target package.  Matching is per exposed filter:
// every constraint the pattern carries (action, scheme, authority)
// must hold within a single filter tuple; constraints satisfied by
// different filters of the same package do not combine.  Actions
// compare exactly and case-sensitively; schemes case-insensitively;
// authorities by host+port tuple.  These rules must stay
// bit-compatible with the platform's intent-resolution matching: a
// divergence here is either an over-grant or an under-grant.
func patternMatchesTarget(snap *store.Snapshot, pattern types.QueryPattern, target string) bool {
	if pattern.Action == "" {
		return false
	}
	// Cheap negatives: the index knows which packages expose each key
	// at all, across every filter.
	ix := snap.Index()
	if !ix.ContainsAction(pattern.Action, target) {
		return false
	}
	if pattern.Scheme != "" && !ix.ContainsScheme(pattern.Scheme, target) {
		return false
	}
	if pattern.Authority != nil && !ix.ContainsAuthority(pattern.Authority.Host, pattern.Authority.Port, target) {
		return false
	}
	record, ok := snap.Record(target)
	if !ok {
		return false
	}
	for _, filter := range record.ExposedFilters {
		if filterMatchesPattern(filter, pattern) {
			return true
		}
	}
	return false
}

// filterMatchesPattern checks one exposed filter tuple against one
// declared pattern.
func filterMatchesPattern(filter types.ExposedFilter, pattern types.QueryPattern) bool {
	if !filterHasAction(filter, pattern.Action) {
		return false
	}
	if pattern.Scheme != "" && !filterHasScheme(filter, pattern.Scheme) {
		return false
	}
	if pattern.Authority != nil && !filterHasAuthority(filter, *pattern.Authority) {
		return false
	}
	return true
}

func filterHasAction(filter types.ExposedFilter, action string) bool {
	for _, candidate := range filter.Actions {
		if candidate == action {
			return true
		}
	}
	return false
}

func filterHasScheme(filter types.ExposedFilter, scheme string) bool {
	normalized := shared.NormalizeScheme(scheme)
	for _, candidate := range filter.Schemes {
		if shared.NormalizeScheme(candidate) == normalized {
			return true
		}
	}
	return false
}

// filterHasAuthority compares hosts case-insensitively; a filter
// authority with a wildcard port matches any queried port.
func filterHasAuthority(filter types.ExposedFilter, authority types.Authority) bool {
	host := strings.ToLower(strings.TrimSpace(authority.Host))
	port := authority.Port
	if port < 0 {
		port = -1
	}
	for _, candidate := range filter.Authorities {
		if strings.ToLower(strings.TrimSpace(candidate.Host)) != host {
			continue
		}
		candidatePort := candidate.Port
		if candidatePort < 0 {
			candidatePort = -1
		}
		if candidatePort == port || (candidatePort == -1 && port >= 0) {
			return true
		}
	}
	return false
}

// declaredQueriesMatch reports whether any of the caller's declared
// query patterns matches a filter exposed by the target.
func declaredQueriesMatch(snap *store.Snapshot, caller types.PackageRecord, target string) bool {
	for _, pattern := range caller.QueriesPatterns {
		if patternMatchesTarget(snap, pattern, target) {
			return true
		}
	}
	return false
}
