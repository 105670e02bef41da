package app

import (
	"context"
	"strconv"
	"strings"
)

// IndexDump renders the declaration index of a loaded state: every
// normalized key and the packages it resolves to.
func (s Service) IndexDump(ctx context.Context, req IndexDumpRequest) (IndexDumpResult, error) {
	engine, _, err := s.loadEngine(ctx, req.StatePath, req.PolicyPath, false)
	if err != nil {
		return IndexDumpResult{}, err
	}
	ix := engine.Snapshot().Index()

	result := IndexDumpResult{}
	for _, action := range ix.Actions() {
		result.Actions = append(result.Actions, IndexEntry{Key: action, Packages: ix.LookupAction(action)})
	}
	for _, scheme := range ix.Schemes() {
		result.Schemes = append(result.Schemes, IndexEntry{Key: scheme, Packages: ix.LookupScheme(scheme)})
	}
	for _, authority := range ix.Authorities() {
		host, port := splitAuthorityKey(authority)
		result.Authorities = append(result.Authorities, IndexEntry{Key: authority, Packages: ix.LookupAuthority(host, port)})
	}
	return result, nil
}

// splitAuthorityKey reverses shared.AuthorityKey: "host:port" with a
// possible -1 wildcard port.
func splitAuthorityKey(key string) (string, int) {
	idx := strings.LastIndex(key, ":")
	if idx < 0 {
		return key, -1
	}
	port, err := strconv.Atoi(key[idx+1:])
	if err != nil || port < -1 {
		return key[:idx], -1
	}
	return key[:idx], port
}
