// Package shared provides common normalization helpers used across
// multiple packages in the package-visibility codebase.
package shared

import (
	"fmt"
	"strings"
)

// NormalizeScheme lowercases and trims a data scheme.  Scheme matching
// is case-insensitive by contract.
func NormalizeScheme(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// AuthorityKey renders a host+port tuple as a stable index key.  Hosts
// compare case-insensitively; ports below zero collapse to the
// wildcard port.
func AuthorityKey(host string, port int) string {
	normalized := strings.ToLower(strings.TrimSpace(host))
	if port < 0 {
		port = -1
	}
	return fmt.Sprintf("%s:%d", normalized, port)
}
