// Package testutil provides shared test helpers used across integration
// and unit test packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"package-visibility/internal/types"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// FixturePath resolves a file under tests/integration/testdata.
func FixturePath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(RepoRoot(t), "tests", "integration", "testdata", name)
}

// AppRecord builds a minimal installed application record for tests.
func AppRecord(name string, uid int) types.PackageRecord {
	return types.PackageRecord{Name: name, UID: uid, TargetAPILevel: 30}
}
