package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"package-visibility/internal/types"
)

const stateYAML = `api_version: v1
packages:
  - name: com.some.package
    uid: 10100
    target_api_level: 30
    exposed_filters:
      - actions: [TEST_ACTION]
        schemes: [https]
        authorities:
          - host: example.com
            port: 443
  - name: com.some.other.package
    uid: 10101
    target_api_level: 30
    queries_packages: [com.some.package]
    queries_patterns:
      - action: TEST_ACTION
        scheme: https
`

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadState(t *testing.T) {
	path := writeFile(t, "state.yaml", stateYAML)
	state, err := NewStateFileAdapter().LoadState(path)
	require.NoError(t, err)

	require.Equal(t, "v1", state.APIVersion)
	require.Len(t, state.Packages, 2)
	first := state.Packages[0]
	if diff := cmp.Diff("com.some.package", first.Name); diff != "" {
		t.Fatalf("unexpected package name (-want +got):\n%s", diff)
	}
	require.Len(t, first.ExposedFilters, 1)
	require.Equal(t, []string{"TEST_ACTION"}, first.ExposedFilters[0].Actions)
	require.Equal(t, 443, first.ExposedFilters[0].Authorities[0].Port)

	second := state.Packages[1]
	require.Equal(t, []string{"com.some.package"}, second.QueriesPackages)
	require.Equal(t, "https", second.QueriesPatterns[0].Scheme)
}

func TestLoadStateOmittedAuthorityPortIsWildcard(t *testing.T) {
	path := writeFile(t, "state.yaml", `api_version: v1
packages:
  - name: com.some.package
    uid: 10100
    target_api_level: 30
    exposed_filters:
      - actions: [TEST_ACTION]
        authorities:
          - host: example.com
          - host: pinned.example.com
            port: 8080
    queries_patterns:
      - action: VIEW_ACTION
        authority:
          host: example.com
`)
	state, err := NewStateFileAdapter().LoadState(path)
	require.NoError(t, err)

	authorities := state.Packages[0].ExposedFilters[0].Authorities
	require.Equal(t, []types.Authority{
		{Host: "example.com", Port: -1},
		{Host: "pinned.example.com", Port: 8080},
	}, authorities)
	require.Equal(t, -1, state.Packages[0].QueriesPatterns[0].Authority.Port)
}

func TestLoadStateMissingFile(t *testing.T) {
	_, err := NewStateFileAdapter().LoadState(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestLoadStateMalformedYAML(t *testing.T) {
	path := writeFile(t, "state.yaml", "packages: [}")
	_, err := NewStateFileAdapter().LoadState(path)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestLoadPolicy(t *testing.T) {
	path := writeFile(t, "policy.yaml", `force_queryable: [com.some.package]
system_force_queryable: true
feature:
  enabled: true
  disabled_packages: [com.opted.out]
`)
	policy, err := NewPolicyFileAdapter().LoadPolicy(path)
	require.NoError(t, err)
	require.Equal(t, []string{"com.some.package"}, policy.ForceQueryablePackages)
	require.True(t, policy.SystemForceQueryable)
	require.True(t, policy.Feature.Enabled)
	require.Equal(t, []string{"com.opted.out"}, policy.Feature.DisabledPackages)
}

func TestLoadPolicyEmptyPathYieldsZeroPolicy(t *testing.T) {
	policy, err := NewPolicyFileAdapter().LoadPolicy("")
	require.NoError(t, err)
	require.False(t, policy.Feature.Enabled)
	require.Empty(t, policy.ForceQueryablePackages)
}

func TestEventLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events", "mutations.log")
	sink := NewEventLogAdapter(path)

	require.NoError(t, sink.Record(t.Context(), types.MutationEvent{
		ID: "evt-1", Op: types.MutationOpAdd, Package: "com.some.package", Generation: 1,
	}))
	require.NoError(t, sink.Record(t.Context(), types.MutationEvent{
		ID: "evt-2", Op: types.MutationOpRemove, Package: "com.some.package", Generation: 2,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "evt-1 add com.some.package generation=1\nevt-2 remove com.some.package generation=2\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Fatalf("unexpected event log (-want +got):\n%s", diff)
	}
}
