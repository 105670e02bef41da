package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"

	"package-visibility/internal/types"
)

const serviceStateDoc = `api_version: v1
packages:
  - name: com.browser
    uid: 10100
    target_api_level: 30
    exposed_filters:
      - actions: ["android.intent.action.VIEW"]
        schemes: ["https"]
  - name: com.client
    uid: 10101
    target_api_level: 30
    queries_patterns:
      - action: android.intent.action.VIEW
        scheme: https
  - name: com.bystander
    uid: 10102
    target_api_level: 30
`

const servicePolicyDoc = `force_queryable:
  - com.browser
feature:
  enabled: true
`

func writeServiceFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.yaml")
	policyPath := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(statePath, []byte(serviceStateDoc), 0o644))
	require.NoError(t, os.WriteFile(policyPath, []byte(servicePolicyDoc), 0o644))
	return statePath, policyPath
}

func TestServiceValidateAcceptsWellFormedDocuments(t *testing.T) {
	statePath, policyPath := writeServiceFixtures(t)
	svc := NewService()

	result, err := svc.Validate(t.Context(), ValidateRequest{StatePath: statePath, PolicyPath: policyPath})
	require.NoError(t, err)
	require.Equal(t, "v1", result.APIVersion)
	require.Equal(t, 3, result.Packages)
}

func TestServiceValidateErrors(t *testing.T) {
	svc := NewService()

	_, err := svc.Validate(t.Context(), ValidateRequest{StatePath: ""})
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = svc.Validate(t.Context(), ValidateRequest{StatePath: filepath.Join(t.TempDir(), "absent.yaml")})
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	statePath := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(statePath, []byte("api_version: v1\npackages:\n  - name: \"\"\n    uid: 10100\n    target_api_level: 30\n"), 0o644))
	_, err = svc.Validate(t.Context(), ValidateRequest{StatePath: statePath})
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestServiceCheckDecisions(t *testing.T) {
	statePath, policyPath := writeServiceFixtures(t)
	svc := NewService()

	cases := []struct {
		name     string
		caller   string
		target   string
		filtered bool
		reason   types.Reason
	}{
		{"declared query matches", "com.client", "com.browser", false, types.ReasonQueryMatch},
		{"no declaration", "com.bystander", "com.client", true, types.ReasonDefaultDeny},
		{"unregistered target", "com.client", "com.ghost", true, types.ReasonTargetUnregistered},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Check(t.Context(), CheckRequest{
				StatePath:  statePath,
				PolicyPath: policyPath,
				CallerUID:  10101,
				Caller:     tc.caller,
				Target:     tc.target,
			})
			require.NoError(t, err)
			require.Equal(t, tc.filtered, result.Filtered)
			require.Equal(t, tc.reason, result.Reason)
		})
	}
}

func TestServiceCheckReadyConsultsAllowList(t *testing.T) {
	statePath, policyPath := writeServiceFixtures(t)
	svc := NewService()

	req := CheckRequest{
		StatePath:  statePath,
		PolicyPath: policyPath,
		CallerUID:  10102,
		Caller:     "com.bystander",
		Target:     "com.browser",
	}
	result, err := svc.Check(t.Context(), req)
	require.NoError(t, err)
	require.True(t, result.Filtered)

	req.Ready = true
	result, err = svc.Check(t.Context(), req)
	require.NoError(t, err)
	// Allow-list exemptions are restricted to system callers.
	require.True(t, result.Filtered)
	require.Equal(t, types.ReasonAllowListNonSystem, result.Reason)
}

func TestServiceCheckRequiresTarget(t *testing.T) {
	svc := NewService()
	_, err := svc.Check(t.Context(), CheckRequest{StatePath: "state.yaml"})
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestServiceExplainMarksDecisiveStep(t *testing.T) {
	statePath, policyPath := writeServiceFixtures(t)
	svc := NewService()

	result, err := svc.Explain(t.Context(), ExplainRequest{
		StatePath:  statePath,
		PolicyPath: policyPath,
		CallerUID:  10101,
		Caller:     "com.client",
		Target:     "com.browser",
	})
	require.NoError(t, err)
	require.False(t, result.Decision.Filtered)
	require.Equal(t, types.ReasonQueryMatch, result.Decision.Reason)

	decisive := 0
	for _, step := range result.Steps {
		if step.Decisive {
			decisive++
			require.Equal(t, types.ReasonQueryMatch, step.Rule)
			require.Equal(t, types.OutcomeVisible, step.Outcome)
		}
	}
	require.Equal(t, 1, decisive)
}

func TestServiceIndexDump(t *testing.T) {
	statePath, policyPath := writeServiceFixtures(t)
	svc := NewService()

	result, err := svc.IndexDump(t.Context(), IndexDumpRequest{StatePath: statePath, PolicyPath: policyPath})
	require.NoError(t, err)
	require.Equal(t, []IndexEntry{
		{Key: "android.intent.action.VIEW", Packages: []string{"com.browser"}},
	}, result.Actions)
	require.Equal(t, []IndexEntry{
		{Key: "https", Packages: []string{"com.browser"}},
	}, result.Schemes)
	require.Empty(t, result.Authorities)
}

func TestServiceStats(t *testing.T) {
	statePath, policyPath := writeServiceFixtures(t)
	svc := NewService()

	result, err := svc.Stats(t.Context(), StatsRequest{StatePath: statePath, PolicyPath: policyPath})
	require.NoError(t, err)
	require.Equal(t, 3, result.Packages)
	require.Equal(t, uint64(3), result.Generation)
	require.Equal(t, 1, result.DeclaredQueries)
	require.Equal(t, 0, result.ForceQueryable)
	require.Equal(t, 0, result.SystemPackages)
	require.Equal(t, 1, result.ActionKeys)
	require.Equal(t, 1, result.SchemeKeys)
	require.Equal(t, 0, result.AuthorityKeys)
}

func TestSplitAuthorityKey(t *testing.T) {
	host, port := splitAuthorityKey("example.com:8080")
	require.Equal(t, "example.com", host)
	require.Equal(t, 8080, port)

	host, port = splitAuthorityKey("example.com:-1")
	require.Equal(t, "example.com", host)
	require.Equal(t, -1, port)

	host, port = splitAuthorityKey("portless")
	require.Equal(t, "portless", host)
	require.Equal(t, -1, port)
}
