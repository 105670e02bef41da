package app

import "package-visibility/internal/types"

type ValidateRequest struct {
	StatePath  string
	PolicyPath string
}

type ValidateResult struct {
	APIVersion string
	Packages   int
}

type CheckRequest struct {
	StatePath  string
	PolicyPath string
	CallerUID  int
	Caller     string
	Target     string
	UserID     int
	Ready      bool
}

type CheckResult struct {
	Filtered bool
	Reason   types.Reason
}

type ExplainRequest struct {
	StatePath  string
	PolicyPath string
	CallerUID  int
	Caller     string
	Target     string
	UserID     int
	Ready      bool
}

type ExplainResult struct {
	Decision types.Decision
	Steps    []types.RuleStep
}

type IndexDumpRequest struct {
	StatePath  string
	PolicyPath string
}

type IndexEntry struct {
	Key      string
	Packages []string
}

type IndexDumpResult struct {
	Actions     []IndexEntry
	Schemes     []IndexEntry
	Authorities []IndexEntry
}

type StatsRequest struct {
	StatePath  string
	PolicyPath string
}

type StatsResult struct {
	Generation      uint64
	Packages        int
	ForceQueryable  int
	SystemPackages  int
	DeclaredQueries int
	ActionKeys      int
	SchemeKeys      int
	AuthorityKeys   int
}
