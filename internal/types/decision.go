package types

// Reason names the first rule that decided a visibility outcome.
type Reason string

const (
	ReasonSystemCaller       Reason = "system-caller"
	ReasonTargetUnregistered Reason = "target-unregistered"
	ReasonFeatureDisabled    Reason = "feature-disabled"
	ReasonCallerUnresolved   Reason = "caller-unresolved"
	ReasonForceQueryable     Reason = "force-queryable"
	ReasonDeviceAllowList    Reason = "device-allow-list"
	ReasonAllowListNonSystem Reason = "device-allow-list-non-system-caller"
	ReasonSystemQueryable    Reason = "system-queryable-policy"
	ReasonQueriesPackage     Reason = "queries-package"
	ReasonQueryMatch         Reason = "declared-query-match"
	ReasonLegacyCaller       Reason = "legacy-caller"
	ReasonDefaultDeny        Reason = "default-deny"
)

// Decision is the outcome of one visibility evaluation.  Filtered true
// means the target must stay hidden from the caller.
type Decision struct {
	Filtered bool
	Reason   Reason
}

// RuleOutcome is the per-rule result recorded by a trace run.
type RuleOutcome string

const (
	OutcomeSkip     RuleOutcome = "skip"
	OutcomeVisible  RuleOutcome = "visible"
	OutcomeFiltered RuleOutcome = "filtered"
)

// RuleStep is one entry of an evaluation trace: which rule ran, what it
// concluded, and whether it was the deciding rule.
type RuleStep struct {
	Rule     Reason
	Outcome  RuleOutcome
	Decisive bool
}
